package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserData holds user-specific settings that are stored locally
type UserData struct {
	Nickname  string    `json:"nickname"`
	LastBoxID int64     `json:"last_box_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	path string
}

// userDataDir can be redirected by tests
var userDataDir = func() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".hanbatbox-cli"), nil
}

// LoadUserData loads user data from ~/.hanbatbox-cli/user.data.
// A missing file is created with a generated nickname so later runs keep it;
// an unreadable one yields fresh defaults.
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(""), nil
	}

	data, err := os.ReadFile(userDataPath)
	if os.IsNotExist(err) {
		userData := createDefaultUserData(userDataPath)
		persist(userData)
		return userData, nil
	}
	if err != nil {
		return createDefaultUserData(userDataPath), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return createDefaultUserData(userDataPath), nil
	}
	userData.path = userDataPath

	if strings.TrimSpace(userData.Nickname) == "" {
		userData.Nickname = GenerateNickname()
		persist(&userData)
	}

	return &userData, nil
}

// persist saves generated defaults; failure only costs a stable nickname
func persist(ud *UserData) {
	if err := ud.SaveUserData(); err != nil {
		logrus.Warnf("Failed to save user data: %v", err)
	}
}

// SaveUserData writes the user data back to disk
func (ud *UserData) SaveUserData() error {
	if ud.path == "" {
		return fmt.Errorf("user data has no backing file")
	}

	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ud.path, data, 0644)
}

// SetNickname sets the uploader nickname and saves to file
func (ud *UserData) SetNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Errorf("nickname cannot be empty")
	}
	ud.Nickname = nickname
	return ud.SaveUserData()
}

// SetLastBoxID remembers the most recently created box
func (ud *UserData) SetLastBoxID(id int64) error {
	ud.LastBoxID = id
	return ud.SaveUserData()
}

// GenerateNickname returns a throwaway uploader name such as guest-1a2b3c4d
func GenerateNickname() string {
	return "guest-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func createDefaultUserData(path string) *UserData {
	now := time.Now()
	return &UserData{
		Nickname:  GenerateNickname(),
		CreatedAt: now,
		UpdatedAt: now,
		path:      path,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	configDir, err := userDataDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
