package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/panel"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var (
	downloadPassword   string
	downloadOutput     string
	downloadNoProgress bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <box-id>",
	Short: "Download a box",
	Long: `Download the contents of a box using its password.
Files are saved to the download directory and never overwrite existing files.

Examples:
  hanbatbox download 42                 # Prompt for the password
  hanbatbox download 42 -p secret       # Password from the flag
  hanbatbox download 42 -o ./boxes      # Save into ./boxes`,
	Args: cobra.ExactArgs(1),
	RunE: downloadBox,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadPassword, "password", "p", "", "box password (prompted when omitted)")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "download directory (overrides config)")
	downloadCmd.Flags().BoolVar(&downloadNoProgress, "no-progress", false, "disable progress bar")
}

// progressSaver shows bytes written while saving a payload
type progressSaver struct {
	saver *utils.FileSaver
}

func (s progressSaver) Save(filename string, r io.Reader) (string, error) {
	bar := utils.NewTransferBar(-1, fmt.Sprintf("Downloading %s", filename))
	defer bar.Finish()

	reader := progressbar.NewReader(r, bar)
	return s.saver.Save(filename, &reader)
}

func parseBoxID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid box id %q", arg)
	}
	return id, nil
}

// newPanel mounts a download panel for the CLI with a terminal spinner as loading indicator
func newPanel(id int64, saver panel.Saver) (*panel.Panel, *notice.Registry, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}

	notices := notice.NewRegistry()
	p := panel.New(id, panel.Deps{
		Remote:    client,
		Saver:     saver,
		Clipboard: utils.SystemClipboard{},
		Links:     utils.NewURLGenerator(GetConfig().Share.BaseURL),
		Notices:   notices,
		Loading:   utils.NewSpinner(fmt.Sprintf("Box #%d", id)),
		Tracker:   newTracker(),
		Alerter:   panel.AlerterFunc(func(message string) { fmt.Println(message) }),
	})
	notices.Open(notice.PanelID(id))
	return p, notices, nil
}

func downloadBox(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	id, err := parseBoxID(args[0])
	if err != nil {
		return err
	}

	dir := cfg.Download.Dir
	if downloadOutput != "" {
		dir = downloadOutput
	}

	fileSaver := utils.NewFileSaver(dir)
	var saver panel.Saver = fileSaver
	if !downloadNoProgress && !quiet {
		saver = progressSaver{saver: fileSaver}
	}

	p, notices, err := newPanel(id, saver)
	if err != nil {
		return err
	}
	defer p.Unmount()

	password, err := readPassword(downloadPassword, fmt.Sprintf("Password for box #%d: ", id))
	if err != nil {
		return err
	}
	p.SetPassword(password)

	state, err := p.Download(cmd.Context())
	printNotices(notices, notice.PanelID(id))

	if state != panel.StateSuccess {
		return fmt.Errorf("download %s: %w", state, err)
	}
	return nil
}
