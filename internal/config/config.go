package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Share     ShareConfig     `mapstructure:"share"`
	Download  DownloadConfig  `mapstructure:"download"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig holds the box service endpoint and transport settings
type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// Timeout bounds ordinary API calls, in seconds.
	Timeout int `mapstructure:"timeout"`
	// DownloadTimeout bounds box downloads, in seconds. Zero means no limit.
	DownloadTimeout int `mapstructure:"download_timeout"`
	MaxRetries      int `mapstructure:"max_retries"`
}

// ShareConfig holds settings for shareable download links
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// UploadConfig holds upload-specific configuration
type UploadConfig struct {
	AutoDetectContentType bool   `mapstructure:"auto_detect_content_type"`
	DefaultCompress       string `mapstructure:"default_compress"`
	DefaultType           string `mapstructure:"default_type"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds user interface configuration
type UIConfig struct {
	InteractiveMode bool `mapstructure:"interactive_mode"`
}

// TelemetryConfig toggles interaction events
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HBBOX")
	v.AutomaticEnv()

	v.BindEnv("api.endpoint", "HBBOX_API_ENDPOINT")
	v.BindEnv("api.timeout", "HBBOX_API_TIMEOUT")
	v.BindEnv("api.download_timeout", "HBBOX_API_DOWNLOAD_TIMEOUT")
	v.BindEnv("api.max_retries", "HBBOX_API_MAX_RETRIES")
	v.BindEnv("share.base_url", "HBBOX_SHARE_BASE_URL")
	v.BindEnv("download.dir", "HBBOX_DOWNLOAD_DIR")
	v.BindEnv("upload.auto_detect_content_type", "HBBOX_UPLOAD_AUTO_DETECT_CONTENT_TYPE")
	v.BindEnv("upload.default_compress", "HBBOX_UPLOAD_DEFAULT_COMPRESS")
	v.BindEnv("upload.default_type", "HBBOX_UPLOAD_DEFAULT_TYPE")
	v.BindEnv("log.level", "HBBOX_LOG_LEVEL")
	v.BindEnv("log.format", "HBBOX_LOG_FORMAT")
	v.BindEnv("ui.interactive_mode", "HBBOX_UI_INTERACTIVE_MODE")
	v.BindEnv("telemetry.enabled", "HBBOX_TELEMETRY_ENABLED")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hanbatbox-cli")
		v.AddConfigPath("/etc/hanbatbox-cli/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Download.Dir == "" {
		config.Download.Dir = GetDefaultDownloadDir()
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.endpoint", "https://api.hanbatbox.kr")
	v.SetDefault("api.timeout", 20)
	v.SetDefault("api.download_timeout", 0)
	v.SetDefault("api.max_retries", 0)

	v.SetDefault("share.base_url", "https://hanbatbox.kr")

	v.SetDefault("download.dir", "")

	v.SetDefault("upload.auto_detect_content_type", true)
	v.SetDefault("upload.default_compress", "")
	v.SetDefault("upload.default_type", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ui.interactive_mode", true)

	v.SetDefault("telemetry.enabled", true)
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".hanbatbox-cli", "config.toml")
}

// GetDefaultDownloadDir returns ~/Downloads, or the working directory when home is unknown
func GetDefaultDownloadDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, "Downloads")
}
