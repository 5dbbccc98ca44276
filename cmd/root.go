package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/telemetry"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hanbatbox",
	Short: "Upload and download password-protected file boxes",
	Long: `hanbatbox is a command line client for Hanbat Box.
Create a box from local files, share its link, and download or delete it
with the box password. Configuration comes from TOML files, HBBOX_*
environment variables and CLI flags.

Example usage:
  hanbatbox                                  # Interactive box browser
  hanbatbox upload report.pdf slides.pptx    # Create a box
  hanbatbox list --keyword report            # List boxes
  hanbatbox download 42                      # Download box 42
  hanbatbox link 42                          # Copy the share link`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// When called without subcommands, directly enter the interactive browser
		return runInteractive()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.hanbatbox-cli/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging()
	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := filepath.Join(os.TempDir(), "hanbatbox-cli")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

// newClient creates the box service client from the global configuration
func newClient() (*box.Client, error) {
	cfg := GetConfig()
	client, err := box.NewClient(&cfg.API)
	if err != nil {
		return nil, fmt.Errorf("failed to create box client: %w", err)
	}
	client.SetContentTypeDetection(cfg.Upload.AutoDetectContentType)
	return client, nil
}

// newTracker returns the interaction tracker, or a no-op one when telemetry is off
func newTracker() telemetry.Tracker {
	if !GetConfig().Telemetry.Enabled {
		return telemetry.Nop{}
	}
	return telemetry.NewLogTracker()
}

// runInteractive runs the interactive box browser
func runInteractive() error {
	cfg := GetConfig()

	client, err := newClient()
	if err != nil {
		return err
	}

	user, err := config.LoadUserData()
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}

	app := tui.NewApp(tui.Options{
		Service:   client,
		Config:    cfg,
		User:      user,
		Clipboard: utils.SystemClipboard{},
		Saver:     utils.NewFileSaver(cfg.Download.Dir),
		Tracker:   newTracker(),
	})

	program := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Set program reference in model for direct messaging
	app.SetProgram(program)
	defer app.Close()

	_, err = program.Run()
	return err
}
