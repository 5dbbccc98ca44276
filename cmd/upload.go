package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/upload"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var (
	uploadTitle      string
	uploadPassword   string
	uploadUploader   string
	uploadType       string
	uploadTags       []string
	uploadCompress   string
	uploadNoProgress bool
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Create a box from local files",
	Long: `Create a new password-protected box from one or more local files.
The title defaults to the first file name without its extension.

Examples:
  hanbatbox upload report.pdf                     # Prompt for a password
  hanbatbox upload *.jpg --title "Trip photos"    # Custom title
  hanbatbox upload scan.png --compress normal     # Compress images first
  hanbatbox upload a.zip -p secret --no-progress  # Non-interactive`,
	Args: cobra.MinimumNArgs(1),
	RunE: uploadFiles,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "box title (default: first file name)")
	uploadCmd.Flags().StringVarP(&uploadPassword, "password", "p", "", "box password (prompted when omitted)")
	uploadCmd.Flags().StringVarP(&uploadUploader, "uploader", "u", "", "uploader name (default: saved nickname)")
	uploadCmd.Flags().StringVar(&uploadType, "type", "", "box type (overrides config)")
	uploadCmd.Flags().StringSliceVar(&uploadTags, "tag", nil, "tag to attach, repeatable")
	uploadCmd.Flags().StringVarP(&uploadCompress, "compress", "z", "", "image compression level (high, fine, normal, low)")
	uploadCmd.Flags().BoolVar(&uploadNoProgress, "no-progress", false, "disable progress bar")
}

// barCreator drives a byte progress bar from multipart progress
type barCreator struct {
	client *box.Client
	bar    *progressbar.ProgressBar
}

func (c barCreator) CreateBox(ctx context.Context, draft *box.Draft) (box.Ref, error) {
	defer c.bar.Finish()
	return c.client.CreateBoxWithProgress(ctx, draft, func(sent, total int64, percentage float64) {
		c.bar.Set64(sent)
	})
}

func uploadFiles(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	client, err := newClient()
	if err != nil {
		return err
	}

	user, err := config.LoadUserData()
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}

	// Determine compression level (CLI flag > config > default)
	compressionLevel := uploadCompress
	if !cmd.Flags().Changed("compress") {
		compressionLevel = cfg.Upload.DefaultCompress
	}
	if compressionLevel != "" && !config.IsValidCompressLevel(compressionLevel) {
		return fmt.Errorf("invalid compression level: %s (use: high, fine, normal, low)", compressionLevel)
	}

	workDir, err := os.MkdirTemp("", "hanbatbox-upload-")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	files, err := upload.Collector{Compress: compressionLevel, WorkDir: workDir}.Collect(args...)
	if err != nil {
		return err
	}

	form := upload.NewForm()
	if uploadTitle != "" {
		form.SetTitle(uploadTitle)
	}
	form.AddFiles(files...)

	boxType := uploadType
	if !cmd.Flags().Changed("type") {
		boxType = cfg.Upload.DefaultType
	}
	form.SetType(boxType)
	form.SetTags(uploadTags)

	password, err := readPassword(uploadPassword, "Box password: ")
	if err != nil {
		return err
	}
	form.SetPassword(password)

	uploader := uploadUploader
	if uploader == "" {
		uploader = user.Nickname
	}

	draft := form.Draft()

	// Show a byte progress bar unless disabled; otherwise a spinner
	var creator upload.Creator = client
	var loading notice.Loading = utils.NewSpinner("Uploading")
	if !uploadNoProgress && !quiet {
		creator = barCreator{client: client, bar: utils.NewTransferBar(draft.TotalSize(), fmt.Sprintf("Uploading %q", draft.Title))}
		loading = notice.NewIndicator(nil)
	}

	notices := notice.NewRegistry()
	navigator := upload.NavigatorFunc(func(route string) {
		logrus.Debugf("upload: navigate %s", route)
	})
	submitter := upload.NewSubmitter(upload.DefaultRules(), creator, notices, loading, navigator)

	logrus.Infof("Uploading %d files (%d bytes) as %q", len(draft.Files), draft.TotalSize(), draft.Title)

	ref, outcome, err := submitter.Submit(cmd.Context(), draft, uploader)
	switch outcome {
	case upload.OutcomeInvalid:
		printNotices(notices, "")
		return err
	case upload.OutcomeFailed:
		return fmt.Errorf("failed to create box: %w", err)
	}

	if err := user.SetLastBoxID(ref.ID); err != nil {
		logrus.Warnf("Failed to remember last box: %v", err)
	}

	link := utils.NewURLGenerator(cfg.Share.BaseURL).DownloadLink(ref.ID)
	fmt.Printf("Created box #%d %q\n%s\n", ref.ID, draft.Title, link)
	return nil
}
