package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var linkNoCopy bool

// linkCmd represents the link command
var linkCmd = &cobra.Command{
	Use:   "link [box-id]",
	Short: "Print and copy the share link of a box",
	Long: `Print the share link of a box and copy it to the clipboard.
Without an ID the most recently created box is used.

Examples:
  hanbatbox link 42           # Link for box 42
  hanbatbox link              # Link for the last uploaded box
  hanbatbox link 42 --no-copy # Print only`,
	Args: cobra.MaximumNArgs(1),
	RunE: printLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().BoolVar(&linkNoCopy, "no-copy", false, "do not copy the link to the clipboard")
}

func printLink(cmd *cobra.Command, args []string) error {
	var id int64
	if len(args) == 1 {
		parsed, err := parseBoxID(args[0])
		if err != nil {
			return err
		}
		id = parsed
	} else {
		user, err := config.LoadUserData()
		if err != nil {
			return fmt.Errorf("failed to load user data: %w", err)
		}
		if user.LastBoxID == 0 {
			return fmt.Errorf("no box uploaded yet, pass a box id")
		}
		id = user.LastBoxID
	}

	links := utils.NewURLGenerator(GetConfig().Share.BaseURL)
	if linkNoCopy {
		fmt.Println(links.DownloadLink(id))
		return nil
	}

	link, err := utils.CopyLink(utils.SystemClipboard{}, links, id)
	fmt.Println(link)
	if err != nil {
		logrus.Warnf("Box %d: %v", id, err)
		return nil
	}
	if !quiet {
		fmt.Println("Copied to clipboard")
	}
	return nil
}
