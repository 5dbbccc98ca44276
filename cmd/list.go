package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var (
	listKeyword     string
	listType        string
	listCursor      int64
	listInteractive bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List boxes",
	Long: `List boxes, newest first, with optional keyword and type filters.
Use --cursor with the last ID of a page to fetch the next one.

Examples:
  hanbatbox list                       # First page
  hanbatbox list --keyword report      # Search titles
  hanbatbox list --cursor 120          # Boxes older than #120
  hanbatbox list --interactive         # Launch interactive browser`,
	Args: cobra.NoArgs,
	RunE: listBoxes,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listKeyword, "keyword", "k", "", "filter by keyword")
	listCmd.Flags().StringVar(&listType, "type", "", "filter by box type")
	listCmd.Flags().Int64Var(&listCursor, "cursor", 0, "list boxes after this id")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "launch interactive browser")
}

func listBoxes(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Determine if we should use interactive mode (CLI flag > config); piped output stays plain
	useInteractive := cfg.UI.InteractiveMode && utils.IsTerminal()
	if cmd.Flags().Changed("interactive") {
		useInteractive = listInteractive
	}
	logrus.Debugf("Interactive mode: flag=%t, config=%t, using=%t",
		listInteractive, cfg.UI.InteractiveMode, useInteractive)

	if useInteractive {
		return runInteractive()
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	boxes, err := client.List(cmd.Context(), box.Query{
		Cursor:  listCursor,
		Keyword: listKeyword,
		Type:    listType,
	})
	if err != nil {
		return fmt.Errorf("failed to list boxes: %w", err)
	}

	return outputTable(boxes)
}

func outputTable(boxes []box.Summary) error {
	if len(boxes) == 0 {
		fmt.Println("No boxes found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPLOADER\tTYPE\tFILES\tCREATED")

	for _, s := range boxes {
		files := "-"
		if s.FileCount > 0 {
			files = strconv.Itoa(s.FileCount)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Uploader, s.Type, files, utils.FormatCreated(s.CreatedAt))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nNext page: --cursor %d\n", boxes[len(boxes)-1].ID)
	return nil
}
