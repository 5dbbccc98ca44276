package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var (
	deletePassword string
	deleteForce    bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <box-id>",
	Short: "Delete a box",
	Long: `Delete a box using its password.

Examples:
  hanbatbox delete 42                   # Ask for confirmation and password
  hanbatbox delete 42 -p secret --force # Delete without confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: deleteBox,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVarP(&deletePassword, "password", "p", "", "box password (prompted when omitted)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "force delete without confirmation")
}

func deleteBox(cmd *cobra.Command, args []string) error {
	id, err := parseBoxID(args[0])
	if err != nil {
		return err
	}

	if !deleteForce && !confirm(fmt.Sprintf("Delete box #%d? This cannot be undone.", id)) {
		fmt.Println("Delete cancelled")
		return nil
	}

	p, notices, err := newPanel(id, utils.NewFileSaver(GetConfig().Download.Dir))
	if err != nil {
		return err
	}
	defer p.Unmount()

	password, err := readPassword(deletePassword, fmt.Sprintf("Password for box #%d: ", id))
	if err != nil {
		return err
	}
	p.SetPassword(password)

	err = p.Delete(cmd.Context())
	printNotices(notices, notice.PanelID(id))
	if err != nil {
		logrus.Debugf("delete box %d: %v", id, err)
		return fmt.Errorf("failed to delete box #%d", id)
	}
	return nil
}
