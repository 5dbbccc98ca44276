package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
)

// nameCmd represents the name command
var nameCmd = &cobra.Command{
	Use:   "name [nickname]",
	Short: "Show or set the uploader nickname",
	Long: `Show the nickname used as uploader name, or replace it.
A random guest nickname is generated on first use.

Examples:
  hanbatbox name          # Show the current nickname
  hanbatbox name kim      # Upload as "kim" from now on`,
	Args: cobra.MaximumNArgs(1),
	RunE: manageName,
}

func init() {
	rootCmd.AddCommand(nameCmd)
}

func manageName(cmd *cobra.Command, args []string) error {
	user, err := config.LoadUserData()
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(user.Nickname)
		return nil
	}

	if err := user.SetNickname(args[0]); err != nil {
		return fmt.Errorf("failed to set nickname: %w", err)
	}
	fmt.Printf("Nickname set to %s\n", user.Nickname)
	return nil
}
