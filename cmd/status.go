package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/ciout"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Print the last scan's ai_status.md summary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	projectRoot, err := filepath.Abs(path)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	statusPath := filepath.Join(projectRoot, ciout.AIStatusPath)
	data, err := os.ReadFile(statusPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no scan has been run yet; run `warden scan` first")
			return nil
		}
		return exitWithCode(ciout.ExitCodeError, err)
	}

	fmt.Print(string(data))
	return nil
}
