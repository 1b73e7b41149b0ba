package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var framesCmd = &cobra.Command{
	Use:   "frames [path]",
	Short: "List every registered frame and its effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFrames,
}

func init() {
	rootCmd.AddCommand(framesCmd)
}

func runFrames(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	_, cfg, reg, err := loadProjectAndRegistry(path)
	if err != nil {
		return err
	}

	enabled, disabled := enabledDisabledSets(cfg, "")
	ordered := reg.Ordered(enabled, disabled)

	fmt.Printf("%-16s %-10s %-10s %-9s %-8s %s\n", "ID", "PRIORITY", "PHASE", "BLOCKER", "PARALLEL", "TAGS")
	for _, f := range ordered {
		m := f.Metadata()
		fmt.Printf("%-16s %-10s %-10s %-9t %-8t %v\n", m.ID, m.Priority, m.Phase, m.IsBlocker, m.ParallelSafe, m.Tags)
	}

	return nil
}
