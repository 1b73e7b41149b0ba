package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/ciout"
	"github.com/wardenhq/warden/platform"
)

var detectWriteFlag bool

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Detect platform projects (consumer/provider) and optionally persist them to config",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectWriteFlag, "write", false, "persist the detected platforms into .warden/config.yaml")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	projectRoot, err := filepath.Abs(path)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	if count, err := platform.CountFiles(projectRoot); err == nil && count > 10000 {
		fmt.Printf("warning: %d files under %s; platform detection may be slow\n", count, projectRoot)
	}

	projects, err := platform.Detect(projectRoot, platform.DefaultOptions())
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("detect platforms: %w", err))
	}

	if len(projects) == 0 {
		fmt.Println("no platform projects detected")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("%-8s %-14s %-10s confidence=%.2f  %s\n", p.Role, p.Platform, p.Path, p.Confidence, p.Name)
	}

	validation := platform.Validate(projects, projectRoot, true)
	for _, w := range validation.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range validation.Errors {
		fmt.Printf("error: %s\n", e)
	}

	if detectWriteFlag {
		if err := platform.Persist(projectRoot, projects); err != nil {
			return exitWithCode(ciout.ExitCodeError, fmt.Errorf("persist platforms: %w", err))
		}
		fmt.Printf("wrote %d platforms to %s\n", len(projects), filepath.Join(projectRoot, platform.ConfigPath))
	}

	return nil
}
