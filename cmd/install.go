package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/ciout"
	"github.com/wardenhq/warden/framepkg"
	"github.com/wardenhq/warden/output"
)

const defaultFramePackageRegistry = "https://registry.wardenhq.dev/frames"

var forceUpdateFlag bool

var installCmd = &cobra.Command{
	Use:   "install [path]",
	Short: "Fetch the frame bundles declared in frame_packages and pin them in warden.lock",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&forceUpdateFlag, "force-update", false, "reinstall every package even if its checksum already matches the lockfile")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	logger := output.NewLogger(output.VerbosityDefault)

	projectRoot, cfg, _, err := loadProjectAndRegistry(path)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	if len(cfg.Project.FramePackages) == 0 {
		logger.Progress("no frame_packages declared in .warden/config.yaml; nothing to install")
		return nil
	}

	specs := make([]framepkg.PackageSpec, 0, len(cfg.Project.FramePackages))
	for _, raw := range cfg.Project.FramePackages {
		spec, err := parsePackageSpec(raw)
		if err != nil {
			return exitWithCode(ciout.ExitCodeError, err)
		}
		specs = append(specs, spec)
	}

	cacheDir := filepath.Join(projectRoot, ".warden", "cache", "frames")
	installDir := filepath.Join(projectRoot, ".warden", "frames")

	inst, err := framepkg.NewInstaller(&framepkg.DownloadConfig{
		BaseURL:       defaultFramePackageRegistry,
		CacheDir:      cacheDir,
		CacheTTL:      24 * time.Hour,
		HTTPTimeout:   30 * time.Second,
		RetryAttempts: 3,
	})
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("build installer: %w", err))
	}

	lock, err := framepkg.LoadLockfile(projectRoot)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("load warden.lock: %w", err))
	}

	results, err := framepkg.InstallAll(context.Background(), inst, lock, specs, installDir, forceUpdateFlag)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("install frame packages: %w", err))
	}

	if err := lock.Save(projectRoot); err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("save warden.lock: %w", err))
	}

	for _, r := range results {
		if r.Installed {
			logger.Progress("installed %s (%s)", r.Spec, r.Checksum)
		} else {
			logger.Progress("%s already up to date (%s)", r.Spec, r.Checksum)
		}
	}

	return nil
}

func parsePackageSpec(raw string) (framepkg.PackageSpec, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return framepkg.PackageSpec{}, fmt.Errorf("invalid frame package %q, expected category/bundle", raw)
	}
	return framepkg.PackageSpec{Category: parts[0], Bundle: parts[1]}, nil
}
