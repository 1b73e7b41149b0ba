package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// userConfigPath returns the user-level config override path,
// ~/.warden/config.yaml, mirroring the project's own convention of a
// dotfile under the home directory.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".warden", "config.yaml")
}

// Load reads .warden/config.yaml and .warden/rules.yaml from projectRoot,
// merges in the user-level override (if present), and returns the combined
// Config. Missing files are not an error — an absent config.yaml or
// rules.yaml simply yields zero-value defaults.
func Load(projectRoot string) (*Config, error) {
	project, err := loadProject(filepath.Join(projectRoot, ".warden", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	if userPath := userConfigPath(); userPath != "" {
		userProject, err := loadProject(userPath)
		if err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
		project = mergeProject(project, userProject)
	}

	rules, err := loadRules(filepath.Join(projectRoot, ".warden", "rules.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	return &Config{Project: project, Rules: rules}, nil
}

func loadProject(path string) (Project, error) {
	var p Project
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func loadRules(path string) (RulesFile, error) {
	var r RulesFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, err
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// mergeProject overlays a user-level override onto the project config.
// Scalars and maps from the override win when set; the platforms list is
// replaced wholesale only if the override declares any (project config is
// the source of truth for per-project platform topology otherwise).
func mergeProject(base, override Project) Project {
	merged := base

	if len(override.Platforms) > 0 {
		merged.Platforms = override.Platforms
	}
	if len(override.EnabledFrames) > 0 {
		merged.EnabledFrames = override.EnabledFrames
	}
	if len(override.DisabledFrames) > 0 {
		merged.DisabledFrames = override.DisabledFrames
	}
	if len(override.FramePackages) > 0 {
		merged.FramePackages = override.FramePackages
	}
	if override.Parallelism > 0 {
		merged.Parallelism = override.Parallelism
	}
	if override.OutputDir != "" {
		merged.OutputDir = override.OutputDir
	}
	if len(override.Thresholds) > 0 {
		if merged.Thresholds == nil {
			merged.Thresholds = make(map[string]int)
		}
		for k, v := range override.Thresholds {
			merged.Thresholds[k] = v
		}
	}
	if len(override.FrameOverrides) > 0 {
		if merged.FrameOverrides == nil {
			merged.FrameOverrides = make(map[string]FrameOverride)
		}
		for k, v := range override.FrameOverrides {
			merged.FrameOverrides[k] = v
		}
	}

	return merged
}
