// Package config implements the Config & Rule Registry (C3): it loads
// project configuration and custom rules from .warden/config.yaml and
// .warden/rules.yaml, merges in user-level overrides, and validates the
// result before a pipeline is allowed to run.
package config

import "github.com/wardenhq/warden/model"

// Platform is one entry of the top-level `platforms` config key, consumed
// by the contract/spec frame to know which projects are consumers and
// which are providers.
type Platform struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Type string `yaml:"type"`
	Role string `yaml:"role"`
}

// FrameRuleEntry is one value of the `frame_rules` map: the pre/post rule
// hooks and on_fail policy bound to a given frame id.
type FrameRuleEntry struct {
	PreRules  []string `yaml:"pre_rules"`
	PostRules []string `yaml:"post_rules"`
	OnFail    string   `yaml:"on_fail"`
}

// Project is the parsed form of .warden/config.yaml.
type Project struct {
	Platforms      []Platform               `yaml:"platforms"`
	EnabledFrames  []string                 `yaml:"enabled_frames"`
	DisabledFrames []string                 `yaml:"disabled_frames"`
	Thresholds     map[string]int           `yaml:"thresholds"`
	FrameOverrides map[string]FrameOverride `yaml:"frame_overrides"`
	Parallelism    int                      `yaml:"parallelism"`
	OutputDir      string                   `yaml:"output_dir"`

	// FramePackages declares third-party frame bundles `warden install`
	// should fetch, in "category/bundle" form.
	FramePackages []string `yaml:"frame_packages"`
}

// FrameOverride lets config tune a built-in frame's priority/blocker/timeout
// without redeclaring it entirely.
type FrameOverride struct {
	Priority   string `yaml:"priority"`
	IsBlocker  *bool  `yaml:"is_blocker"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RulesFile is the parsed form of .warden/rules.yaml.
type RulesFile struct {
	FrameRules    map[string]FrameRuleEntry `yaml:"frame_rules"`
	Rules         []model.Rule              `yaml:"rules"`
	GlobalRules   []string                  `yaml:"global_rules"`
	Suppressions  []model.SuppressionRule   `yaml:"suppressions"`
}

// Config is the fully loaded, merged configuration a pipeline run is built
// from.
type Config struct {
	Project Project
	Rules   RulesFile
}
