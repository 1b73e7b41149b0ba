package model

// Rule is a custom validation rule loaded from .warden/rules.yaml.
type Rule struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Severity    Severity `yaml:"severity" json:"severity"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Enabled     bool     `yaml:"enabled" json:"enabled"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// SuppressionRule matches findings by suppression key and optional file globs.
type SuppressionRule struct {
	Rule   string   `yaml:"rule" json:"rule"`
	Files  []string `yaml:"files,omitempty" json:"files,omitempty"`
	Reason string   `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// FrameRuleBinding is one entry of .warden/rules.yaml's frame_rules map.
type FrameRuleBinding struct {
	PreRules  []string     `yaml:"pre_rules,omitempty" json:"pre_rules,omitempty"`
	PostRules []string     `yaml:"post_rules,omitempty" json:"post_rules,omitempty"`
	OnFail    OnFailPolicy `yaml:"on_fail,omitempty" json:"on_fail,omitempty"`
}
