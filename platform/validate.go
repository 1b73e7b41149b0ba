package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wardenhq/warden/model"
)

const maxProjectFilesWarning = 10000

var validRoles = map[model.ProjectRole]bool{
	model.RoleConsumer: true,
	model.RoleProvider: true,
	model.RoleBoth:     true,
}

// ValidationResult carries hard errors (which block persistence) separately
// from warnings (which don't).
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no hard errors were found.
func (v ValidationResult) OK() bool { return len(v.Errors) == 0 }

// Validate applies §4.8's validation rules to a detected project set before
// it is allowed to be persisted. contractFrameEnabled toggles the
// at-least-one-consumer-and-one-provider rule, which only applies when the
// contract/spec frame is part of the active pipeline.
func Validate(projects []model.DetectedProject, root string, contractFrameEnabled bool) ValidationResult {
	var result ValidationResult

	hasConsumer, hasProvider := false, false

	for i, p := range projects {
		label := fmt.Sprintf("project[%d]", i)
		if p.Name != "" {
			label = p.Name
		}

		if p.Name == "" {
			result.Errors = append(result.Errors, label+": name is required")
		}
		if p.Path == "" {
			result.Errors = append(result.Errors, label+": path is required")
		}
		if p.Platform == "" {
			result.Errors = append(result.Errors, label+": platform_type is required")
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			result.Errors = append(result.Errors, label+": confidence must be within [0,1]")
		}
		if !validRoles[p.Role] {
			result.Errors = append(result.Errors, label+fmt.Sprintf(": role %q is not one of consumer, provider, both", p.Role))
		}

		if p.Path != "" {
			full := p.Path
			if root != "" && !filepath.IsAbs(full) {
				full = filepath.Join(root, p.Path)
			}
			info, err := os.Stat(full)
			if err != nil {
				result.Errors = append(result.Errors, label+": path does not exist: "+full)
			} else if !info.IsDir() {
				result.Errors = append(result.Errors, label+": path is not a directory: "+full)
			} else if count, err := CountFiles(full); err == nil && count > maxProjectFilesWarning {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %d files exceeds %d, scanning may be slow", label, count, maxProjectFilesWarning))
			}
		}

		switch p.Role {
		case model.RoleConsumer, model.RoleBoth:
			hasConsumer = true
		}
		switch p.Role {
		case model.RoleProvider, model.RoleBoth:
			hasProvider = true
		}
	}

	if contractFrameEnabled {
		if !hasConsumer {
			result.Errors = append(result.Errors, "contract/spec frame is enabled but no consumer project was detected")
		}
		if !hasProvider {
			result.Errors = append(result.Errors, "contract/spec frame is enabled but no provider project was detected")
		}
	}

	return result
}
