package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden/builtinframes"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
	"github.com/wardenhq/warden/pipeline"
)

// buildRegistry registers every built-in frame. Installed frames (under
// .warden/frames/) are folded in separately by the caller once install
// manifests are available, per §4.4's two-phase registry note.
func buildRegistry() (*frame.Registry, error) {
	reg := frame.NewRegistry()
	if err := builtinframes.RegisterAll(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// enabledDisabledSets turns config + an optional CLI --frames override into
// the two id sets frame.Registry.Ordered consumes.
func enabledDisabledSets(cfg *config.Config, framesFlag string) (map[string]bool, map[string]bool) {
	disabled := make(map[string]bool, len(cfg.Project.DisabledFrames))
	for _, id := range cfg.Project.DisabledFrames {
		disabled[id] = true
	}

	var enabled map[string]bool
	if framesFlag != "" {
		enabled = make(map[string]bool)
		for _, id := range strings.Split(framesFlag, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				enabled[id] = true
			}
		}
	} else if len(cfg.Project.EnabledFrames) > 0 {
		enabled = make(map[string]bool, len(cfg.Project.EnabledFrames))
		for _, id := range cfg.Project.EnabledFrames {
			enabled[id] = true
		}
	}

	return enabled, disabled
}

// prepareFrames calls Prepare on every resolved frame before execution,
// satisfying the Frame interface's one-time setup contract.
func prepareFrames(ctx context.Context, resolved []pipeline.ResolvedFrame, pctx frame.Context) error {
	for _, rf := range resolved {
		if err := rf.Frame.Prepare(ctx, pctx); err != nil {
			return fmt.Errorf("prepare frame %s: %w", rf.Config.ID, err)
		}
	}
	return nil
}

// loadProjectAndRegistry is the common setup every pipeline-driving command
// shares: resolve the project root, load config, and build the frame
// registry.
func loadProjectAndRegistry(pathArg string) (projectRoot string, cfg *config.Config, reg *frame.Registry, err error) {
	projectRoot, err = filepath.Abs(pathArg)
	if err != nil {
		return "", nil, nil, err
	}

	cfg, err = config.Load(projectRoot)
	if err != nil {
		return "", nil, nil, fmt.Errorf("load config: %w", err)
	}

	reg, err = buildRegistry()
	if err != nil {
		return "", nil, nil, err
	}

	return projectRoot, cfg, reg, nil
}

// validateConfig runs the config validator and returns an error only when
// it reports a hard error — warnings are logged by the caller.
func validateConfig(cfg *config.Config, reg *frame.Registry, contractEnabled bool) *config.ValidationResult {
	ids := make(map[string]bool, reg.Len())
	// frame.Registry has no public enumerate-all; Ordered with nil filters
	// returns every registered frame.
	for _, f := range reg.Ordered(nil, nil) {
		ids[f.Metadata().ID] = true
	}
	return config.Validate(cfg, ids, contractEnabled)
}

// pipelineContext builds the frame.Context every frame in a run shares.
func pipelineContext(projectRoot string, cfg *config.Config) frame.Context {
	return frame.Context{
		ProjectRoot: projectRoot,
		Metadata: map[string]interface{}{
			"platforms": cfg.Project.Platforms,
		},
	}
}

// contractFrameEnabled reports whether the contract/spec frame is part of
// the active run (used both for config validation and for the frame set).
func contractFrameEnabled(enabled, disabled map[string]bool) bool {
	if disabled["contract"] {
		return false
	}
	if enabled != nil && len(enabled) > 0 {
		return enabled["contract"]
	}
	return true
}

func toDiscoveredBatch(files []model.DiscoveredFile) frame.Batch {
	return frame.Batch{Files: files}
}
