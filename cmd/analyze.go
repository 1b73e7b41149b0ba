package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/ciout"
	"github.com/wardenhq/warden/discovery"
	"github.com/wardenhq/warden/findings"
	"github.com/wardenhq/warden/model"
	"github.com/wardenhq/warden/output"
	"github.com/wardenhq/warden/pipeline"
)

var analyzeFramesFlag string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the pipeline over a single file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFramesFlag, "frames", "", "comma-separated frame ids to run (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target, err := filepath.Abs(args[0])
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("stat %s: %w", target, err))
	}
	if info.IsDir() {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("%s is a directory, use `warden scan` instead", target))
	}

	projectRoot := filepath.Dir(target)
	_, cfg, reg, err := loadProjectAndRegistry(projectRoot)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	rel, err := filepath.Rel(projectRoot, target)
	if err != nil {
		rel = filepath.Base(target)
	}
	df := discovery.Classify(filepath.ToSlash(rel), info.Size())

	enabled, disabled := enabledDisabledSets(cfg, analyzeFramesFlag)
	frames := reg.Ordered(enabled, disabled)
	resolved := pipeline.Resolve(frames, cfg)
	batch := toDiscoveredBatch([]model.DiscoveredFile{df})
	pctx := pipelineContext(projectRoot, cfg)

	ctx := context.Background()
	if err := prepareFrames(ctx, resolved, pctx); err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	knownRules := make(map[string]model.Rule, len(cfg.Rules.Rules))
	for _, r := range cfg.Rules.Rules {
		knownRules[r.ID] = r
	}

	orch := pipeline.NewOrchestrator(pipeline.DefaultOptions(), pipeline.RegexRuleEngine{}, knownRules, nil)
	result, err := orch.Run(ctx, "analyze", resolved, batch, pctx)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("run pipeline: %w", err))
	}

	findings.Process(result, projectRoot, cfg.Rules.Suppressions)

	all := allResultFindings(result)
	summary := output.BuildSummary(all, result.TotalFrames)
	summary.Duration = time.Duration(result.DurationMS * int64(time.Millisecond)).String()

	logger := output.NewLogger(output.VerbosityDefault)
	formatter := output.NewTextFormatter(output.NewDefaultOptions(), logger)
	if err := formatter.Format(all, summary); err != nil {
		return err
	}

	threshold := ciout.DefaultBlockerThreshold()
	exitWithCode(ciout.DetermineExitCode(all, threshold, false), nil)
	return nil
}
