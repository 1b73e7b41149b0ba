package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/analytics"
	"github.com/wardenhq/warden/ciout"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/discovery"
	"github.com/wardenhq/warden/findings"
	"github.com/wardenhq/warden/github"
	"github.com/wardenhq/warden/incremental"
	"github.com/wardenhq/warden/model"
	"github.com/wardenhq/warden/output"
	"github.com/wardenhq/warden/pipeline"
)

var (
	scanFramesFlag  string
	scanDiffFlag    bool
	scanBaseRefFlag string
	scanFormatFlag  string
	scanFailOnFlag  string
	scanNoColorFlag bool
	scanQuietFlag   bool
	scanGitHubRepo  string
	scanGitHubPR    int
	scanPostComment bool
	scanPostInline  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Run every enabled frame over a project and report findings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFramesFlag, "frames", "", "comma-separated frame ids to run (overrides config)")
	scanCmd.Flags().BoolVar(&scanDiffFlag, "diff", false, "scan only files changed since the base ref (incremental mode)")
	scanCmd.Flags().StringVar(&scanBaseRefFlag, "base-ref", "", "git ref to diff against in --diff mode")
	scanCmd.Flags().StringVar(&scanFormatFlag, "format", "text", "additional report format: text|json|sarif|md")
	scanCmd.Flags().StringVar(&scanFailOnFlag, "fail-on", "", "comma-separated severities that cause a blocked exit (default: critical)")
	scanCmd.Flags().BoolVar(&scanNoColorFlag, "no-color", false, "disable colored text output")
	scanCmd.Flags().BoolVar(&scanQuietFlag, "quiet", false, "suppress the human-readable report, emit CI artifacts only")
	scanCmd.Flags().StringVar(&scanGitHubRepo, "github-repo", "", "owner/repo to post PR comments against (requires GITHUB_TOKEN)")
	scanCmd.Flags().IntVar(&scanGitHubPR, "github-pr", 0, "pull request number to comment on")
	scanCmd.Flags().BoolVar(&scanPostComment, "post-pr-comment", false, "post a summary comment on the pull request")
	scanCmd.Flags().BoolVar(&scanPostInline, "post-pr-inline", false, "post inline review comments on the pull request")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	logger := output.NewLogger(output.VerbosityDefault)
	if verboseFlag {
		logger = output.NewLogger(output.VerbosityVerbose)
	}

	if scanFailOnFlag != "" {
		severities := ciout.ParseFailOn(scanFailOnFlag)
		if err := ciout.ValidateSeverities(severities); err != nil {
			return err
		}
	}

	projectRoot, cfg, reg, err := loadProjectAndRegistry(path)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	enabled, disabled := enabledDisabledSets(cfg, scanFramesFlag)
	contractEnabled := contractFrameEnabled(enabled, disabled)

	validation := validateConfig(cfg, reg, contractEnabled)
	for _, issue := range validation.Issues {
		if issue.Severity == config.IssueError {
			logger.Error("%s", issue.Message)
		} else {
			logger.Warning("%s", issue.Message)
		}
	}
	if validation.HasErrors() {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("configuration invalid"))
	}

	discoveryResult, err := discovery.Discover(projectRoot, discovery.DefaultOptions())
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("discover: %w", err))
	}

	files := discoveryResult.Files
	var incResult *incremental.Result
	if scanDiffFlag {
		incResult, err = incremental.Select(incremental.Options{
			ProjectRoot:    projectRoot,
			BaseRef:        scanBaseRefFlag,
			ExpandSiblings: true,
		}, len(discoveryResult.Files))
		if err != nil {
			return exitWithCode(ciout.ExitCodeError, fmt.Errorf("select incremental changeset: %w", err))
		}
		if !incResult.FullScan {
			files = filterDiscoveredFiles(discoveryResult.Files, incResult.ChangeSet.AllPaths())
			logger.Progress("incremental scan: %d/%d files selected (%.1f%% reduction)",
				incResult.SelectedCount, incResult.TotalDiscovered, incResult.ReductionPercent)
		} else {
			logger.Warning("incremental scan fell back to a full scan: %s", incResult.FallbackReason)
		}
	}

	frames := reg.Ordered(enabled, disabled)
	resolved := pipeline.Resolve(frames, cfg)
	batch := toDiscoveredBatch(files)
	pctx := pipelineContext(projectRoot, cfg)

	analytics.ReportEventWithProperties("pipeline_started", map[string]interface{}{
		"frame_count": len(resolved),
		"incremental": scanDiffFlag,
	})

	ctx := context.Background()
	if err := prepareFrames(ctx, resolved, pctx); err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	knownRules := make(map[string]model.Rule, len(cfg.Rules.Rules))
	for _, r := range cfg.Rules.Rules {
		knownRules[r.ID] = r
	}

	orch := pipeline.NewOrchestrator(pipeline.DefaultOptions(), pipeline.RegexRuleEngine{}, knownRules, nil)
	result, err := orch.Run(ctx, "scan", resolved, batch, pctx)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, fmt.Errorf("run pipeline: %w", err))
	}

	findings.Process(result, projectRoot, cfg.Rules.Suppressions)

	hadErrors := false
	for _, fr := range result.FrameResults {
		if fr.Status == model.FrameStatusErrored {
			hadErrors = true
			analytics.ReportEventWithProperties("frame_errored", map[string]interface{}{
				"frame_id": fr.FrameID,
			})
		}
	}

	analytics.ReportEventWithProperties("pipeline_completed", map[string]interface{}{
		"total_findings": result.TotalFindings,
		"had_errors":     hadErrors,
		"status":         string(result.Status),
	})

	if !scanQuietFlag {
		summary := output.BuildSummary(allResultFindings(result), result.TotalFrames)
		summary.Duration = time.Duration(result.DurationMS * int64(time.Millisecond)).String()
		if scanNoColorFlag {
			color.NoColor = true
		}
		opts := output.NewDefaultOptions()
		opts.ProjectRoot = projectRoot
		if verboseFlag {
			opts.Verbosity = output.VerbosityVerbose
		}
		formatter := output.NewTextFormatter(opts, logger)
		if err := formatter.Format(allResultFindings(result), summary); err != nil {
			return err
		}
	}

	threshold := ciout.DefaultBlockerThreshold()
	if scanFailOnFlag != "" {
		threshold = ciout.ThresholdFromFailOn(ciout.ParseFailOn(scanFailOnFlag))
	}

	ciOpts := ciout.Options{
		Platform:         ciout.DetectPlatform(),
		BlockerThreshold: threshold,
		ProjectRoot:      projectRoot,
		Version:          Version,
	}
	ciResult, err := ciout.Emit(os.Stderr, ciOpts, time.Now().UTC().Format(time.RFC3339), result, hadErrors)
	if err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	if err := writeRequestedFormat(scanFormatFlag, result); err != nil {
		return exitWithCode(ciout.ExitCodeError, err)
	}

	if err := postGitHubPRComments(result, discoveryResult); err != nil {
		logger.Warning("post PR comments: %s", err)
	}

	exitWithCode(ciResult.ExitCode, nil)
	return nil
}

// postGitHubPRComments posts a summary and/or inline review comments when
// --post-pr-comment/--post-pr-inline are set; it is a no-op otherwise. A
// posting failure never fails the scan itself — it only downgrades to a
// warning, since the scan's own verdict already stands on its own.
func postGitHubPRComments(result *model.PipelineResult, discoveryResult *model.DiscoveryResult) error {
	opts := github.PRCommentOptions{PRNumber: scanGitHubPR, Comment: scanPostComment, Inline: scanPostInline}
	if !opts.Enabled() {
		return nil
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	owner, repo, err := github.ParseRepo(scanGitHubRepo)
	if err != nil {
		return err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set")
	}

	metrics := github.ScanMetrics{FilesScanned: len(discoveryResult.Files), RulesExecuted: result.TotalFrames}
	return ciout.PostToGitHubPR(token, owner, repo, opts, allResultFindings(result), metrics, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
}

// writeRequestedFormat prints the pipeline result to stdout in --format's
// shape, for callers piping warden scan straight into another tool. "text"
// is a no-op here since the TextFormatter above already wrote it.
func writeRequestedFormat(format string, result *model.PipelineResult) error {
	switch format {
	case "", "text":
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ciout.JSONReport{
			PipelineID: result.PipelineID,
			Status:     result.Status,
			Findings:   allResultFindings(result),
			Summary:    result.FindingsBySeverity,
			Total:      result.TotalFindings,
		})
	case "sarif":
		return ciout.WriteSARIF(os.Stdout, allResultFindings(result), Version)
	case "md":
		// The markdown report is already written under .warden/reports by
		// ciout.Emit; --format md only changes what this prints to stdout.
		return nil
	default:
		return fmt.Errorf("unknown --format %q", format)
	}
}

func filterDiscoveredFiles(files []model.DiscoveredFile, paths []string) []model.DiscoveredFile {
	allow := make(map[string]bool, len(paths))
	for _, p := range paths {
		allow[p] = true
	}
	out := make([]model.DiscoveredFile, 0, len(paths))
	for _, f := range files {
		if allow[f.Path] {
			out = append(out, f)
		}
	}
	return out
}

func allResultFindings(result *model.PipelineResult) []model.Finding {
	var all []model.Finding
	for _, fr := range result.FrameResults {
		all = append(all, fr.Findings...)
	}
	return all
}

// exitCode is the process exit status every subcommand funnels through, so
// main.go can honor §6's 0/1/2 taxonomy regardless of which command ran.
var exitCode int

// exitWithCode records the exit code for main.go to use once cobra returns,
// and turns err into cobra's own error-reporting path when non-nil.
func exitWithCode(code ciout.ExitCode, err error) error {
	exitCode = int(code)
	return err
}

// ExitCode returns the process exit status the last-run command recorded,
// 0 (success) if none did.
func ExitCode() int {
	return exitCode
}
