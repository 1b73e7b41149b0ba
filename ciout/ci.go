package ciout

import (
	"fmt"
	"io"

	"github.com/wardenhq/warden/model"
)

// Options configures CI-facing output for a single scan.
type Options struct {
	Platform         Platform
	BlockerThreshold BlockerThreshold
	ProjectRoot      string
	Version          string
}

// Result is the verdict of running CI output for one pipeline result.
type Result struct {
	ExitCode    ExitCode
	JSONPath    string
	MarkdownPath string
}

// Emit writes CI annotations to w, persists JSON/Markdown reports and
// ai_status.md to disk, and computes the process exit code. It is the single
// entry point `warden scan` calls after the pipeline finishes.
func Emit(w io.Writer, opts Options, timestamp string, result *model.PipelineResult, hadErrors bool) (Result, error) {
	findings := allFindings(result)

	if err := WriteAnnotations(w, opts.Platform, findings); err != nil {
		return Result{}, fmt.Errorf("write CI annotations: %w", err)
	}

	jsonPath, err := WriteJSONReport(opts.ProjectRoot, timestamp, result)
	if err != nil {
		return Result{}, err
	}
	mdPath, err := WriteMarkdownReport(opts.ProjectRoot, timestamp, result)
	if err != nil {
		return Result{}, err
	}

	exitCode := DetermineExitCode(findings, opts.BlockerThreshold, hadErrors)

	if err := WriteAIStatus(opts.ProjectRoot, result, exitCode == ExitCodeBlocked); err != nil {
		return Result{}, fmt.Errorf("write ai_status.md: %w", err)
	}

	return Result{ExitCode: exitCode, JSONPath: jsonPath, MarkdownPath: mdPath}, nil
}
