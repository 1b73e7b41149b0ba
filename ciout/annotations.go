package ciout

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wardenhq/warden/model"
)

// annotationLevel maps a finding's severity to the level vocabulary each
// CI platform expects.
func annotationLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "notice"
	}
}

// encodeAnnotationMessage replaces newlines with the %0A escape GitHub's
// workflow command parser requires.
func encodeAnnotationMessage(msg string) string {
	return strings.ReplaceAll(msg, "\n", "%0A")
}

// WriteGitHubAnnotations emits one `::level file=...,line=...::message` line
// per finding, GitHub Actions' workflow command syntax.
func WriteGitHubAnnotations(w io.Writer, findings []model.Finding) {
	for _, f := range findings {
		level := annotationLevel(f.Severity)
		title := f.FrameID
		if f.RuleID != "" {
			title = fmt.Sprintf("%s/%s", f.FrameID, f.RuleID)
		}

		var loc strings.Builder
		fmt.Fprintf(&loc, "file=%s", f.FilePath)
		if f.Line != nil {
			fmt.Fprintf(&loc, ",line=%d", *f.Line)
		}
		if f.Column != nil {
			fmt.Fprintf(&loc, ",col=%d", *f.Column)
		}
		fmt.Fprintf(&loc, ",title=%s", title)

		fmt.Fprintf(w, "::%s %s::%s\n", level, loc.String(), encodeAnnotationMessage(f.Message))
	}
}

// gitlabCodeClimateEntry matches GitLab's Code Climate-compatible ingestion
// format for code quality/SAST reports.
type gitlabLogEntry struct {
	Severity    string `json:"severity"`
	FrameID     string `json:"frame_id"`
	RuleID      string `json:"rule_id,omitempty"`
	Message     string `json:"message"`
	File        string `json:"file"`
	Line        int    `json:"line,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

type gitlabSummary struct {
	Total    int            `json:"total"`
	Severity map[string]int `json:"by_severity"`
}

// WriteGitLabLog emits one structured JSON log line per finding followed by
// a summary record, per §4.7.
func WriteGitLabLog(w io.Writer, findings []model.Finding) error {
	enc := json.NewEncoder(w)
	summary := gitlabSummary{Severity: make(map[string]int)}

	for _, f := range findings {
		line := 0
		if f.Line != nil {
			line = *f.Line
		}
		entry := gitlabLogEntry{
			Severity:    string(f.Severity),
			FrameID:     f.FrameID,
			RuleID:      f.RuleID,
			Message:     f.Message,
			File:        f.FilePath,
			Line:        line,
			Fingerprint: f.Fingerprint,
		}
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("encode gitlab log entry: %w", err)
		}
		summary.Total++
		summary.Severity[string(f.Severity)]++
	}

	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode gitlab summary: %w", err)
	}
	return nil
}

// WriteAzureAnnotations emits `##vso[task.logissue]` commands per finding and
// a `##vso[task.setvariable]` command carrying the total issue count.
func WriteAzureAnnotations(w io.Writer, findings []model.Finding) {
	for _, f := range findings {
		azType := "warning"
		if f.Severity.IsBlocker() || f.Severity == model.SeverityHigh {
			azType = "error"
		}
		fmt.Fprintf(w, "##vso[task.logissue type=%s]%s\n", azType, f.Message)
	}
	fmt.Fprintf(w, "##vso[task.setvariable variable=WardenIssueCount]%d\n", len(findings))
}

// WriteAnnotations dispatches to the platform-specific annotation writer.
// Unknown platforms are a silent no-op: annotations are a CI-only courtesy.
func WriteAnnotations(w io.Writer, platform Platform, findings []model.Finding) error {
	switch platform {
	case PlatformGitHub:
		WriteGitHubAnnotations(w, findings)
	case PlatformGitLab:
		return WriteGitLabLog(w, findings)
	case PlatformAzure:
		WriteAzureAnnotations(w, findings)
	}
	return nil
}
