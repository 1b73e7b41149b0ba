package ciout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardenhq/warden/model"
)

// ReportsDir is the directory scan reports and ai_status.md are written
// under, relative to the project root.
const ReportsDir = ".warden/reports"

// AIStatusPath is the well-known status file `warden status` reads.
const AIStatusPath = ".warden/ai_status.md"

// JSONReport is the full structured result written to scan-{timestamp}.json.
type JSONReport struct {
	PipelineID string              `json:"pipeline_id"`
	Status     model.PipelineStatus `json:"status"`
	Findings   []model.Finding     `json:"findings"`
	Summary    model.SeverityCounts `json:"summary"`
	Total      int                 `json:"total"`
}

// WriteJSONReport writes the full structured result to disk.
func WriteJSONReport(projectRoot, timestamp string, result *model.PipelineResult) (string, error) {
	report := JSONReport{
		PipelineID: result.PipelineID,
		Status:     result.Status,
		Findings:   allFindings(result),
		Summary:    result.FindingsBySeverity,
		Total:      result.TotalFindings,
	}

	path := filepath.Join(projectRoot, ReportsDir, fmt.Sprintf("scan-%s.json", timestamp))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}
	return path, nil
}

// WriteMarkdownReport writes a human-readable summary: totals, top offending
// files, severity breakdown.
func WriteMarkdownReport(projectRoot, timestamp string, result *model.PipelineResult) (string, error) {
	path := filepath.Join(projectRoot, ReportsDir, fmt.Sprintf("scan-%s.md", timestamp))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Warden Scan Report\n\n")
	fmt.Fprintf(&sb, "Status: **%s**\n\n", result.Status)
	fmt.Fprintf(&sb, "| Severity | Count |\n|:---------|------:|\n")
	fmt.Fprintf(&sb, "| Critical | %d |\n", result.FindingsBySeverity.Critical)
	fmt.Fprintf(&sb, "| High | %d |\n", result.FindingsBySeverity.High)
	fmt.Fprintf(&sb, "| Medium | %d |\n", result.FindingsBySeverity.Medium)
	fmt.Fprintf(&sb, "| Low | %d |\n", result.FindingsBySeverity.Low)
	fmt.Fprintf(&sb, "\nTotal findings: %d across %d frames.\n\n", result.TotalFindings, result.TotalFrames)

	top := topOffendingFiles(allFindings(result), 10)
	if len(top) > 0 {
		fmt.Fprintf(&sb, "## Top offending files\n\n")
		fmt.Fprintf(&sb, "| File | Findings |\n|:-----|---------:|\n")
		for _, e := range top {
			fmt.Fprintf(&sb, "| `%s` | %d |\n", e.file, e.count)
		}
		fmt.Fprintf(&sb, "\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	return path, nil
}

// WriteAIStatus writes .warden/ai_status.md: PASS|FAIL|PENDING plus a
// one-line summary of the last run.
func WriteAIStatus(projectRoot string, result *model.PipelineResult, blocked bool) error {
	path := filepath.Join(projectRoot, AIStatusPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}

	status := "PASS"
	switch {
	case result.Status == model.PipelineRunning || result.Status == model.PipelineCancelling:
		status = "PENDING"
	case blocked || result.Status == model.PipelineFailed || result.Status == model.PipelineErrored:
		status = "FAIL"
	}

	content := fmt.Sprintf("%s\n\n%d findings (%d critical, %d high, %d medium, %d low) across %d frames.\n",
		status,
		result.TotalFindings,
		result.FindingsBySeverity.Critical,
		result.FindingsBySeverity.High,
		result.FindingsBySeverity.Medium,
		result.FindingsBySeverity.Low,
		result.TotalFrames,
	)

	return os.WriteFile(path, []byte(content), 0o644)
}

func allFindings(result *model.PipelineResult) []model.Finding {
	var all []model.Finding
	for _, fr := range result.FrameResults {
		all = append(all, fr.Findings...)
	}
	return all
}

type fileCount struct {
	file  string
	count int
}

func topOffendingFiles(findings []model.Finding, limit int) []fileCount {
	counts := make(map[string]int)
	for _, f := range findings {
		if f.FilePath == "" {
			continue
		}
		counts[f.FilePath]++
	}

	entries := make([]fileCount, 0, len(counts))
	for file, count := range counts {
		entries = append(entries, fileCount{file: file, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].file < entries[j].file
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
