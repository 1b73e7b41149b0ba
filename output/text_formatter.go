package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/wardenhq/warden/model"
)

// TextFormatter formats findings as human-readable text.
type TextFormatter struct {
	writer  io.Writer
	options *OutputOptions
	logger  *Logger
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(opts *OutputOptions, logger *Logger) *TextFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &TextFormatter{
		writer:  os.Stdout,
		options: opts,
		logger:  logger,
	}
}

// NewTextFormatterWithWriter creates a formatter with custom writer (for testing).
func NewTextFormatterWithWriter(w io.Writer, opts *OutputOptions, logger *Logger) *TextFormatter {
	tf := NewTextFormatter(opts, logger)
	tf.writer = w
	return tf
}

// Format outputs all findings as formatted text.
func (f *TextFormatter) Format(findings []model.Finding, summary *Summary) error {
	if len(findings) == 0 {
		f.writeNoFindings()
		return nil
	}

	f.writeHeader()
	f.writeResults(findings)
	f.writeSummary(summary)

	if f.options.ShouldShowStatistics() {
		f.writeStatistics(summary)
	}

	return nil
}

func (f *TextFormatter) writeHeader() {
	fmt.Fprintln(f.writer, "Warden Scan")
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeNoFindings() {
	fmt.Fprintln(f.writer, "Warden Scan")
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "No issues found.")
}

func (f *TextFormatter) writeResults(findings []model.Finding) {
	fmt.Fprintln(f.writer, "Results:")
	fmt.Fprintln(f.writer)

	grouped := f.groupBySeverity(findings)

	severityOrder := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
		model.SeverityInfo,
	}
	for _, sev := range severityOrder {
		if fs, ok := grouped[sev]; ok && len(fs) > 0 {
			f.writeSeverityGroup(sev, fs)
		}
	}
}

func (f *TextFormatter) groupBySeverity(findings []model.Finding) map[model.Severity][]model.Finding {
	grouped := make(map[model.Severity][]model.Finding)
	for _, finding := range findings {
		grouped[finding.Severity] = append(grouped[finding.Severity], finding)
	}
	return grouped
}

func (f *TextFormatter) writeSeverityGroup(severity model.Severity, findings []model.Finding) {
	title := fmt.Sprintf("%s Issues (%d):", strings.Title(string(severity)), len(findings))
	fmt.Fprintln(f.writer, colorForSeverity(severity)(title))
	fmt.Fprintln(f.writer)

	showDetailed := severity.IsBlocker() || severity == model.SeverityHigh

	for _, finding := range findings {
		if showDetailed {
			f.writeDetailedFinding(finding)
		} else {
			f.writeAbbreviatedFinding(finding)
		}
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeDetailedFinding(finding model.Finding) {
	fmt.Fprintf(f.writer, "  [%s] %s/%s: %s\n",
		finding.Severity,
		finding.FrameID,
		finding.RuleID,
		finding.Message)

	if len(finding.Tags) > 0 {
		fmt.Fprintf(f.writer, "    %s\n", strings.Join(finding.Tags, " | "))
	}
	fmt.Fprintln(f.writer)

	fmt.Fprintf(f.writer, "    %s\n", f.formatLocation(finding))

	if finding.CodeSnippet != "" {
		f.writeCodeSnippet(finding)
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeAbbreviatedFinding(finding model.Finding) {
	fmt.Fprintf(f.writer, "  [%s] %s/%s: %s\n",
		finding.Severity,
		finding.FrameID,
		finding.RuleID,
		f.formatLocation(finding))
}

func (f *TextFormatter) formatLocation(finding model.Finding) string {
	path := finding.FilePath
	if finding.Line != nil {
		return fmt.Sprintf("%s:%d", path, *finding.Line)
	}
	return path
}

func (f *TextFormatter) writeCodeSnippet(finding model.Finding) {
	startLine := 1
	if finding.Line != nil {
		startLine = *finding.Line
	}
	lines := strings.Split(finding.CodeSnippet, "\n")
	lineWidth := len(fmt.Sprintf("%d", startLine+len(lines)))
	for i, content := range lines {
		marker := " "
		lineNum := startLine + i
		if finding.Line != nil && lineNum == *finding.Line {
			marker = ">"
		}
		fmt.Fprintf(f.writer, "      %s %*d | %s\n", marker, lineWidth, lineNum, content)
	}
}

func (f *TextFormatter) writeSummary(summary *Summary) {
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  %d findings across %d frames\n",
		summary.TotalFindings, summary.RulesExecuted)

	var parts []string
	for _, sev := range []string{"critical", "high", "medium", "low"} {
		if count, ok := summary.BySeverity[sev]; ok && count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, sev))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(f.writer, "  %s\n", strings.Join(parts, " | "))
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeStatistics(summary *Summary) {
	fmt.Fprintln(f.writer, "Frames:")
	for frameID, count := range summary.ByDetectionType {
		fmt.Fprintf(f.writer, "  %s: %d findings\n", frameID, count)
	}
	fmt.Fprintln(f.writer)
}

func colorForSeverity(sev model.Severity) func(format string, a ...interface{}) string {
	switch sev {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold).SprintfFunc()
	case model.SeverityHigh:
		return color.New(color.FgRed).SprintfFunc()
	case model.SeverityMedium:
		return color.New(color.FgYellow).SprintfFunc()
	case model.SeverityLow:
		return color.New(color.FgBlue).SprintfFunc()
	default:
		return color.New(color.FgWhite).SprintfFunc()
	}
}

// Summary holds aggregated statistics for a scan.
type Summary struct {
	TotalFindings   int
	RulesExecuted   int
	BySeverity      map[string]int
	ByDetectionType map[string]int
	FilesScanned    int
	Duration        string
}

// BuildSummary creates a summary from findings.
func BuildSummary(findings []model.Finding, framesExecuted int) *Summary {
	summary := &Summary{
		TotalFindings:   len(findings),
		RulesExecuted:   framesExecuted,
		BySeverity:      make(map[string]int),
		ByDetectionType: make(map[string]int),
	}

	for _, finding := range findings {
		summary.BySeverity[string(finding.Severity)]++
		summary.ByDetectionType[finding.FrameID]++
	}

	return summary
}
