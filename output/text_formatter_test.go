package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wardenhq/warden/model"
)

func mkTFFinding(frameID, ruleID, path string, line int, msg string, sev model.Severity, tags ...string) model.Finding {
	l := line
	return model.Finding{
		FrameID:  frameID,
		RuleID:   ruleID,
		FilePath: path,
		Line:     &l,
		Message:  msg,
		Severity: sev,
		Tags:     tags,
	}
}

func TestNewTextFormatter(t *testing.T) {
	tf := NewTextFormatter(nil, nil)
	if tf == nil {
		t.Fatal("expected non-nil formatter")
	}
	if tf.options == nil {
		t.Error("expected default options")
	}
}

func TestTextFormatterNoFindings(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	err := tf.Format(nil, &Summary{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No issues found") {
		t.Errorf("expected 'No issues found', got: %s", output)
	}
}

func TestTextFormatterWithFindings(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []model.Finding{
		mkTFFinding("security", "command-injection", "auth/login.py", 10, "Command Injection", model.SeverityCritical, "CWE-78"),
	}
	summary := BuildSummary(findings, 1)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Critical Issues", "security/command-injection", "auth/login.py:10", "CWE-78"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestTextFormatterGroupsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []model.Finding{
		mkTFFinding("security", "R1", "a.py", 1, "crit", model.SeverityCritical),
		mkTFFinding("security", "R2", "b.py", 2, "high", model.SeverityHigh),
		mkTFFinding("security", "R3", "c.py", 3, "med", model.SeverityMedium),
		mkTFFinding("security", "R4", "d.py", 4, "low", model.SeverityLow),
	}
	summary := BuildSummary(findings, 1)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	critIdx := strings.Index(output, "Critical Issues")
	highIdx := strings.Index(output, "High Issues")
	medIdx := strings.Index(output, "Medium Issues")
	lowIdx := strings.Index(output, "Low Issues")

	if !(critIdx < highIdx && highIdx < medIdx && medIdx < lowIdx) {
		t.Errorf("expected severity groups in critical/high/medium/low order, got: %s", output)
	}
}

func TestTextFormatterAbbreviatedForMediumAndBelow(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []model.Finding{
		mkTFFinding("orphan", "R1", "x.py", 5, "Unreferenced export", model.SeverityMedium),
	}
	summary := BuildSummary(findings, 1)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	// Medium findings get a single abbreviated line, not a detailed block with location on its own line.
	if strings.Count(output, "x.py:5") != 1 {
		t.Errorf("expected exactly one location line for abbreviated finding, got: %s", output)
	}
}

func TestTextFormatterWithCodeSnippet(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	f := mkTFFinding("security", "R1", "app.py", 10, "Command Injection", model.SeverityCritical)
	f.CodeSnippet = "subprocess.call(cmd)"
	findings := []model.Finding{f}
	summary := BuildSummary(findings, 1)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "subprocess.call(cmd)") {
		t.Errorf("expected code snippet in output, got: %s", output)
	}
}

func TestTextFormatterSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []model.Finding{
		mkTFFinding("security", "R1", "a.py", 1, "crit", model.SeverityCritical),
		mkTFFinding("security", "R2", "b.py", 2, "high", model.SeverityHigh),
	}
	summary := BuildSummary(findings, 2)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "2 findings across 2 frames") {
		t.Errorf("expected findings/frames summary line, got: %s", output)
	}
	if !strings.Contains(output, "1 critical") || !strings.Contains(output, "1 high") {
		t.Errorf("expected severity breakdown, got: %s", output)
	}
}

func TestTextFormatterStatisticsWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	opts := NewDefaultOptions()
	opts.Verbosity = VerbosityVerbose
	tf := NewTextFormatterWithWriter(&buf, opts, nil)

	findings := []model.Finding{
		mkTFFinding("security", "R1", "a.py", 1, "crit", model.SeverityCritical),
	}
	summary := BuildSummary(findings, 1)

	err := tf.Format(findings, summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Frames:") {
		t.Errorf("expected frame statistics section in verbose mode, got: %s", output)
	}
	if !strings.Contains(output, "security: 1 findings") {
		t.Errorf("expected per-frame count, got: %s", output)
	}
}

func TestBuildSummary(t *testing.T) {
	findings := []model.Finding{
		mkTFFinding("security", "R1", "a.py", 1, "crit", model.SeverityCritical),
		mkTFFinding("security", "R2", "b.py", 2, "crit2", model.SeverityCritical),
		mkTFFinding("orphan", "R3", "c.py", 3, "low", model.SeverityLow),
	}

	summary := BuildSummary(findings, 5)

	if summary.TotalFindings != 3 {
		t.Errorf("expected 3 total findings, got %d", summary.TotalFindings)
	}
	if summary.RulesExecuted != 5 {
		t.Errorf("expected 5 rules executed, got %d", summary.RulesExecuted)
	}
	if summary.BySeverity["critical"] != 2 {
		t.Errorf("expected 2 critical findings, got %d", summary.BySeverity["critical"])
	}
	if summary.ByDetectionType["security"] != 2 {
		t.Errorf("expected 2 security frame findings, got %d", summary.ByDetectionType["security"])
	}
	if summary.ByDetectionType["orphan"] != 1 {
		t.Errorf("expected 1 orphan frame finding, got %d", summary.ByDetectionType["orphan"])
	}
}
