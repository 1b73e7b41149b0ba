package ciout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wardenhq/warden/model"
)

func sampleResult() *model.PipelineResult {
	line := 5
	result := model.NewPipelineResult("pipe-1", "default")
	result.Status = model.PipelineFailed
	result.TotalFrames = 2
	result.TotalFindings = 1
	result.FindingsBySeverity = model.SeverityCounts{Critical: 1}
	result.FrameResults = []model.FrameResult{
		{
			FrameID: "security",
			Status:  model.FrameStatusFailed,
			Findings: []model.Finding{
				{FrameID: "security", RuleID: "secret", FilePath: "app.py", Line: &line, Message: "Hardcoded secret detected", Severity: model.SeverityCritical},
			},
		},
	}
	return result
}

func TestWriteJSONReport(t *testing.T) {
	root := t.TempDir()
	path, err := WriteJSONReport(root, "20260101-000000", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "scan-20260101-000000.json" {
		t.Errorf("unexpected filename: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "Hardcoded secret detected") {
		t.Errorf("expected finding message in report, got: %s", data)
	}
}

func TestWriteMarkdownReport(t *testing.T) {
	root := t.TempDir()
	path, err := WriteMarkdownReport(root, "20260101-000000", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# Warden Scan Report") {
		t.Errorf("expected markdown header, got: %s", content)
	}
	if !strings.Contains(content, "Top offending files") {
		t.Errorf("expected top offending files section, got: %s", content)
	}
	if !strings.Contains(content, "app.py") {
		t.Errorf("expected offending file listed, got: %s", content)
	}
}

func TestWriteAIStatus_Pass(t *testing.T) {
	root := t.TempDir()
	result := sampleResult()
	result.Status = model.PipelineSuccess
	result.FindingsBySeverity = model.SeverityCounts{}
	result.TotalFindings = 0

	err := WriteAIStatus(root, result, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, AIStatusPath))
	if err != nil {
		t.Fatalf("failed to read ai_status.md: %v", err)
	}
	if !strings.HasPrefix(string(data), "PASS") {
		t.Errorf("expected PASS status, got: %s", data)
	}
}

func TestWriteAIStatus_Fail(t *testing.T) {
	root := t.TempDir()
	err := WriteAIStatus(root, sampleResult(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, AIStatusPath))
	if err != nil {
		t.Fatalf("failed to read ai_status.md: %v", err)
	}
	if !strings.HasPrefix(string(data), "FAIL") {
		t.Errorf("expected FAIL status, got: %s", data)
	}
}

func TestWriteAIStatus_Pending(t *testing.T) {
	root := t.TempDir()
	result := sampleResult()
	result.Status = model.PipelineRunning

	err := WriteAIStatus(root, result, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, AIStatusPath))
	if err != nil {
		t.Fatalf("failed to read ai_status.md: %v", err)
	}
	if !strings.HasPrefix(string(data), "PENDING") {
		t.Errorf("expected PENDING status, got: %s", data)
	}
}

func TestTopOffendingFiles_LimitsAndSorts(t *testing.T) {
	findings := []model.Finding{
		{FilePath: "a.py"}, {FilePath: "a.py"}, {FilePath: "a.py"},
		{FilePath: "b.py"}, {FilePath: "b.py"},
		{FilePath: "c.py"},
	}
	top := topOffendingFiles(findings, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].file != "a.py" || top[0].count != 3 {
		t.Errorf("expected a.py first with count 3, got %+v", top[0])
	}
	if top[1].file != "b.py" || top[1].count != 2 {
		t.Errorf("expected b.py second with count 2, got %+v", top[1])
	}
}
