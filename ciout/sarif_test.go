package ciout

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/wardenhq/warden/model"
)

func TestWriteSARIF_EmptyFindings(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSARIF(&buf, nil, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("expected SARIF version 2.1.0, got %v", doc["version"])
	}
}

func TestWriteSARIF_OneCriticalFinding(t *testing.T) {
	var buf bytes.Buffer
	line := 5
	findings := []model.Finding{
		{
			FrameID:     "security",
			RuleID:      "secret",
			FilePath:    "app.py",
			Line:        &line,
			Message:     "Hardcoded secret detected",
			Severity:    model.SeverityCritical,
			Fingerprint: "abc123",
		},
	}

	err := WriteSARIF(&buf, findings, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Runs []struct {
			Results []struct {
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				PartialFingerprints map[string]string `json:"partialFingerprints"`
			} `json:"results"`
			Tool struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}
	run := doc.Runs[0]
	if len(run.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(run.Results))
	}
	if run.Results[0].Level != "error" {
		t.Errorf("expected level error for critical, got %s", run.Results[0].Level)
	}
	if run.Results[0].Message.Text != "Hardcoded secret detected" {
		t.Errorf("unexpected message: %s", run.Results[0].Message.Text)
	}
	if run.Results[0].PartialFingerprints["primaryLocationLineHash"] != "abc123" {
		t.Errorf("expected fingerprint propagated, got %+v", run.Results[0].PartialFingerprints)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "secret" {
		t.Errorf("expected deduplicated rule 'secret', got %+v", run.Tool.Driver.Rules)
	}
}

func TestWriteSARIF_DeduplicatesRulesByID(t *testing.T) {
	var buf bytes.Buffer
	l1, l2 := 1, 2
	findings := []model.Finding{
		{FrameID: "security", RuleID: "secret", FilePath: "a.py", Line: &l1, Message: "m1", Severity: model.SeverityCritical},
		{FrameID: "security", RuleID: "secret", FilePath: "b.py", Line: &l2, Message: "m2", Severity: model.SeverityCritical},
	}

	err := WriteSARIF(&buf, findings, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Runs []struct {
			Tool struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Runs[0].Tool.Driver.Rules) != 1 {
		t.Errorf("expected rules deduplicated to 1, got %d", len(doc.Runs[0].Tool.Driver.Rules))
	}
}

func TestSarifLevel(t *testing.T) {
	tests := []struct {
		sev  model.Severity
		want string
	}{
		{model.SeverityCritical, "error"},
		{model.SeverityHigh, "error"},
		{model.SeverityMedium, "warning"},
		{model.SeverityLow, "note"},
		{model.SeverityInfo, "note"},
	}
	for _, tt := range tests {
		if got := sarifLevel(tt.sev); got != tt.want {
			t.Errorf("sarifLevel(%s) = %s, want %s", tt.sev, got, tt.want)
		}
	}
}
