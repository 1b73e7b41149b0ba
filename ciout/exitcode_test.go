package ciout

import (
	"testing"

	"github.com/wardenhq/warden/model"
)

func TestDetermineExitCode_ErrorsTakePrecedence(t *testing.T) {
	findings := []model.Finding{mkFinding("f", "r", "a.py", 1, "m", model.SeverityCritical)}
	got := DetermineExitCode(findings, DefaultBlockerThreshold(), true)
	if got != ExitCodeError {
		t.Errorf("expected ExitCodeError, got %d", got)
	}
}

func TestDetermineExitCode_BlockedOnCriticalByDefault(t *testing.T) {
	findings := []model.Finding{mkFinding("f", "r", "a.py", 1, "m", model.SeverityCritical)}
	got := DetermineExitCode(findings, DefaultBlockerThreshold(), false)
	if got != ExitCodeBlocked {
		t.Errorf("expected ExitCodeBlocked, got %d", got)
	}
}

func TestDetermineExitCode_HighNotBlockedByDefault(t *testing.T) {
	findings := []model.Finding{mkFinding("f", "r", "a.py", 1, "m", model.SeverityHigh)}
	got := DetermineExitCode(findings, DefaultBlockerThreshold(), false)
	if got != ExitCodeSuccess {
		t.Errorf("expected ExitCodeSuccess, got %d", got)
	}
}

func TestDetermineExitCode_NoFindings(t *testing.T) {
	got := DetermineExitCode(nil, DefaultBlockerThreshold(), false)
	if got != ExitCodeSuccess {
		t.Errorf("expected ExitCodeSuccess, got %d", got)
	}
}

func TestThresholdFromFailOn_EmptyUsesDefault(t *testing.T) {
	th := ThresholdFromFailOn(nil)
	if !th.FailOnCritical || th.FailOnHigh {
		t.Errorf("expected default threshold, got %+v", th)
	}
}

func TestThresholdFromFailOn_CustomList(t *testing.T) {
	th := ThresholdFromFailOn([]string{"high", "medium"})
	if th.FailOnCritical || !th.FailOnHigh || !th.FailOnMedium || th.FailOnLow {
		t.Errorf("unexpected threshold: %+v", th)
	}
}

func TestParseFailOn(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"critical", []string{"critical"}},
		{"critical,high", []string{"critical", "high"}},
		{" critical , high ", []string{"critical", "high"}},
		{"critical,,high", []string{"critical", "high"}},
	}
	for _, tt := range tests {
		got := ParseFailOn(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseFailOn(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseFailOn(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	}
}

func TestValidateSeverities(t *testing.T) {
	if err := ValidateSeverities([]string{"critical", "HIGH"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateSeverities([]string{"critical", "bogus"})
	if err == nil {
		t.Fatal("expected error for invalid severity")
	}
	var invalidErr *InvalidSeverityError
	if !asInvalidSeverityError(err, &invalidErr) {
		t.Fatalf("expected InvalidSeverityError, got %T", err)
	}
	if invalidErr.Severity != "bogus" {
		t.Errorf("expected bogus severity captured, got %s", invalidErr.Severity)
	}
}

func asInvalidSeverityError(err error, target **InvalidSeverityError) bool {
	e, ok := err.(*InvalidSeverityError)
	if !ok {
		return false
	}
	*target = e
	return true
}
