package ciout

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/wardenhq/warden/model"
)

// WriteSARIF emits findings as a SARIF 2.1.0 document with a single run.
func WriteSARIF(w io.Writer, findings []model.Finding, version string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("warden", "https://github.com/wardenhq/warden")
	if version != "" {
		run.Tool.Driver.WithVersion(version)
	}

	buildSARIFRules(findings, run)
	for i := range findings {
		buildSARIFResult(&findings[i], run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func buildSARIFRules(findings []model.Finding, run *sarif.Run) {
	seen := make(map[string]bool)
	for _, f := range findings {
		if f.RuleID == "" || seen[f.RuleID] {
			continue
		}
		seen[f.RuleID] = true

		rule := run.AddRule(f.RuleID).
			WithDescription(f.Message).
			WithName(f.RuleID)
		rule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(sarifLevel(f.Severity)))
		rule.WithProperties(map[string]interface{}{
			"tags":              append([]string{f.FrameID}, f.Tags...),
			"security-severity": sarifSeverityScore(f.Severity),
		})
	}
}

// sarifLevel maps critical/high to "error", medium to "warning", low to
// "note", matching the §4.7 SARIF level mapping (stricter than the
// annotation mapping, which additionally distinguishes "notice" for info).
func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func sarifSeverityScore(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical:
		return "9.0"
	case model.SeverityHigh:
		return "7.0"
	case model.SeverityMedium:
		return "5.0"
	case model.SeverityLow:
		return "3.0"
	default:
		return "1.0"
	}
}

func buildSARIFResult(f *model.Finding, run *sarif.Run) {
	if f.RuleID == "" {
		return
	}

	result := run.CreateResultForRule(f.RuleID).
		WithMessage(sarif.NewTextMessage(f.Message))

	region := sarif.NewRegion()
	if f.Line != nil {
		region.WithStartLine(*f.Line)
	}
	if f.LineEnd != nil {
		region.WithEndLine(*f.LineEnd)
	}
	if f.Column != nil {
		region.WithStartColumn(*f.Column)
	}
	if f.ColumnEnd != nil {
		region.WithEndColumn(*f.ColumnEnd)
	}
	if f.CodeSnippet != "" {
		region.WithSnippet(sarif.NewArtifactContent().WithText(f.CodeSnippet))
	}

	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.FilePath)).
				WithRegion(region),
		)
	result.AddLocation(location)

	if f.Fingerprint != "" {
		result.WithPartialFingerPrints(map[string]interface{}{
			"primaryLocationLineHash": f.Fingerprint,
		})
	}

	result.WithProperties(map[string]interface{}{
		"tags": append([]string{f.FrameID}, string(f.Severity)),
	})
}
