// Package builtinframes provides the frames registered by default: security
// (regex-based secret/vulnerability patterns), orphan-code (unreferenced
// file detection), and contract/spec (platform-role compatibility, backed by
// the platform package).
package builtinframes

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

// secretPattern is one named regex checked against every analyzable file.
type secretPattern struct {
	ruleID   string
	pattern  *regexp.Regexp
	message  string
	severity model.Severity
}

var defaultSecretPatterns = []secretPattern{
	{
		ruleID:   "secret",
		pattern:  regexp.MustCompile(`(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*['"][A-Za-z0-9+/_=-]{8,}['"]`),
		message:  "Hardcoded secret detected",
		severity: model.SeverityCritical,
	},
	{
		ruleID:   "aws-access-key",
		pattern:  regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		message:  "AWS access key ID detected",
		severity: model.SeverityCritical,
	},
	{
		ruleID:   "private-key",
		pattern:  regexp.MustCompile(`-----BEGIN (RSA|EC|OPENSSH|DSA) PRIVATE KEY-----`),
		message:  "Embedded private key detected",
		severity: model.SeverityCritical,
	},
	{
		ruleID:   "insecure-eval",
		pattern:  regexp.MustCompile(`\beval\s*\(`),
		message:  "Use of eval() is a code-injection risk",
		severity: model.SeverityHigh,
	},
}

// SecurityFrame scans analyzable files line-by-line for hard-coded secrets
// and a small set of other risky constructs.
type SecurityFrame struct {
	Patterns []secretPattern
}

// NewSecurityFrame returns a SecurityFrame seeded with the built-in pattern
// set.
func NewSecurityFrame() *SecurityFrame {
	return &SecurityFrame{Patterns: defaultSecretPatterns}
}

func (f *SecurityFrame) Metadata() frame.Metadata {
	return frame.Metadata{
		ID:           "security",
		Name:         "Security",
		Description:  "Detects hard-coded secrets and other risky constructs via pattern matching.",
		Priority:     model.PriorityCritical,
		IsBlocker:    true,
		Tags:         []string{"security"},
		Phase:        model.PhaseAnalysis,
		ParallelSafe: true,
	}
}

func (f *SecurityFrame) Prepare(ctx context.Context, pctx frame.Context) error { return nil }

func (f *SecurityFrame) Execute(ctx context.Context, batch frame.Batch, pctx frame.Context) (*model.FrameResult, error) {
	start := time.Now()
	var findings []model.Finding

	for _, file := range batch.Files {
		if !file.IsAnalyzable {
			continue
		}
		select {
		case <-ctx.Done():
			return f.finish(findings, start, model.FrameStatusErrored), ctx.Err()
		default:
		}

		fileFindings, err := scanFileForSecrets(pctx.ProjectRoot, file.Path, f.Patterns)
		if err != nil {
			if pctx.Breaker != nil && pctx.Breaker.RecordError(err.Error()) {
				return f.finish(findings, start, model.FrameStatusErrored), nil
			}
			continue
		}
		if pctx.Breaker != nil {
			pctx.Breaker.RecordSuccess()
		}
		findings = append(findings, fileFindings...)
	}

	status := model.FrameStatusPassed
	if len(findings) > 0 {
		status = model.FrameStatusFailed
	}
	return f.finish(findings, start, status), nil
}

func (f *SecurityFrame) finish(findings []model.Finding, start time.Time, status model.FrameStatus) *model.FrameResult {
	return &model.FrameResult{
		FrameID:    f.Metadata().ID,
		FrameName:  f.Metadata().Name,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		IsBlocker:  f.Metadata().IsBlocker,
		Findings:   findings,
	}
}

func scanFileForSecrets(projectRoot, relPath string, patterns []secretPattern) ([]model.Finding, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, relPath))
	if err != nil {
		return nil, err
	}

	var findings []model.Finding
	lineNum := 0
	start := 0
	for i := 0; i <= len(data); i++ {
		if i != len(data) && data[i] != '\n' {
			continue
		}
		line := string(data[start:i])
		lineNum++
		for _, p := range patterns {
			if loc := p.pattern.FindStringIndex(line); loc != nil {
				lineCopy, col := lineNum, loc[0]+1
				findings = append(findings, model.Finding{
					FrameID:     "security",
					RuleID:      p.ruleID,
					Severity:    p.severity,
					Message:     p.message,
					FilePath:    relPath,
					Line:        &lineCopy,
					Column:      &col,
					CodeSnippet: line,
					Target:      p.ruleID,
					Tags:        []string{"security", p.ruleID},
				})
			}
		}
		start = i + 1
	}
	return findings, nil
}
