package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

// RuleEngine executes a single rule by id against a batch of files,
// returning the findings it produced. Pre/post rules are fast, local
// checks — they run synchronously and are attributed to whichever frame
// declared them.
type RuleEngine interface {
	RunRule(ctx context.Context, rule model.Rule, batch frame.Batch, pctx frame.Context) ([]model.Finding, error)
}

// RegexRuleEngine runs rules whose Pattern is a regular expression against
// each analyzable file's content — the fallback every rule without a more
// specialized engine uses.
type RegexRuleEngine struct{}

// RunRule implements RuleEngine.
func (RegexRuleEngine) RunRule(ctx context.Context, rule model.Rule, batch frame.Batch, pctx frame.Context) ([]model.Finding, error) {
	if !rule.Enabled || rule.Pattern == "" {
		return nil, nil
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, err
	}

	var findings []model.Finding
	for _, file := range batch.Files {
		if !file.IsAnalyzable {
			continue
		}
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		fileFindings, err := scanFileForRuleChecked(re, rule, pctx.ProjectRoot, file.Path)
		if err != nil {
			if pctx.Breaker != nil && pctx.Breaker.RecordError(err.Error()) {
				return findings, err
			}
			continue
		}
		if pctx.Breaker != nil {
			pctx.Breaker.RecordSuccess()
		}
		findings = append(findings, fileFindings...)
	}
	return findings, nil
}

func scanFileForRuleChecked(re *regexp.Regexp, rule model.Rule, projectRoot, relPath string) ([]model.Finding, error) {
	if _, err := os.Stat(filepath.Join(projectRoot, relPath)); err != nil {
		return nil, err
	}
	return scanFileForRule(re, rule, projectRoot, relPath), nil
}

func scanFileForRule(re *regexp.Regexp, rule model.Rule, projectRoot, relPath string) []model.Finding {
	data, err := os.ReadFile(filepath.Join(projectRoot, relPath))
	if err != nil {
		return nil
	}

	var findings []model.Finding
	lineNum := 0
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := string(data[start:i])
			lineNum++
			if loc := re.FindStringIndex(line); loc != nil {
				lineCopy, col := lineNum, loc[0]+1
				findings = append(findings, model.Finding{
					RuleID:      rule.ID,
					Severity:    rule.Severity,
					Message:     rule.Description,
					FilePath:    relPath,
					Line:        &lineCopy,
					Column:      &col,
					CodeSnippet: line,
					Target:      rule.Category,
					Tags:        rule.Tags,
				})
			}
			start = i + 1
		}
	}
	return findings
}

// RunRules executes every named rule id found in known against batch,
// tagging each resulting finding with frameID.
func RunRules(ctx context.Context, engine RuleEngine, ruleIDs []string, known map[string]model.Rule, frameID string, batch frame.Batch, pctx frame.Context) ([]model.Finding, error) {
	var all []model.Finding
	for _, id := range ruleIDs {
		rule, ok := known[id]
		if !ok {
			continue
		}
		results, err := engine.RunRule(ctx, rule, batch, pctx)
		if err != nil {
			return all, err
		}
		for i := range results {
			results[i].FrameID = frameID
		}
		all = append(all, results...)
	}
	return all, nil
}
