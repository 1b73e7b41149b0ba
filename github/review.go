package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardenhq/warden/model"
)

// ReviewManager handles posting inline review comments on a PR.
type ReviewManager struct {
	client    *Client
	prNumber  int
	commitSHA string
}

// NewReviewManager creates a review manager for the given PR and commit.
func NewReviewManager(client *Client, prNumber int, commitSHA string) *ReviewManager {
	return &ReviewManager{
		client:    client,
		prNumber:  prNumber,
		commitSHA: commitSHA,
	}
}

// PostInlineComments posts inline review comments for critical and high findings.
// Findings are batched into a single review request (atomic).
// Existing comments with matching markers are updated; new ones are created.
func (rm *ReviewManager) PostInlineComments(ctx context.Context, findings []model.Finding) error {
	// Filter to inline-eligible findings.
	eligible := filterEligible(findings)
	if len(eligible) == 0 {
		return nil
	}

	// Fetch existing review comments for marker comparison.
	existing, err := rm.client.ListReviewComments(ctx, rm.prNumber)
	if err != nil {
		return fmt.Errorf("list existing review comments: %w", err)
	}
	existingByMarker := indexByMarker(existing)

	// Separate findings into updates vs new comments.
	newComments := make([]ReviewCommentInput, 0, len(eligible))
	for _, f := range eligible {
		marker := ReviewCommentMarker(f)
		body := FormatInlineComment(f)

		if commentID, ok := existingByMarker[marker]; ok {
			// Update existing review comment in-place (uses pulls/comments endpoint).
			if _, err := rm.client.UpdateReviewComment(ctx, commentID, body); err != nil {
				return fmt.Errorf("update inline comment: %w", err)
			}
			continue
		}

		newComments = append(newComments, ReviewCommentInput{
			Path: f.FilePath,
			Line: lineOf(f.Line),
			Side: "RIGHT",
			Body: body,
		})
	}

	// Post new comments as a single atomic review.
	if len(newComments) > 0 {
		if err := rm.client.CreateReview(ctx, rm.prNumber, rm.commitSHA, "", newComments); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
	}

	return nil
}

// ShouldPostInline returns true if the severity warrants an inline comment.
// Only critical and high findings get inline comments; medium and low go in the summary only.
func ShouldPostInline(severity string) bool {
	s := strings.ToLower(severity)
	return s == "critical" || s == "high"
}

// ReviewCommentMarker generates a hidden HTML marker for a finding.
// Used to match existing comments for update-in-place.
func ReviewCommentMarker(f model.Finding) string {
	return fmt.Sprintf("<!-- warden-%s-%s-%d -->", f.RuleID, f.FilePath, lineOf(f.Line))
}

// FormatInlineComment builds the markdown body for a single inline comment.
func FormatInlineComment(f model.Finding) string {
	var sb strings.Builder

	// Severity + message header.
	sb.WriteString(fmt.Sprintf("%s **%s**\n\n", severityEmoji(string(f.Severity)), f.Message))

	if f.CodeSnippet != "" {
		sb.WriteString(fmt.Sprintf("```\n%s\n```\n\n", f.CodeSnippet))
	}

	writeReferences(&sb, f.Tags)

	// Hidden marker for update-in-place.
	// Trim trailing whitespace to avoid excess blank lines.
	body := strings.TrimRight(sb.String(), "\n")
	return body + "\n\n" + ReviewCommentMarker(f) + "\n"
}

// filterEligible returns only critical and high findings with valid locations.
func filterEligible(findings []model.Finding) []model.Finding {
	result := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if ShouldPostInline(string(f.Severity)) && f.FilePath != "" && lineOf(f.Line) > 0 {
			result = append(result, f)
		}
	}
	return result
}

func lineOf(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// indexByMarker builds a map from marker string to comment ID for existing comments.
func indexByMarker(comments []*ReviewComment) map[string]int64 {
	m := make(map[string]int64, len(comments))
	for _, c := range comments {
		// Extract marker from comment body.
		if idx := strings.Index(c.Body, "<!-- warden-"); idx != -1 {
			end := strings.Index(c.Body[idx:], "-->")
			if end != -1 {
				marker := c.Body[idx : idx+end+3]
				m[marker] = c.ID
			}
		}
	}
	return m
}

// writeReferences writes a finding's tags as a single reference line.
func writeReferences(sb *strings.Builder, tags []string) {
	if len(tags) > 0 {
		sb.WriteString(strings.Join(tags, " \u00b7 "))
		sb.WriteString("\n")
	}
}
