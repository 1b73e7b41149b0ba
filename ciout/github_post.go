package ciout

import (
	"fmt"

	"github.com/wardenhq/warden/github"
	"github.com/wardenhq/warden/model"
)

// PostToGitHubPR posts a scan summary comment and/or inline review comments
// on a pull request, layered on top of the §4.7 annotations contract — GitHub
// Actions workflow annotations are still emitted via WriteAnnotations
// regardless of whether this step runs.
func PostToGitHubPR(token, owner, repo string, opts github.PRCommentOptions, findings []model.Finding, metrics github.ScanMetrics, progress github.ProgressFunc) error {
	if !opts.Enabled() {
		return nil
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	client := github.NewClient(token, owner, repo)
	if err := github.PostPRComments(client, opts, findings, metrics, progress); err != nil {
		return fmt.Errorf("post PR comments: %w", err)
	}
	return nil
}
