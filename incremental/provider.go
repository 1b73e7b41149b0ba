// Package incremental implements the Incremental Selector (C2): it narrows
// a full project scan down to the files touched by a change, using git or
// the GitHub PR API as the source of truth, with sibling-file expansion and
// a safe fallback to a full scan when the diff cannot be computed.
package incremental

import "fmt"

// ChangedFilesProvider abstracts how a raw changed-file list is obtained.
type ChangedFilesProvider interface {
	// GetChangedFiles returns the raw changed files between base and head.
	GetChangedFiles() ([]RawChange, error)
}

// RawChange is a provider's unprocessed view of one changed path, before
// it is normalized into a model.ChangedFile and folded into a ChangeSet.
type RawChange struct {
	Path         string
	Status       string // "added", "modified", "deleted", "renamed".
	LinesAdded   int
	LinesDeleted int
	Binary       bool
}

// ProviderOptions configures how changed files are computed.
type ProviderOptions struct {
	// ProjectRoot is the absolute path to the project directory (required for git provider).
	ProjectRoot string

	// BaseRef is the baseline git ref (branch, tag, or commit SHA).
	BaseRef string

	// HeadRef is the head git ref to compare against baseline. Defaults to "HEAD".
	HeadRef string

	// GitHubToken is the GitHub API token for authenticated requests.
	GitHubToken string

	// Owner is the GitHub repository owner.
	Owner string

	// Repo is the GitHub repository name.
	Repo string

	// PRNumber is the pull request number for GitHub API-based diff.
	PRNumber int
}

// NewChangedFilesProvider creates a ChangedFilesProvider based on available
// options. The GitHub API is preferred when a token and PR number are
// available — it is immune to merge-commit confusion and matches GitHub's
// own "Files changed" view. Falls back to git-based diff otherwise.
func NewChangedFilesProvider(opts ProviderOptions) (ChangedFilesProvider, error) {
	if opts.BaseRef == "" && !hasGitHubPRContext(opts) {
		return nil, fmt.Errorf("no baseline ref provided: set --base or provide GitHub PR context (--github-token, --github-repo, --github-pr)")
	}

	if hasGitHubPRContext(opts) {
		owner, repo, err := parseOwnerRepo(opts)
		if err != nil {
			return nil, err
		}
		return &GitHubAPIProvider{
			Token:    opts.GitHubToken,
			Owner:    owner,
			Repo:     repo,
			PRNumber: opts.PRNumber,
		}, nil
	}

	headRef := opts.HeadRef
	if headRef == "" {
		headRef = "HEAD"
	}
	return &GitDiffProvider{
		ProjectRoot: opts.ProjectRoot,
		BaseRef:     opts.BaseRef,
		HeadRef:     headRef,
	}, nil
}

func hasGitHubPRContext(opts ProviderOptions) bool {
	return opts.GitHubToken != "" && opts.PRNumber > 0 && opts.Owner != "" && opts.Repo != ""
}

func parseOwnerRepo(opts ProviderOptions) (string, string, error) {
	if opts.Owner != "" && opts.Repo != "" {
		return opts.Owner, opts.Repo, nil
	}
	return "", "", fmt.Errorf("github owner/repo must both be set (e.g., --github-repo owner/repo)")
}
