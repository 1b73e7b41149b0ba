package incremental

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

const (
	githubAPIBaseURL = "https://api.github.com"
	githubPerPage    = 100
	githubTimeout    = 30 * time.Second
)

// GitHubAPIProvider gets changed files from the GitHub pull request API.
// This is preferred over git-based diff when available: it works with
// shallow clones and returns exactly the file list GitHub's own "Files
// changed" tab shows.
type GitHubAPIProvider struct {
	Token    string
	Owner    string
	Repo     string
	PRNumber int

	// BaseURL overrides the GitHub API base URL (for testing).
	BaseURL string
}

type pullRequestFile struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"` // added, modified, removed, renamed, copied, changed, unchanged.
	Additions   int    `json:"additions"`
	Deletions   int    `json:"deletions"`
	PreviousFil string `json:"previous_filename"`
}

// GetChangedFiles returns the raw changed files in the pull request,
// paginating through the full result set.
func (p *GitHubAPIProvider) GetChangedFiles() ([]RawChange, error) {
	var all []RawChange
	page := 1

	for {
		files, hasMore, err := p.fetchPage(page)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			all = append(all, RawChange{
				Path:         f.Filename,
				Status:       normalizeGitHubStatus(f.Status),
				LinesAdded:   f.Additions,
				LinesDeleted: f.Deletions,
			})
		}
		if !hasMore {
			break
		}
		page++
	}

	return all, nil
}

func normalizeGitHubStatus(status string) string {
	switch status {
	case "added":
		return "added"
	case "removed":
		return "deleted"
	case "renamed":
		return "renamed"
	default:
		return "modified"
	}
}

func (p *GitHubAPIProvider) fetchPage(page int) ([]pullRequestFile, bool, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = githubAPIBaseURL
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d&page=%d",
		baseURL, p.Owner, p.Repo, p.PRNumber, githubPerPage, page)

	ctx, cancel := context.WithTimeout(context.Background(), githubTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create GitHub API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("GitHub API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	var files []pullRequestFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, false, fmt.Errorf("failed to decode GitHub API response: %w", err)
	}

	return files, hasNextPage(resp.Header.Get("Link")), nil
}

var linkNextRe = regexp.MustCompile(`<[^>]+>;\s*rel="next"`)

func hasNextPage(linkHeader string) bool {
	return linkHeader != "" && linkNextRe.MatchString(linkHeader)
}
