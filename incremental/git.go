package incremental

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// gitTimeout bounds every git subprocess invocation so a hung repository
// (e.g. a stale lock or an unreachable submodule) can't stall a scan.
const gitTimeout = 30 * time.Second

// GitDiffProvider computes changed files using git commands. It finds the
// merge-base between base and head first, then diffs from that fork point
// so merge commits on either branch don't widen the changeset.
type GitDiffProvider struct {
	ProjectRoot string
	BaseRef     string
	HeadRef     string
}

// GetChangedFiles returns the raw changed files between the merge-base of
// BaseRef/HeadRef and HeadRef itself.
func (p *GitDiffProvider) GetChangedFiles() ([]RawChange, error) {
	mergeBase, err := p.findMergeBase()
	if err != nil {
		return nil, fmt.Errorf("failed to find merge-base between %s and %s: %w", p.BaseRef, p.HeadRef, err)
	}
	return p.diffFiles(mergeBase)
}

func (p *GitDiffProvider) findMergeBase() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "merge-base", p.BaseRef, p.HeadRef)
	cmd.Dir = p.ProjectRoot

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git merge-base timed out after %s", gitTimeout)
		}
		return "", fmt.Errorf("git merge-base failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// diffFiles combines --name-status (for Added/Modified/Deleted/Renamed
// classification) with --numstat (for line counts) over the same range.
func (p *GitDiffProvider) diffFiles(mergeBase string) ([]RawChange, error) {
	diffRange := mergeBase + ".." + p.HeadRef

	statuses, err := p.runDiff(diffRange, "--name-status")
	if err != nil {
		return nil, err
	}
	stats, err := p.runDiff(diffRange, "--numstat")
	if err != nil {
		return nil, err
	}

	byPath := parseNameStatus(statuses)
	applyNumstat(byPath, stats)

	changes := make([]RawChange, 0, len(byPath))
	for _, c := range byPath {
		changes = append(changes, *c)
	}
	return changes, nil
}

func (p *GitDiffProvider) runDiff(diffRange, mode string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "diff", mode, "--diff-filter=ACDMR", "-M", diffRange)
	cmd.Dir = p.ProjectRoot

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git diff %s timed out after %s", mode, gitTimeout)
		}
		return "", fmt.Errorf("git diff %s failed: %w", mode, err)
	}
	return string(output), nil
}

func parseNameStatus(output string) map[string]*RawChange {
	result := make(map[string]*RawChange)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		code := fields[0]
		status, path := statusFor(code), fields[len(fields)-1]
		if strings.HasPrefix(code, "R") && len(fields) >= 3 {
			path = fields[2]
		}
		result[path] = &RawChange{Path: path, Status: status}
	}
	return result
}

func statusFor(code string) string {
	switch code[0] {
	case 'A':
		return "added"
	case 'D':
		return "deleted"
	case 'R':
		return "renamed"
	default:
		return "modified"
	}
}

func applyNumstat(byPath map[string]*RawChange, output string) {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		path := fields[2]
		if strings.Contains(path, " => ") {
			path = resolveRenameArrow(path)
		}
		c, ok := byPath[path]
		if !ok {
			continue
		}
		if fields[0] == "-" || fields[1] == "-" {
			c.Binary = true
			continue
		}
		c.LinesAdded, _ = strconv.Atoi(fields[0])
		c.LinesDeleted, _ = strconv.Atoi(fields[1])
	}
}

// resolveRenameArrow collapses numstat's "old => new" rename notation
// (including the braced "{old => new}/file" form) down to the new path.
func resolveRenameArrow(path string) string {
	if idx := strings.Index(path, "{"); idx >= 0 {
		end := strings.Index(path, "}")
		if end > idx {
			inner := path[idx+1 : end]
			parts := strings.SplitN(inner, " => ", 2)
			if len(parts) == 2 {
				return path[:idx] + parts[1] + path[end+1:]
			}
		}
	}
	parts := strings.SplitN(path, " => ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return path
}

// ValidateGitRef checks that a git ref exists and is reachable, returning a
// clear error message that suggests fetch-depth: 0 for shallow CI checkouts.
func ValidateGitRef(projectRoot, ref string) error {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", ref)
	cmd.Dir = projectRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("git rev-parse timed out after %s for ref %q", gitTimeout, ref)
		}
		return fmt.Errorf("invalid git ref %q: not found in repository. "+
			"Ensure the ref exists and is fetched (CI checkouts often need fetch-depth: 0).\n"+
			"git error: %s", ref, strings.TrimSpace(string(output)))
	}
	return nil
}
