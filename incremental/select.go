package incremental

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardenhq/warden/model"
)

// Options configures a Select call.
type Options struct {
	ProjectRoot string
	BaseRef     string
	HeadRef     string

	GitHubToken string
	Owner       string
	Repo        string
	PRNumber    int

	// ExpandSiblings adds every other file in a changed file's directory
	// that shares its extension — frames that reason about a package as a
	// whole (e.g. an orphan-symbol check) need the siblings in scope even
	// though they weren't touched themselves.
	ExpandSiblings bool

	// ExtensionWhitelist, when non-empty, drops any changed or expanded
	// file whose extension isn't in the set (dotted, lowercase: ".go").
	ExtensionWhitelist []string
}

// Result is the output of Select: the ChangeSet plus the observability
// metadata §4.2 calls for (reduction percentage, whether a full scan was
// forced, and why).
type Result struct {
	ChangeSet        model.ChangeSet
	FullScan         bool
	FallbackReason   string
	TotalDiscovered  int
	SelectedCount    int
	ReductionPercent float64
	SiblingsAdded    int
}

// Select computes the incremental changeset for opts, falling back to a
// full scan (FullScan=true) whenever a baseline can't be resolved or the
// diff computation itself fails — an incremental selector must never
// silently return an empty scope.
func Select(opts Options, totalDiscovered int) (*Result, error) {
	baseRef := opts.BaseRef
	if baseRef == "" {
		baseRef = ResolveBaseRef()
	}

	if baseRef == "" && opts.PRNumber == 0 {
		return fullScanResult(totalDiscovered, "no baseline ref resolved"), nil
	}

	provider, err := NewChangedFilesProvider(ProviderOptions{
		ProjectRoot: opts.ProjectRoot,
		BaseRef:     baseRef,
		HeadRef:     opts.HeadRef,
		GitHubToken: opts.GitHubToken,
		Owner:       opts.Owner,
		Repo:        opts.Repo,
		PRNumber:    opts.PRNumber,
	})
	if err != nil {
		return fullScanResult(totalDiscovered, err.Error()), nil
	}

	raw, err := provider.GetChangedFiles()
	if err != nil {
		return fullScanResult(totalDiscovered, err.Error()), nil
	}

	changeSet := toChangeSet(raw)

	siblingsAdded := 0
	if opts.ExpandSiblings {
		siblingsAdded = expandSiblings(&changeSet, opts.ProjectRoot)
	}

	if len(opts.ExtensionWhitelist) > 0 {
		filterByExtension(&changeSet, opts.ExtensionWhitelist)
	}

	selected := len(changeSet.AllPaths())
	return &Result{
		ChangeSet:        changeSet,
		TotalDiscovered:  totalDiscovered,
		SelectedCount:    selected,
		ReductionPercent: reductionPercent(totalDiscovered, selected),
		SiblingsAdded:    siblingsAdded,
	}, nil
}

func fullScanResult(totalDiscovered int, reason string) *Result {
	return &Result{
		FullScan:        true,
		FallbackReason:  reason,
		TotalDiscovered: totalDiscovered,
		SelectedCount:   totalDiscovered,
	}
}

func reductionPercent(total, selected int) float64 {
	if total <= 0 {
		return 0
	}
	reduced := total - selected
	if reduced < 0 {
		reduced = 0
	}
	return float64(reduced) / float64(total) * 100
}

func toChangeSet(raw []RawChange) model.ChangeSet {
	var cs model.ChangeSet
	for _, r := range raw {
		cf := model.ChangedFile{
			Path:         r.Path,
			LinesAdded:   r.LinesAdded,
			LinesDeleted: r.LinesDeleted,
			Binary:       r.Binary,
		}
		switch r.Status {
		case "added":
			cs.Added = append(cs.Added, cf)
		case "deleted":
			cs.Deleted = append(cs.Deleted, cf)
		case "renamed":
			cs.Renamed = append(cs.Renamed, cf)
		default:
			cs.Modified = append(cs.Modified, cf)
		}
	}
	return cs
}

// expandSiblings adds, to the Modified list, every file in the same
// directory as a changed file that shares its extension and isn't already
// present in the changeset — "same directory, same extension" per §9.
func expandSiblings(cs *model.ChangeSet, projectRoot string) int {
	existing := make(map[string]bool)
	for _, p := range cs.AllPaths() {
		existing[p] = true
	}

	seedDirs := make(map[string]string) // dir -> extension
	for _, p := range append(append([]model.ChangedFile{}, cs.Added...), cs.Modified...) {
		ext := strings.ToLower(filepath.Ext(p.Path))
		if ext == "" {
			continue
		}
		seedDirs[filepath.Dir(p.Path)] = ext
	}

	added := 0
	var newFiles []string
	for dir, ext := range seedDirs {
		entries, err := os.ReadDir(filepath.Join(projectRoot, dir))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ext {
				continue
			}
			rel := filepath.ToSlash(filepath.Join(dir, entry.Name()))
			if existing[rel] {
				continue
			}
			existing[rel] = true
			newFiles = append(newFiles, rel)
		}
	}

	sort.Strings(newFiles)
	for _, rel := range newFiles {
		cs.Modified = append(cs.Modified, model.ChangedFile{Path: rel})
		added++
	}
	return added
}

func filterByExtension(cs *model.ChangeSet, whitelist []string) {
	allowed := make(map[string]bool, len(whitelist))
	for _, ext := range whitelist {
		allowed[strings.ToLower(ext)] = true
	}

	cs.Added = filterSlice(cs.Added, allowed)
	cs.Modified = filterSlice(cs.Modified, allowed)
	cs.Renamed = filterSlice(cs.Renamed, allowed)
	cs.Deleted = filterSlice(cs.Deleted, allowed)
}

func filterSlice(files []model.ChangedFile, allowed map[string]bool) []model.ChangedFile {
	var out []model.ChangedFile
	for _, f := range files {
		if allowed[strings.ToLower(filepath.Ext(f.Path))] {
			out = append(out, f)
		}
	}
	return out
}
