package platform

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardenhq/warden/model"
)

var excludedDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true,
	".venv": true, "venv": true, "__pycache__": true,
	"dist": true, "build": true, "target": true, "out": true,
	".cache": true, ".next": true, ".nuxt": true,
	".warden": true,
}

// Options configures a Detect call.
type Options struct {
	// MaxDepth bounds the walk depth below root; 0 means unbounded.
	MaxDepth int
	// MinConfidence is the threshold a signature's score must clear to emit
	// a DetectedProject. Zero selects the default of 0.5.
	MinConfidence float64
}

// DefaultOptions returns the bounded-walk defaults from §4.8.
func DefaultOptions() Options {
	return Options{MaxDepth: 6, MinConfidence: 0.5}
}

// Detect walks root and returns one DetectedProject per candidate directory
// whose best-matching signature clears the confidence threshold. When two
// signatures tie on a directory the higher-confidence one wins; when a
// directory is revisited (nested candidate dirs never happen in practice,
// but defensive dedup matches §4.8's "duplicate paths" rule) the
// highest-confidence entry is kept.
func Detect(root string, opts Options) ([]model.DetectedProject, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = DefaultOptions().MinConfidence
	}

	signatures := Registry()
	byPath := make(map[string]model.DetectedProject)

	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}

		if proj, ok := evaluateDir(dir, entries, signatures, opts.MinConfidence); ok {
			rel := relPath(absRoot, dir)
			if existing, seen := byPath[rel]; !seen || proj.Confidence > existing.Confidence {
				proj.Path = rel
				byPath[rel] = proj
			}
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if excludedDirs[name] {
				continue
			}
			if err := walk(filepath.Join(dir, name), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(absRoot, 0); err != nil {
		return nil, err
	}

	projects := make([]model.DetectedProject, 0, len(byPath))
	for _, p := range byPath {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	return projects, nil
}

// evaluateDir scores every signature against dir's entries and returns the
// best-scoring DetectedProject, if any clears minConfidence.
func evaluateDir(dir string, entries []os.DirEntry, signatures []PlatformSignature, minConfidence float64) (model.DetectedProject, bool) {
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}

	var best model.DetectedProject
	var bestScore float64
	found := false

	for _, sig := range signatures {
		if excludedBySignature(sig, names) {
			continue
		}

		score, evidence := scoreSignature(dir, sig, names)
		if score < minConfidence {
			continue
		}
		if !found || score > bestScore {
			role := sig.DefaultRole
			for _, apiDir := range sig.BFFAPIDirs {
				if dirExists(filepath.Join(dir, apiDir)) {
					role = model.RoleBoth
					evidence = append(evidence, "bff directory: "+apiDir)
					break
				}
			}
			best = model.DetectedProject{
				Name:       filepath.Base(dir),
				Platform:   sig.PlatformType,
				Role:       role,
				Confidence: score,
				Evidence:   evidence,
			}
			bestScore = score
			found = true
		}
	}

	return best, found
}

func excludedBySignature(sig PlatformSignature, names map[string]bool) bool {
	for _, excl := range sig.ExclusionFiles {
		if names[excl] {
			return true
		}
	}
	return false
}

func scoreSignature(dir string, sig PlatformSignature, names map[string]bool) (float64, []string) {
	var evidence []string

	presenceHits := 0
	for _, f := range sig.PresenceFiles {
		if names[f] {
			presenceHits++
			evidence = append(evidence, "file present: "+f)
		}
	}
	var presenceScore float64
	if len(sig.PresenceFiles) > 0 {
		presenceScore = float64(presenceHits) / float64(len(sig.PresenceFiles))
	}

	contentHits := 0
	for _, cp := range sig.ContentPatterns {
		if !names[cp.File] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, cp.File))
		if err != nil {
			continue
		}
		if strings.Contains(string(data), cp.Pattern) {
			contentHits++
			evidence = append(evidence, "content match in "+cp.File+": "+cp.Pattern)
		}
	}
	var contentScore float64
	if len(sig.ContentPatterns) > 0 {
		contentScore = float64(contentHits) / float64(len(sig.ContentPatterns))
	}

	multiplier := sig.WeightMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	score := (presenceScore*presenceWeight + contentScore*contentWeight) * multiplier
	if score > 1.0 {
		score = 1.0
	}
	return score, evidence
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func relPath(root, full string) string {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		rel = full
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}

// CountFiles returns the number of regular files under root, bounded the
// same way Detect's walk is, for the >10000-files validation warning.
func CountFiles(root string) (int, error) {
	count := 0
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			if e.IsDir() {
				if excludedDirs[e.Name()] {
					continue
				}
				if err := walk(filepath.Join(dir, e.Name())); err != nil {
					return err
				}
				continue
			}
			count++
		}
		return nil
	}
	if err := walk(root); err != nil {
		return 0, err
	}
	return count, nil
}
