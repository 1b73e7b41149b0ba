// Package discovery implements the Discovery component (C1): it walks a
// project tree, classifies files, honors .gitignore/.wardenignore, and
// detects the project's primary framework from manifest files.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardenhq/warden/model"
)

// excludedDirs is the hard-coded exclusion set from §4.1: VCS dirs,
// build/cache dirs, node_modules, virtualenv dirs, language caches.
var excludedDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true,
	".venv": true, "venv": true, "__pycache__": true,
	"dist": true, "build": true, "target": true, "out": true,
	".cache": true, ".next": true, ".nuxt": true,
	".warden": true,
}

// Options configures a Discover call.
type Options struct {
	// MaxDepth bounds the walk depth; 0 means unbounded.
	MaxDepth int
	// HonorIgnores reads .gitignore/.wardenignore when true (default behavior).
	HonorIgnores bool
}

// DefaultOptions returns Options with HonorIgnores enabled and no depth cap,
// matching the §4.1 contract's defaults.
func DefaultOptions() Options {
	return Options{HonorIgnores: true}
}

// Discover walks root depth-first and returns a DiscoveryResult. Unreadable
// subdirectories are recorded in Errors and skipped — the walk never fails.
func Discover(root string, opts Options) (*model.DiscoveryResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	result := &model.DiscoveryResult{Root: absRoot}

	var ignores *IgnoreSet
	if opts.HonorIgnores {
		ignores, err = LoadIgnoreSet(absRoot)
		if err != nil {
			result.Errors = append(result.Errors, "load ignore files: "+err.Error())
			ignores = &IgnoreSet{}
		}
	} else {
		ignores = &IgnoreSet{}
	}

	walkDir(absRoot, absRoot, 0, opts, ignores, result)

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })

	result.Framework = DetectFramework(absRoot, result.Files)

	return result, nil
}

func walkDir(root, dir string, depth int, opts Options, ignores *IgnoreSet, result *model.DiscoveryResult) {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, "read dir "+dir+": "+err.Error())
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		rel := toPosixRel(root, full)

		if entry.IsDir() {
			if excludedDirs[name] || ignores.Matches(rel, true) {
				result.SkippedDirs = append(result.SkippedDirs, rel)
				continue
			}
			walkDir(root, full, depth+1, opts, ignores, result)
			continue
		}

		if ignores.Matches(rel, false) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, "stat "+full+": "+err.Error())
			continue
		}

		df := Classify(rel, info.Size())
		result.Files = append(result.Files, df)
	}
}

func toPosixRel(root, full string) string {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		rel = full
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}
