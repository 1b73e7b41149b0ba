package discovery

import (
	"bufio"
	"os"
	"path"
	"strings"
)

// ignorePattern is one compiled line from .gitignore/.wardenignore.
type ignorePattern struct {
	pattern  string
	negate   bool
	anchored bool // leading "/" — only matches from the ignore file's root.
	dirOnly  bool // trailing "/" — only matches directories.
}

// IgnoreSet holds the combined, ordered set of ignore patterns from
// .gitignore and .wardenignore. Later patterns (and negations) take
// precedence, matching git's own semantics.
type IgnoreSet struct {
	patterns []ignorePattern
}

// LoadIgnoreSet reads .gitignore then .wardenignore (if present) from root.
// Missing files are not an error — an empty IgnoreSet excludes nothing.
func LoadIgnoreSet(root string) (*IgnoreSet, error) {
	set := &IgnoreSet{}
	for _, name := range []string{".gitignore", ".wardenignore"} {
		if err := set.loadFile(path.Join(root, name)); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *IgnoreSet) loadFile(p string) error {
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		s.patterns = append(s.patterns, parseIgnoreLine(trimmed))
	}
	return scanner.Err()
}

func parseIgnoreLine(line string) ignorePattern {
	negate := false
	if strings.HasPrefix(line, "!") {
		negate = true
		line = line[1:]
	}
	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	dirOnly := strings.HasSuffix(line, "/")
	line = strings.TrimSuffix(line, "/")

	return ignorePattern{pattern: line, negate: negate, anchored: anchored, dirOnly: dirOnly}
}

// Matches reports whether relPath (POSIX, project-relative, no leading "/")
// is ignored, applying patterns in file order so later negations win.
func (s *IgnoreSet) Matches(relPath string, isDir bool) bool {
	ignored := false
	for _, p := range s.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if matchIgnorePattern(p, relPath) {
			ignored = !p.negate
		}
	}
	return ignored
}

func matchIgnorePattern(p ignorePattern, relPath string) bool {
	candidate := relPath
	if p.anchored {
		ok, _ := path.Match(p.pattern, candidate)
		return ok
	}

	// Unanchored patterns match at any directory level: try the full path
	// and every suffix starting at a path separator.
	segments := strings.Split(candidate, "/")
	for i := range segments {
		suffix := strings.Join(segments[i:], "/")
		if ok, _ := path.Match(p.pattern, suffix); ok {
			return true
		}
		// Also allow patterns with no "/" to match the base name alone.
		if !strings.Contains(p.pattern, "/") {
			if ok, _ := path.Match(p.pattern, segments[len(segments)-1]); ok {
				return true
			}
		}
	}
	return false
}
