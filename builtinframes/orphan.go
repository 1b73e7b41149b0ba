package builtinframes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

// entrypointBasenames are never flagged as orphaned regardless of whether
// anything references them — they're expected to be referenced externally
// (by a build tool, a web server, or an OS process manager).
var entrypointBasenames = map[string]bool{
	"main.go": true, "index.js": true, "index.ts": true, "index.tsx": true,
	"__init__.py": true, "app.py": true, "manage.py": true,
	"wsgi.py": true, "asgi.py": true,
}

// OrphanFrame flags analyzable source files whose basename (minus
// extension) is never mentioned by any other file in the batch — a cheap
// substitute for a full cross-file reference graph, good enough to catch
// leftover modules nothing imports anymore.
type OrphanFrame struct{}

// NewOrphanFrame returns an OrphanFrame.
func NewOrphanFrame() *OrphanFrame { return &OrphanFrame{} }

func (f *OrphanFrame) Metadata() frame.Metadata {
	return frame.Metadata{
		ID:           "orphan",
		Name:         "Orphan Code",
		Description:  "Flags source files that no other file in the scanned tree appears to reference.",
		Priority:     model.PriorityLow,
		IsBlocker:    false,
		Tags:         []string{"architecture", "dead-code"},
		Phase:        model.PhaseClassification,
		ParallelSafe: true,
	}
}

func (f *OrphanFrame) Prepare(ctx context.Context, pctx frame.Context) error { return nil }

func (f *OrphanFrame) Execute(ctx context.Context, batch frame.Batch, pctx frame.Context) (*model.FrameResult, error) {
	start := time.Now()

	candidates := make([]model.DiscoveredFile, 0, len(batch.Files))
	for _, file := range batch.Files {
		if !file.IsAnalyzable || isTestFile(file.Path) {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		if entrypointBasenames[filepath.Base(file.Path)] || base == "" {
			continue
		}
		candidates = append(candidates, file)
	}

	contents := make(map[string]string, len(batch.Files))
	for _, file := range batch.Files {
		select {
		case <-ctx.Done():
			return f.finish(nil, start, model.FrameStatusErrored), ctx.Err()
		default:
		}
		data, err := os.ReadFile(filepath.Join(pctx.ProjectRoot, file.Path))
		if err != nil {
			if pctx.Breaker != nil && pctx.Breaker.RecordError(err.Error()) {
				return f.finish(nil, start, model.FrameStatusErrored), nil
			}
			continue
		}
		if pctx.Breaker != nil {
			pctx.Breaker.RecordSuccess()
		}
		contents[file.Path] = string(data)
	}

	var findings []model.Finding
	for _, file := range candidates {
		base := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		if referencedElsewhere(base, file.Path, contents) {
			continue
		}
		findings = append(findings, model.Finding{
			FrameID:  "orphan",
			RuleID:   "unreferenced-file",
			Severity: model.SeverityLow,
			Message:  "No other file in the scanned tree appears to reference " + filepath.Base(file.Path),
			FilePath: file.Path,
			Target:   base,
			Tags:     []string{"architecture", "dead-code"},
		})
	}

	status := model.FrameStatusPassed
	if len(findings) > 0 {
		status = model.FrameStatusWarning
	}
	return f.finish(findings, start, status), nil
}

func (f *OrphanFrame) finish(findings []model.Finding, start time.Time, status model.FrameStatus) *model.FrameResult {
	return &model.FrameResult{
		FrameID:    f.Metadata().ID,
		FrameName:  f.Metadata().Name,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		IsBlocker:  f.Metadata().IsBlocker,
		Findings:   findings,
	}
}

func isTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "_test.go") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.HasPrefix(base, "test_")
}

func referencedElsewhere(base, ownPath string, contents map[string]string) bool {
	for path, data := range contents {
		if path == ownPath {
			continue
		}
		if strings.Contains(data, base) {
			return true
		}
	}
	return false
}
