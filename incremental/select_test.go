package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/model"
)

func TestToChangeSet_BucketsByStatus(t *testing.T) {
	raw := []RawChange{
		{Path: "a.go", Status: "added"},
		{Path: "b.go", Status: "modified"},
		{Path: "c.go", Status: "deleted"},
		{Path: "d.go", Status: "renamed"},
		{Path: "e.go", Status: "unknown"},
	}
	cs := toChangeSet(raw)
	assert.Equal(t, []string{"a.go"}, pathsOf(cs.Added))
	assert.ElementsMatch(t, []string{"b.go", "e.go"}, pathsOf(cs.Modified))
	assert.Equal(t, []string{"c.go"}, pathsOf(cs.Deleted))
	assert.Equal(t, []string{"d.go"}, pathsOf(cs.Renamed))
}

func pathsOf(files []model.ChangedFile) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestReductionPercent(t *testing.T) {
	assert.Equal(t, 90.0, reductionPercent(100, 10))
	assert.Equal(t, 0.0, reductionPercent(0, 0))
	assert.Equal(t, 0.0, reductionPercent(10, 10))
}

func TestExpandSiblings_SameDirSameExtension(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	for _, name := range []string{"a.go", "b.go", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", name), []byte("x"), 0o644))
	}

	cs := model.ChangeSet{Modified: []model.ChangedFile{{Path: "pkg/a.go"}}}
	added := expandSiblings(&cs, root)

	assert.Equal(t, 1, added)
	assert.ElementsMatch(t, []string{"pkg/a.go", "pkg/b.go"}, cs.AllPaths())
}

func TestFilterByExtension(t *testing.T) {
	cs := model.ChangeSet{
		Added:    []model.ChangedFile{{Path: "a.go"}, {Path: "a.md"}},
		Modified: []model.ChangedFile{{Path: "b.py"}},
	}
	filterByExtension(&cs, []string{".go"})
	assert.ElementsMatch(t, []string{"a.go"}, cs.AllPaths())
}

func TestSelect_FullScanFallbackWhenNoBaseline(t *testing.T) {
	t.Setenv("GITHUB_BASE_REF", "")
	t.Setenv("CI_MERGE_REQUEST_TARGET_BRANCH_NAME", "")
	t.Setenv("SYSTEM_PULLREQUEST_TARGETBRANCH", "")
	t.Setenv("WARDEN_BASELINE_REF", "")

	result, err := Select(Options{ProjectRoot: t.TempDir()}, 42)
	require.NoError(t, err)
	assert.True(t, result.FullScan)
	assert.Equal(t, 42, result.SelectedCount)
	assert.NotEmpty(t, result.FallbackReason)
}

func TestResolveBaseRef_Precedence(t *testing.T) {
	t.Setenv("GITHUB_BASE_REF", "main")
	t.Setenv("CI_MERGE_REQUEST_TARGET_BRANCH_NAME", "develop")
	assert.Equal(t, "origin/main", ResolveBaseRef())

	t.Setenv("GITHUB_BASE_REF", "")
	assert.Equal(t, "origin/develop", ResolveBaseRef())
}
