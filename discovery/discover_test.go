package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/model"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscover_ClassifiesAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "go.mod", "module example\n\ngo 1.25\n")
	writeFile(t, root, "node_modules/dep/index.js", "console.log(1)")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")

	result, err := Discover(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "go.mod")
	assert.NotContains(t, paths, "node_modules/dep/index.js")
	assert.Equal(t, "go", result.Framework.Primary)
}

func TestDiscover_HonorsWardenignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package main\n")
	writeFile(t, root, "generated/skip.go", "package generated\n")
	writeFile(t, root, ".wardenignore", "generated/\n")

	result, err := Discover(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "keep.go")
	assert.NotContains(t, paths, "generated/skip.go")
}

func TestDiscover_UnreadableSubdirIsSkippedNotFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.go", "package main\n")
	badDir := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	writeFile(t, badDir, "x.go", "package locked\n")
	require.NoError(t, os.Chmod(badDir, 0o000))
	defer os.Chmod(badDir, 0o755)

	result, err := Discover(root, DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Files)
}

func TestClassify_OversizeFileNotAnalyzable(t *testing.T) {
	df := Classify("big.go", 11*1024*1024)
	assert.Equal(t, model.FileTypeGo, df.Type)
	assert.False(t, df.IsAnalyzable)
}

func TestClassify_BinaryFile(t *testing.T) {
	df := Classify("logo.png", 1024)
	assert.Equal(t, model.FileTypeBinary, df.Type)
	assert.False(t, df.IsAnalyzable)
}
