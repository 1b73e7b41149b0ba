package builtinframes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

func TestOrphanFrame_FlagsUnreferencedFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go", "package main\n\nfunc main() { helper() }\n")
	writeTestFile(t, root, "helper.go", "package main\n\nfunc helper() {}\n")
	writeTestFile(t, root, "orphaned.go", "package main\n\nfunc unused() {}\n")

	f := NewOrphanFrame()
	batch := frame.Batch{Files: []model.DiscoveredFile{
		{Path: "main.go", IsAnalyzable: true},
		{Path: "helper.go", IsAnalyzable: true},
		{Path: "orphaned.go", IsAnalyzable: true},
	}}
	result, err := f.Execute(context.Background(), batch, frame.Context{ProjectRoot: root})
	require.NoError(t, err)

	var paths []string
	for _, finding := range result.Findings {
		paths = append(paths, finding.FilePath)
	}
	assert.Contains(t, paths, "orphaned.go")
	assert.NotContains(t, paths, "main.go")
	assert.NotContains(t, paths, "helper.go")
}

func TestOrphanFrame_EntrypointsNeverFlagged(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	f := NewOrphanFrame()
	batch := frame.Batch{Files: []model.DiscoveredFile{{Path: "main.go", IsAnalyzable: true}}}
	result, err := f.Execute(context.Background(), batch, frame.Context{ProjectRoot: root})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestOrphanFrame_TestFilesSkipped(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "thing_test.go", "package main\n\nfunc TestThing(t *testing.T) {}\n")

	f := NewOrphanFrame()
	batch := frame.Batch{Files: []model.DiscoveredFile{{Path: "thing_test.go", IsAnalyzable: true}}}
	result, err := f.Execute(context.Background(), batch, frame.Context{ProjectRoot: root})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestOrphanFrame_Metadata(t *testing.T) {
	f := NewOrphanFrame()
	md := f.Metadata()
	assert.Equal(t, "orphan", md.ID)
	assert.False(t, md.IsBlocker)
}
