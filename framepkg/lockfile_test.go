package framepkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLockfile_MissingFileYieldsEmpty(t *testing.T) {
	root := t.TempDir()
	lock, err := LoadLockfile(root)
	require.NoError(t, err)
	assert.Equal(t, lockfileVersion, lock.Version)
	assert.Empty(t, lock.Packages)
}

func TestLockfile_SaveAndReload(t *testing.T) {
	root := t.TempDir()
	lock, err := LoadLockfile(root)
	require.NoError(t, err)

	lock.Packages["security/secrets"] = LockEntry{Spec: "security/secrets", Checksum: "abc123"}
	require.NoError(t, lock.Save(root))

	assert.FileExists(t, filepath.Join(root, "warden.lock"))

	reloaded, err := LoadLockfile(root)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.Packages["security/secrets"].Checksum)
}

func TestPackageSpec_String(t *testing.T) {
	spec := PackageSpec{Category: "security", Bundle: "secrets"}
	assert.Equal(t, "security/secrets", spec.String())
}

func TestCache_GetSetInvalidate(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	spec := PackageSpec{Category: "security", Bundle: "secrets"}
	extracted := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(extracted, 0o755))

	require.NoError(t, cache.Set(spec, extracted, "cafe", 0))
	_, err = cache.Get(spec, "cafe")
	assert.Error(t, err, "zero TTL entry should already be expired")

	require.NoError(t, cache.Invalidate(spec))
	_, err = cache.Get(spec, "cafe")
	assert.Error(t, err)
}
