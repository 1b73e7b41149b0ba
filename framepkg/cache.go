package framepkg

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Cache manages the local on-disk bundle cache.
type Cache struct {
	dir string
}

// NewCache creates (if needed) and returns a Cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached extraction path for spec if present, unexpired,
// and checksum-matching — otherwise an error signaling a cache miss.
func (c *Cache) Get(spec PackageSpec, expectedChecksum string) (string, error) {
	entry, err := c.loadEntry(spec)
	if err != nil {
		return "", err
	}
	if time.Now().After(entry.ExpiresAt) {
		return "", fmt.Errorf("cache entry expired for %s", spec)
	}
	if entry.Checksum != expectedChecksum {
		return "", fmt.Errorf("checksum mismatch for cached %s", spec)
	}
	if _, err := os.Stat(entry.Path); os.IsNotExist(err) {
		return "", fmt.Errorf("cached path missing for %s", spec)
	}
	return entry.Path, nil
}

// Set records a cache entry for spec.
func (c *Cache) Set(spec PackageSpec, extractedPath, checksum string, ttl time.Duration) error {
	entry := &CacheEntry{
		Spec:      spec,
		Path:      extractedPath,
		Checksum:  checksum,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	return c.saveEntry(entry)
}

// Invalidate removes spec's cache entry and extracted directory.
func (c *Cache) Invalidate(spec PackageSpec) error {
	if err := os.Remove(c.entryPath(spec)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.RemoveAll(c.extractedPath(spec))
}

func (c *Cache) entryPath(spec PackageSpec) string {
	return filepath.Join(c.dir, spec.Category, spec.Bundle+".json")
}

func (c *Cache) extractedPath(spec PackageSpec) string {
	return filepath.Join(c.dir, spec.Category, spec.Bundle)
}

func (c *Cache) loadEntry(spec PackageSpec) (*CacheEntry, error) {
	data, err := os.ReadFile(c.entryPath(spec))
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Cache) saveEntry(entry *CacheEntry) error {
	path := c.entryPath(entry.Spec)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// VerifyChecksum computes a file's SHA-256 and compares it to expected.
func VerifyChecksum(filePath, expected string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}

	actual := fmt.Sprintf("%x", h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}
