// Package framepkg fetches, caches, and verifies third-party frame
// bundles, and maintains warden.lock — the content-hash lockfile that
// makes `warden install` idempotent.
package framepkg

import "time"

// PackageSpec identifies a frame bundle to install, e.g. "security/secrets".
type PackageSpec struct {
	Category string
	Bundle   string
}

// String renders the spec back to its "category/bundle" form.
func (s PackageSpec) String() string {
	return s.Category + "/" + s.Bundle
}

// BundleInfo is one entry of a remote manifest describing an installable
// frame bundle.
type BundleInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Recommended bool     `json:"recommended"`
	Tags        []string `json:"tags"`
	FileCount   int      `json:"file_count,omitempty"`
	ZipSize     int64    `json:"zip_size,omitempty"`
	Checksum    string   `json:"checksum,omitempty"`
	DownloadURL string   `json:"download_url,omitempty"`
}

// Manifest is the remote manifest one category publishes.
type Manifest struct {
	Category string                 `json:"category,omitempty"`
	Bundles  map[string]*BundleInfo `json:"bundles"`
}

// GetBundle looks up a bundle by name.
func (m *Manifest) GetBundle(name string) (*BundleInfo, bool) {
	b, ok := m.Bundles[name]
	return b, ok
}

// CacheEntry tracks one cached, extracted bundle.
type CacheEntry struct {
	Spec      PackageSpec `json:"spec"`
	Path      string      `json:"path"`
	Checksum  string      `json:"checksum"`
	CachedAt  time.Time   `json:"cached_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// DownloadConfig configures the Installer.
type DownloadConfig struct {
	BaseURL       string
	CacheDir      string
	CacheTTL      time.Duration
	HTTPTimeout   time.Duration
	RetryAttempts int
}

// LockEntry is one frame package's pinned state in warden.lock.
type LockEntry struct {
	Spec      string `json:"spec"`
	Checksum  string `json:"checksum"`
	Version   string `json:"version,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// Lockfile is the parsed form of warden.lock.
type Lockfile struct {
	Version  int                  `json:"version"`
	Packages map[string]LockEntry `json:"packages"`
}
