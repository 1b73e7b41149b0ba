package framepkg

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Installer downloads, verifies, and extracts frame bundles into a local
// install directory, backed by a Cache to avoid redundant downloads.
type Installer struct {
	config     *DownloadConfig
	cache      *Cache
	httpClient *http.Client
}

// NewInstaller builds an Installer from config.
func NewInstaller(config *DownloadConfig) (*Installer, error) {
	cache, err := NewCache(config.CacheDir)
	if err != nil {
		return nil, err
	}
	return &Installer{
		config:     config,
		cache:      cache,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

// LoadManifest fetches the category manifest describing installable bundles.
func (inst *Installer) LoadManifest(ctx context.Context, category string) (*Manifest, error) {
	url := fmt.Sprintf("%s/%s/manifest.json", inst.config.BaseURL, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create manifest request: %w", err)
	}

	resp, err := inst.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	manifest.Category = category
	return &manifest, nil
}

// Install downloads and caches the bundle named by spec, returning the
// extracted path. A cache hit short-circuits the network entirely.
func (inst *Installer) Install(ctx context.Context, spec PackageSpec, bundle *BundleInfo) (string, error) {
	if cached, err := inst.cache.Get(spec, bundle.Checksum); err == nil {
		return cached, nil
	}
	return inst.downloadAndCache(ctx, spec, bundle)
}

func (inst *Installer) downloadAndCache(ctx context.Context, spec PackageSpec, bundle *BundleInfo) (string, error) {
	zipPath, err := inst.downloadZip(ctx, bundle.DownloadURL, bundle.ZipSize)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer os.Remove(zipPath)

	if err := VerifyChecksum(zipPath, bundle.Checksum); err != nil {
		return "", fmt.Errorf("checksum verification failed: %w", err)
	}

	extractPath := filepath.Join(inst.config.CacheDir, spec.Category, spec.Bundle)
	if err := os.MkdirAll(extractPath, 0o755); err != nil {
		return "", err
	}

	if _, err := extractZip(zipPath, extractPath); err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}

	if err := inst.cache.Set(spec, extractPath, bundle.Checksum, inst.config.CacheTTL); err != nil {
		return "", fmt.Errorf("cache save failed: %w", err)
	}

	return extractPath, nil
}

func (inst *Installer) downloadZip(ctx context.Context, url string, expectedSize int64) (string, error) {
	tempFile, err := os.CreateTemp("", "framepkg-*.zip")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	var lastErr error
	for attempt := 0; attempt < inst.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second * time.Duration(attempt)):
			}
		}

		written, err := inst.attemptDownload(ctx, url, tempFile)
		if err != nil {
			lastErr = err
			continue
		}
		if expectedSize > 0 && written != expectedSize {
			lastErr = fmt.Errorf("size mismatch: expected %d, got %d", expectedSize, written)
			continue
		}
		return tempFile.Name(), nil
	}

	return "", fmt.Errorf("download failed after %d attempts: %w", inst.config.RetryAttempts, lastErr)
}

func (inst *Installer) attemptDownload(ctx context.Context, url string, dst *os.File) (int64, error) {
	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if err := dst.Truncate(0); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := inst.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return io.Copy(dst, resp.Body)
}

// extractZip extracts every entry of zipPath into destDir, rejecting any
// entry that would escape destDir (zip-slip).
func extractZip(zipPath, destDir string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if err := extractFile(f, destDir); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func extractFile(f *zip.File, destDir string) error {
	path := filepath.Join(destDir, f.Name)

	cleanDest := filepath.Clean(destDir)
	cleanPath := filepath.Clean(path)
	relPath, err := filepath.Rel(cleanDest, cleanPath)
	if err != nil || relPath == ".." || len(relPath) >= 2 && relPath[0:2] == ".." || filepath.IsAbs(relPath) {
		return fmt.Errorf("illegal file path in bundle: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(path, f.Mode())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}
