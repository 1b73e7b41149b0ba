package framepkg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const lockfileVersion = 1

// LoadLockfile reads warden.lock from projectRoot. A missing file yields an
// empty, initialized Lockfile rather than an error.
func LoadLockfile(projectRoot string) (*Lockfile, error) {
	path := lockPath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Lockfile{Version: lockfileVersion, Packages: map[string]LockEntry{}}, nil
		}
		return nil, err
	}

	var lock Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parse warden.lock: %w", err)
	}
	if lock.Packages == nil {
		lock.Packages = map[string]LockEntry{}
	}
	return &lock, nil
}

// Save writes the lockfile back to projectRoot/warden.lock.
func (l *Lockfile) Save(projectRoot string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(lockPath(projectRoot), data, 0o644)
}

func lockPath(projectRoot string) string {
	return filepath.Join(projectRoot, "warden.lock")
}

// InstallResult reports what InstallAll did with one package.
type InstallResult struct {
	Spec      PackageSpec
	Installed bool // false means the lockfile entry already matched — a no-op.
	Checksum  string
}

// InstallAll installs every spec into installDir, consulting and updating
// the lockfile so repeated runs are idempotent: a package whose checksum
// already matches the lock entry is skipped unless forceUpdate is set.
func InstallAll(ctx context.Context, inst *Installer, lock *Lockfile, specs []PackageSpec, installDir string, forceUpdate bool) ([]InstallResult, error) {
	var results []InstallResult

	manifestCache := map[string]*Manifest{}

	for _, spec := range specs {
		manifest, ok := manifestCache[spec.Category]
		if !ok {
			m, err := inst.LoadManifest(ctx, spec.Category)
			if err != nil {
				return results, fmt.Errorf("load manifest for %s: %w", spec.Category, err)
			}
			manifest = m
			manifestCache[spec.Category] = manifest
		}

		bundle, ok := manifest.GetBundle(spec.Bundle)
		if !ok {
			return results, fmt.Errorf("bundle %s not found in category %s manifest", spec.Bundle, spec.Category)
		}

		existing, locked := lock.Packages[spec.String()]
		if locked && !forceUpdate && existing.Checksum == bundle.Checksum {
			results = append(results, InstallResult{Spec: spec, Installed: false, Checksum: existing.Checksum})
			continue
		}

		extractedPath, err := inst.Install(ctx, spec, bundle)
		if err != nil {
			return results, fmt.Errorf("install %s: %w", spec, err)
		}

		destDir := filepath.Join(installDir, spec.Category+"-"+spec.Bundle)
		if err := copyInstalled(extractedPath, destDir); err != nil {
			return results, fmt.Errorf("place %s into install dir: %w", spec, err)
		}

		lock.Packages[spec.String()] = LockEntry{
			Spec:        spec.String(),
			Checksum:    bundle.Checksum,
			InstalledAt: time.Now(),
		}
		results = append(results, InstallResult{Spec: spec, Installed: true, Checksum: bundle.Checksum})
	}

	return results, nil
}

// copyInstalled replaces destDir's contents with a fresh copy of srcDir's.
func copyInstalled(srcDir, destDir string) error {
	if err := os.RemoveAll(destDir); err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
