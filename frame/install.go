package frame

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// InstalledManifest is the manifest an installed frame package provides:
// enough metadata for the loader to register it without executing any of
// its code ahead of time.
type InstalledManifest struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	EntryPoint  string   `yaml:"entry_point" json:"entry_point"`
	BundledRules []string `yaml:"bundled_rules" json:"bundled_rules"`
	Priority    string   `yaml:"priority" json:"priority"`
	IsBlocker   bool     `yaml:"is_blocker" json:"is_blocker"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// manifestFileName is the file every installed frame package directory
// must carry at its root.
const manifestFileName = "frame.yaml"

// ScanInstalled walks installDir one level deep: every immediate
// subdirectory containing a frame.yaml (or frame.json) is treated as one
// installed frame package.
func ScanInstalled(installDir string) ([]InstalledManifest, error) {
	entries, err := os.ReadDir(installDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read install dir %s: %w", installDir, err)
	}

	var manifests []InstalledManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkgDir := filepath.Join(installDir, entry.Name())
		manifest, ok, err := readManifest(pkgDir)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", entry.Name(), err)
		}
		if ok {
			manifests = append(manifests, manifest)
		}
	}
	return manifests, nil
}

func readManifest(pkgDir string) (InstalledManifest, bool, error) {
	yamlPath := filepath.Join(pkgDir, manifestFileName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		var m InstalledManifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return m, false, err
		}
		return m, true, nil
	}

	jsonPath := filepath.Join(pkgDir, "frame.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		var m InstalledManifest
		if err := json.Unmarshal(data, &m); err != nil {
			return m, false, err
		}
		return m, true, nil
	}

	return InstalledManifest{}, false, nil
}
