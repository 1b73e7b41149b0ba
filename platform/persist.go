package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/model"
)

// ConfigPath is the path of the project config relative to a project root.
const ConfigPath = ".warden/config.yaml"

// ToConfigPlatforms converts detected projects into the config.Platform
// entries persisted under the top-level `platforms` key.
func ToConfigPlatforms(projects []model.DetectedProject) []config.Platform {
	out := make([]config.Platform, 0, len(projects))
	for _, p := range projects {
		out = append(out, config.Platform{
			Name: p.Name,
			Path: p.Path,
			Type: p.Platform,
			Role: string(p.Role),
		})
	}
	return out
}

// Persist writes the detected platforms into projectRoot's config.yaml,
// preserving every other top-level key already present. A `.backup` of the
// prior file is written first when one exists; the file is parsed and
// re-emitted only through yaml.v3, which never executes arbitrary tags.
func Persist(projectRoot string, projects []model.DetectedProject) error {
	path := filepath.Join(projectRoot, ConfigPath)

	doc := yaml.Node{}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := backupFile(path, existing); err != nil {
			return fmt.Errorf("backup existing config: %w", err)
		}
		if err := yaml.Unmarshal(existing, &doc); err != nil {
			return fmt.Errorf("parse existing config: %w", err)
		}
	case os.IsNotExist(err):
		// No existing file: start from an empty mapping.
	default:
		return fmt.Errorf("read existing config: %w", err)
	}

	platforms := ToConfigPlatforms(projects)
	platformsNode := &yaml.Node{}
	if err := platformsNode.Encode(platforms); err != nil {
		return fmt.Errorf("encode platforms: %w", err)
	}

	setMappingKey(&doc, "platforms", platformsNode)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

func backupFile(path string, contents []byte) error {
	return os.WriteFile(path+".backup", contents, 0o644)
}

// setMappingKey sets key on a yaml document node, preserving every sibling
// key already present. An empty/absent document becomes a fresh mapping.
func setMappingKey(doc *yaml.Node, key string, value *yaml.Node) {
	if doc.Kind == 0 {
		*doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 {
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc.Content = []*yaml.Node{mapping}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		mapping = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc.Content[0] = mapping
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	mapping.Content = append(mapping.Content, keyNode, value)
}
