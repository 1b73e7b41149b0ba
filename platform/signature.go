// Package platform implements the Platform/Setup Detector (C8): it walks a
// search root, scores candidate directories against registered platform
// signatures, and suggests contract/spec frame roles and configuration for
// the projects it finds.
package platform

import "github.com/wardenhq/warden/model"

// ContentPattern is one substring a PlatformSignature looks for inside a
// manifest or entrypoint file.
type ContentPattern struct {
	File    string
	Pattern string
}

// PlatformSignature describes how to recognize one project platform type
// from file presence and file content.
type PlatformSignature struct {
	PlatformType string

	// Files that, if present at the candidate directory, count as evidence.
	PresenceFiles []string

	// Content patterns checked against files that exist.
	ContentPatterns []ContentPattern

	// WeightMultiplier scales the combined score; platforms detected from
	// thin evidence (a single config file) should carry a multiplier below
	// 1.0 to avoid outranking platforms with richer signatures.
	WeightMultiplier float64

	// ExclusionFiles, if any is present, zero out this signature's score for
	// the candidate directory (e.g. a `vendor/` checkout of another
	// platform's framework).
	ExclusionFiles []string

	// DefaultRole is the role suggested when this signature alone matches.
	DefaultRole model.ProjectRole

	// BFFAPIDirs are subdirectories whose presence upgrades DefaultRole to
	// RoleBoth (backend-for-frontend patterns like Next.js `/api` or Nuxt
	// `/server`).
	BFFAPIDirs []string
}

const (
	presenceWeight = 0.4
	contentWeight  = 0.6
)

// Registry returns the built-in platform signatures.
func Registry() []PlatformSignature {
	return []PlatformSignature{
		{
			PlatformType:     "react-native",
			PresenceFiles:    []string{"app.json", "metro.config.js"},
			ContentPatterns:  []ContentPattern{{File: "package.json", Pattern: "react-native"}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleConsumer,
		},
		{
			PlatformType:     "flutter",
			PresenceFiles:    []string{"pubspec.yaml"},
			ContentPatterns:  []ContentPattern{{File: "pubspec.yaml", Pattern: "flutter:"}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleConsumer,
		},
		{
			PlatformType:     "nextjs",
			PresenceFiles:    []string{"next.config.js", "next.config.mjs", "next.config.ts"},
			ContentPatterns:  []ContentPattern{{File: "package.json", Pattern: "\"next\""}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleConsumer,
			BFFAPIDirs:       []string{"pages/api", "app/api"},
		},
		{
			PlatformType:     "nuxt",
			PresenceFiles:    []string{"nuxt.config.js", "nuxt.config.ts"},
			ContentPatterns:  []ContentPattern{{File: "package.json", Pattern: "\"nuxt\""}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleConsumer,
			BFFAPIDirs:       []string{"server"},
		},
		{
			PlatformType:     "frontend-spa",
			PresenceFiles:    []string{"index.html", "vite.config.js", "vite.config.ts"},
			ContentPatterns:  []ContentPattern{{File: "package.json", Pattern: "\"react\""}, {File: "package.json", Pattern: "\"vue\""}},
			WeightMultiplier: 0.8,
			DefaultRole:      model.RoleConsumer,
		},
		{
			PlatformType:     "django",
			PresenceFiles:    []string{"manage.py"},
			ContentPatterns:  []ContentPattern{{File: "requirements.txt", Pattern: "Django"}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleProvider,
		},
		{
			PlatformType:     "rails",
			PresenceFiles:    []string{"config.ru", "Gemfile"},
			ContentPatterns:  []ContentPattern{{File: "Gemfile", Pattern: "rails"}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleProvider,
		},
		{
			PlatformType:     "spring-boot",
			PresenceFiles:    []string{"pom.xml", "build.gradle"},
			ContentPatterns:  []ContentPattern{{File: "pom.xml", Pattern: "spring-boot"}, {File: "build.gradle", Pattern: "org.springframework.boot"}},
			WeightMultiplier: 1.0,
			DefaultRole:      model.RoleProvider,
		},
		{
			PlatformType:     "express",
			PresenceFiles:    []string{"package.json"},
			ContentPatterns:  []ContentPattern{{File: "package.json", Pattern: "\"express\""}},
			WeightMultiplier: 0.9,
			DefaultRole:      model.RoleProvider,
			ExclusionFiles:   []string{"next.config.js", "nuxt.config.js"},
		},
		{
			PlatformType:     "go-service",
			PresenceFiles:    []string{"go.mod"},
			ContentPatterns:  []ContentPattern{{File: "go.mod", Pattern: "module "}},
			WeightMultiplier: 0.85,
			DefaultRole:      model.RoleProvider,
		},
	}
}
