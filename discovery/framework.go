package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden/model"
)

// manifestSignature maps a manifest file name to the framework(s) it
// implies, with the dependency substrings (content patterns) to look for
// inside it. An empty Needles list means presence alone is sufficient.
type manifestSignature struct {
	File      string
	Framework string
	Needles   []string
}

var manifestSignatures = []manifestSignature{
	{File: "go.mod", Framework: "go"},
	{File: "package.json", Framework: "node", Needles: nil},
	{File: "requirements.txt", Framework: "python"},
	{File: "pyproject.toml", Framework: "python"},
	{File: "pom.xml", Framework: "java-maven"},
	{File: "build.gradle", Framework: "java-gradle"},
	{File: "Gemfile", Framework: "ruby"},
	{File: "Cargo.toml", Framework: "rust"},
}

// npmFrameworkNeedles maps a package.json dependency substring to a more
// specific framework name, checked when package.json is present.
var npmFrameworkNeedles = []manifestSignature{
	{Framework: "react", Needles: []string{"\"react\""}},
	{Framework: "next.js", Needles: []string{"\"next\""}},
	{Framework: "vue", Needles: []string{"\"vue\""}},
	{Framework: "nuxt", Needles: []string{"\"nuxt\""}},
	{Framework: "express", Needles: []string{"\"express\""}},
}

// DetectFramework scans manifest files at the project root (and one level
// down) to find the primary framework and a confidence score, per §4.1.
func DetectFramework(root string, files []model.DiscoveredFile) model.FrameworkDetectionResult {
	detected := make(map[string]float64)

	for _, sig := range manifestSignatures {
		p := filepath.Join(root, sig.File)
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		detected[sig.Framework] = 0.9

		if sig.File == "package.json" {
			text := string(content)
			for _, npmSig := range npmFrameworkNeedles {
				for _, needle := range npmSig.Needles {
					if strings.Contains(text, needle) {
						detected[npmSig.Framework] = 0.85
					}
				}
			}
		}
	}

	if len(detected) == 0 {
		return model.FrameworkDetectionResult{}
	}

	primary, confidence := "", 0.0
	for fw, c := range detected {
		if c > confidence || (c == confidence && fw < primary) {
			primary, confidence = fw, c
		}
	}

	return model.FrameworkDetectionResult{
		Primary:     primary,
		Confidence:  confidence,
		AllDetected: detected,
	}
}
