package discovery

import (
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden/model"
)

// extensionTypes maps a lowercased file extension (including the dot) to a
// FileType. Anything not listed falls back to FileTypeOther.
var extensionTypes = map[string]model.FileType{
	".go":   model.FileTypeGo,
	".py":   model.FileTypePython,
	".pyi":  model.FileTypePython,
	".js":   model.FileTypeJavaScript,
	".jsx":  model.FileTypeJavaScript,
	".mjs":  model.FileTypeJavaScript,
	".ts":   model.FileTypeTypeScript,
	".tsx":  model.FileTypeTypeScript,
	".java": model.FileTypeJava,
	".rb":   model.FileTypeRuby,
	".yml":  model.FileTypeYAML,
	".yaml": model.FileTypeYAML,
	".json": model.FileTypeJSON,
	".md":   model.FileTypeMarkdown,
	".sh":   model.FileTypeShell,
	".bash": model.FileTypeShell,
}

// binaryExtensions are never content-scanned regardless of size.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".so": true,
	".dll": true, ".exe": true, ".bin": true, ".woff": true, ".woff2": true,
}

// maxAnalyzableBytes is the oversize cutoff from §4.1 — files larger than
// this are listed but not content-scanned.
const maxAnalyzableBytes = 10 * 1024 * 1024

// Classify assigns a FileType and analyzability to a discovered file based
// on its name, extension, and size.
func Classify(path string, sizeBytes int64) model.DiscoveredFile {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	ft := model.FileTypeOther
	if strings.HasPrefix(strings.ToLower(base), "dockerfile") {
		ft = model.FileTypeDockerfile
	} else if binaryExtensions[ext] {
		ft = model.FileTypeBinary
	} else if mapped, ok := extensionTypes[ext]; ok {
		ft = mapped
	}

	analyzable := ft != model.FileTypeBinary && ft != model.FileTypeOther && sizeBytes <= maxAnalyzableBytes

	return model.DiscoveredFile{
		Path:         path,
		Type:         ft,
		IsAnalyzable: analyzable,
		SizeBytes:    sizeBytes,
		Language:     languageFor(ft),
	}
}

func languageFor(ft model.FileType) string {
	switch ft {
	case model.FileTypeGo:
		return "go"
	case model.FileTypePython:
		return "python"
	case model.FileTypeJavaScript:
		return "javascript"
	case model.FileTypeTypeScript:
		return "typescript"
	case model.FileTypeJava:
		return "java"
	case model.FileTypeRuby:
		return "ruby"
	default:
		return ""
	}
}
