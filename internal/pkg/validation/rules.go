package validation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Student identifier pattern - lowercase letters, digits, underscore, hyphen.
	// Identifiers double as workspace directory names, so they must be
	// filesystem-safe path components.
	IdentifierPattern = `^[a-z0-9_-]{1,64}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Identifier *regexp.Regexp
}{
	Identifier: regexp.MustCompile(IdentifierPattern),
}

// IsValidIdentifier reports whether a student identifier is acceptable.
func IsValidIdentifier(identifier string) bool {
	return CompiledPatterns.Identifier.MatchString(identifier)
}

// SanitizeFilename reduces a client-supplied filename to a safe base name.
// Returns an empty string when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// Strip any client path components, forward or backward slashes alike.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return ""
	}

	return name
}
