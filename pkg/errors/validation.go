package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// coordinateRegex matches Maven groupIds, artifactIds and Gradle plugin ids.
var coordinateRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// ValidateCoordinate validates one Maven coordinate component (groupId,
// artifactId or plugin id) before it is used to build a repository URL.
//
// The validation rules are intentionally conservative:
//   - No empty components
//   - No control characters
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 256 characters
func ValidateCoordinate(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}

	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", kind)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	if !coordinateRegex.MatchString(value) {
		return New(ErrCodeInvalidCoordinate, "invalid %s: %q", kind, value)
	}

	return nil
}

// ValidateURL validates a repository URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
