// internal/validation/validation.go
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedInputFormats defines the containers the pipeline accepts.
// Digitized tape captures arrive as AVI most of the time.
var SupportedInputFormats = []string{".avi", ".mp4", ".mkv", ".mov"}

// CleanInputPath trims whitespace and surrounding quotes (file managers add
// them when paths are dragged into a terminal).
func CleanInputPath(input string) string {
	cleaned := strings.TrimSpace(input)
	if len(cleaned) >= 2 {
		if (cleaned[0] == '\'' && cleaned[len(cleaned)-1] == '\'') ||
			(cleaned[0] == '"' && cleaned[len(cleaned)-1] == '"') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}
	return strings.TrimSpace(cleaned)
}

// ValidateInputPath checks that input names an existing, regular video file
// in a supported container, and returns its absolute path.
func ValidateInputPath(input string) (string, error) {
	cleaned := CleanInputPath(input)
	if cleaned == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid path: %v", err)
	}

	fi, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", abs)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access file: %v", err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", abs)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	for _, supported := range SupportedInputFormats {
		if ext == supported {
			return abs, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (supported: %s)", ext, strings.Join(SupportedInputFormats, ", "))
}
