package formats

import (
	"path/filepath"
	"strings"

	"unusedvar/internal/engine/unused"
)

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil && !strings.HasPrefix(rel, "..") {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

// utf16Columns returns the 0-based span of f in UTF-16 code units, the
// default SARIF column kind. Findings built without source text keep their
// byte columns.
func utf16Columns(f unused.Finding) (int, int) {
	if f.EndUTF16 > 0 {
		return f.StartUTF16, f.EndUTF16
	}
	return f.StartColumn, f.EndColumn
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
