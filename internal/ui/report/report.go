package report

import (
	"fmt"
	"strings"
	"time"

	"unusedvar/internal/core/errors"
	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/version"
	"unusedvar/internal/ui/report/formats"
)

const (
	FormatText     = "text"
	FormatSARIF    = "sarif"
	FormatTSV      = "tsv"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Data is everything a report needs about one scan.
type Data struct {
	ProjectName  string
	ProjectRoot  string
	FileCount    int
	Declarations int
	Findings     []unused.Finding
	GeneratedAt  time.Time
}

// Formats lists the accepted values for Render.
func Formats() []string {
	return []string{FormatText, FormatSARIF, FormatTSV, FormatMarkdown, FormatYAML}
}

// Render produces data in format. Unknown formats yield a VALIDATION_ERROR.
func Render(format string, data Data) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return []byte(RenderText(data)), nil
	case FormatSARIF:
		return formats.GenerateSARIF(data.ProjectRoot, data.Findings)
	case FormatTSV:
		return []byte(formats.GenerateTSV(data.ProjectRoot, data.Findings)), nil
	case FormatMarkdown:
		return []byte(formats.GenerateMarkdown(formats.MarkdownReportData{
			TotalFiles:        data.FileCount,
			TotalDeclarations: data.Declarations,
			Findings:          data.Findings,
		}, formats.MarkdownReportOptions{
			ProjectName: data.ProjectName,
			ProjectRoot: data.ProjectRoot,
			Version:     version.Version,
			GeneratedAt: data.GeneratedAt,
		})), nil
	case FormatYAML:
		return formats.GenerateYAML(data.ProjectRoot, data.Findings)
	default:
		return nil, errors.Newf(errors.CodeValidationError, "unknown report format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// RenderText prints one compiler-style line per finding, 1-based, followed
// by a summary line.
func RenderText(data Data) string {
	var b strings.Builder
	for _, f := range data.Findings {
		b.WriteString(fmt.Sprintf("%s:%d:%d: unused variable '%s'\n", f.Path, f.Line+1, f.StartColumn+1, f.Name))
	}
	b.WriteString(fmt.Sprintf("%d unused variable(s) in %d file(s)\n", len(data.Findings), data.FileCount))
	return b.String()
}
