package formats

import (
	"fmt"
	"strings"
	"time"

	"unusedvar/internal/engine/unused"
)

type MarkdownReportData struct {
	TotalFiles        int
	TotalDeclarations int
	Findings          []unused.Finding
}

type MarkdownReportOptions struct {
	ProjectName string
	ProjectRoot string
	Version     string
	GeneratedAt time.Time
}

// GenerateMarkdown renders a summary table followed by one row per finding,
// grouped in the order given.
func GenerateMarkdown(data MarkdownReportData, opts MarkdownReportOptions) string {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Unused Variable Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Unused Variable Report\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", data.TotalFiles))
	b.WriteString(fmt.Sprintf("| Declarations | %d |\n", data.TotalDeclarations))
	b.WriteString(fmt.Sprintf("| Unused Variables | %d |\n\n", len(data.Findings)))

	b.WriteString("## Unused Variables\n")
	if len(data.Findings) == 0 {
		b.WriteString("No unused variables found.\n")
		return b.String()
	}
	b.WriteString("| File | Line | Column | Name |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, f := range data.Findings {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | `%s` |\n",
			escapeCell(relativeURI(opts.ProjectRoot, f.Path)),
			f.Line+1,
			f.StartColumn+1,
			f.Name,
		))
	}
	return b.String()
}
