package formats

import (
	"unusedvar/internal/engine/unused"

	"gopkg.in/yaml.v3"
)

type yamlFinding struct {
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
	Line  int    `yaml:"line"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
}

// GenerateYAML renders findings as a top-level list with 1-based lines and
// 0-based columns, the same convention as the TSV report.
func GenerateYAML(projectRoot string, findings []unused.Finding) ([]byte, error) {
	rows := make([]yamlFinding, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, yamlFinding{
			Path:  relativeURI(projectRoot, f.Path),
			Name:  f.Name,
			Line:  f.Line + 1,
			Start: f.StartColumn,
			End:   f.EndColumn,
		})
	}
	return yaml.Marshal(rows)
}
