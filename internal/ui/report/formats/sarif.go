package formats

import (
	"encoding/json"
	"fmt"

	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnusedVariable = "UVAR001"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

// Regions are 1-based with columns in UTF-16 code units; EndColumn is
// exclusive like the highlight it came from.
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndColumn   int `json:"endColumn"`
}

// GenerateSARIF builds a SARIF v2.1.0 document with one UVAR001 result per
// finding. File URIs are made relative to projectRoot.
func GenerateSARIF(projectRoot string, findings []unused.Finding) ([]byte, error) {
	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		startCol, endCol := utf16Columns(f)
		results = append(results, sarifResult{
			RuleID:  ruleIDUnusedVariable,
			Level:   "warning",
			Message: sarifMessage{Text: fmt.Sprintf("Variable %q is declared but never used.", f.Name)},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, f.Path),
						URIBaseID: "%SRCROOT%",
					},
					Region: &sarifRegion{
						StartLine:   f.Line + 1,
						StartColumn: startCol + 1,
						EndColumn:   endCol + 1,
					},
				},
			}},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "unusedvar",
						Version: version.Version,
						Rules: []sarifRule{{
							ID:               ruleIDUnusedVariable,
							Name:             "UnusedVariable",
							ShortDescription: sarifMessage{Text: "A local variable is declared but never referenced."},
							DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
						}},
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}
