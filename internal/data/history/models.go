package history

import "time"

const SchemaVersion = 2

// Run is one recorded scan of a project.
type Run struct {
	ID               string
	ProjectKey       string
	Timestamp        time.Time
	FileCount        int
	DeclarationCount int
	UnusedCount      int
	Findings         []Finding
}

// Finding is an unused variable as stored. Line and columns are 0-based.
type Finding struct {
	Path     string
	Name     string
	Line     int
	StartCol int
	EndCol   int
}

type TrendPoint struct {
	RunID            string    `json:"run_id"`
	Timestamp        time.Time `json:"timestamp"`
	FileCount        int       `json:"file_count"`
	DeclarationCount int       `json:"declaration_count"`
	UnusedCount      int       `json:"unused_count"`
	DeltaFiles       int       `json:"delta_files"`
	DeltaUnused      int       `json:"delta_unused"`
	AvgUnused        float64   `json:"avg_unused"`
	WindowHours      float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
