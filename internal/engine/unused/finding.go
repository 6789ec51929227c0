package unused

// Finding binds an unused variable's Highlight to the file it was found in.
type Finding struct {
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Highlight `yaml:",inline"`

	// Span in UTF-16 code units, for consumers that count columns that way.
	// Zero when the finding was built without source text.
	StartUTF16 int `json:"-" yaml:"-"`
	EndUTF16   int `json:"-" yaml:"-"`
}

// Findings converts the unused declarations of a into path-bound findings.
func (a Analysis) Findings(path string) []Finding {
	out := make([]Finding, 0, len(a.Unused))
	for _, decl := range a.Unused {
		out = append(out, Finding{
			Path:       path,
			Name:       decl.Name,
			Highlight:  Highlight{Line: decl.Line, StartColumn: decl.Start, EndColumn: decl.End},
			StartUTF16: decl.StartUTF16,
			EndUTF16:   decl.EndUTF16,
		})
	}
	return out
}
