// Package unused flags C++ variables that are declared but never referenced.
//
// Detection is line oriented. Declarations are found with three patterns
// (parameters, for-loop induction variables and plain variables), usages are
// every other identifier occurrence, and plain variables absent from the
// usage set are reported. There is no scoping: a name is declared once per
// document, by its first sighting.
package unused

import "strings"

type Options struct {
	// ExtraKeywords are treated like built-in keywords: never declared, never
	// counted as usages.
	ExtraKeywords []string
}

// Detector is immutable after construction and safe for concurrent use.
type Detector struct {
	keywords keywordSet
}

func NewDetector(opts Options) *Detector {
	return &Detector{keywords: newKeywordSet(opts.ExtraKeywords)}
}

var defaultDetector = NewDetector(Options{})

// Scan runs the default detector over text.
func Scan(text string) []Highlight {
	return defaultDetector.Scan(text)
}

// Scan returns one Highlight per unused plain variable, in order of first
// declaration. It never fails; unrecognised input yields an empty result.
func (d *Detector) Scan(text string) []Highlight {
	return d.Analyze(text).Highlights()
}

func (d *Detector) Analyze(text string) Analysis {
	lines := strings.Split(text, "\n")
	decls := d.collectDeclarations(lines)
	usages := d.collectUsages(lines, decls)

	unusedDecls := make([]Declaration, 0)
	for _, decl := range decls.order {
		if decl.Kind != KindVariable || usages[decl.Name] {
			continue
		}
		unusedDecls = append(unusedDecls, decl)
	}

	return Analysis{
		Declarations: decls.order,
		Usages:       usages,
		Unused:       unusedDecls,
	}
}
