package unused

// Kind is the syntactic role a declaration was recorded under.
type Kind string

const (
	KindParameter    Kind = "param"
	KindLoopVariable Kind = "for"
	KindVariable     Kind = "variable"
)

// Declaration is the first sighting of a name. Line and columns are 0-based,
// End is exclusive and text[Line][Start:End] == Name. The UTF16 columns are
// the same span counted in UTF-16 code units.
type Declaration struct {
	Name       string
	Line       int
	Start      int
	End        int
	StartUTF16 int
	EndUTF16   int
	Kind       Kind
}

func (d Declaration) contains(line, col int) bool {
	return d.Line == line && col >= d.Start && col < d.End
}

// Highlight marks an unused variable for annotation. Columns are byte offsets
// into the line, end exclusive.
type Highlight struct {
	Line        int `json:"line" yaml:"line"`
	StartColumn int `json:"start_column" yaml:"start_column"`
	EndColumn   int `json:"end_column" yaml:"end_column"`
}

// Analysis exposes the intermediate collections of one scan.
type Analysis struct {
	Declarations []Declaration
	Usages       map[string]bool
	Unused       []Declaration
}

// Highlights converts the unused declarations into spans, preserving order.
func (a Analysis) Highlights() []Highlight {
	out := make([]Highlight, 0, len(a.Unused))
	for _, decl := range a.Unused {
		out = append(out, Highlight{Line: decl.Line, StartColumn: decl.Start, EndColumn: decl.End})
	}
	return out
}
