package unused

import "strings"

type declarationSet struct {
	order  []Declaration
	byName map[string]int
}

func newDeclarationSet() *declarationSet {
	return &declarationSet{byName: make(map[string]int)}
}

func (s *declarationSet) lookup(name string) (Declaration, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Declaration{}, false
	}
	return s.order[idx], true
}

// add records decl unless its name was seen before. First writer wins.
func (s *declarationSet) add(decl Declaration) bool {
	if _, exists := s.byName[decl.Name]; exists {
		return false
	}
	s.byName[decl.Name] = len(s.order)
	s.order = append(s.order, decl)
	return true
}

func (d *Detector) collectDeclarations(lines []string) *declarationSet {
	decls := newDeclarationSet()
	for lineIndex, line := range lines {
		trimmed := trimLine(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			continue
		}

		for _, m := range paramPattern.findAll(line) {
			d.record(decls, line, lineIndex, m, KindParameter)
		}

		if strings.Contains(trimmed, "for") {
			for _, m := range loopPattern.findAll(line) {
				d.record(decls, line, lineIndex, m, KindLoopVariable)
			}
		}

		open := strings.IndexByte(line, '(')
		closing := strings.IndexByte(line, ')')
		for _, m := range variablePattern.findAll(line) {
			if open >= 0 && open < m.offset && closing > m.offset {
				continue
			}
			d.record(decls, line, lineIndex, m, KindVariable)
		}
	}
	return decls
}

func (d *Detector) record(decls *declarationSet, line string, lineIndex int, m declMatch, kind Kind) {
	if d.keywords.has(m.name) {
		return
	}
	startUTF16 := utf16Offset(line, m.nameStart)
	decls.add(Declaration{
		Name:       m.name,
		Line:       lineIndex,
		Start:      m.nameStart,
		End:        m.nameStart + len(m.name),
		StartUTF16: startUTF16,
		EndUTF16:   startUTF16 + len(m.name),
		Kind:       kind,
	})
}

// utf16Offset counts the UTF-16 code units in line[:byteOffset]. Invalid
// bytes count as one unit each, as a decoder replacing them would.
func utf16Offset(line string, byteOffset int) int {
	units := 0
	for _, r := range line[:byteOffset] {
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return units
}
