package unused

import "strings"

var usageSkipPrefixes = []string{"#", "using", "//"}

// collectUsages marks every identifier occurrence that is not the recorded
// declaration site of that name. Names without a declaration count as used.
func (d *Detector) collectUsages(lines []string, decls *declarationSet) map[string]bool {
	usages := make(map[string]bool)
	for lineIndex, line := range lines {
		if hasAnyPrefix(trimLine(line), usageSkipPrefixes) {
			continue
		}

		code := stripComments(line)
		for _, loc := range identifierRE.FindAllStringIndex(code, -1) {
			ident := code[loc[0]:loc[1]]
			if d.keywords.has(ident) {
				continue
			}
			if decl, ok := decls.lookup(ident); ok && decl.contains(lineIndex, loc[0]) {
				continue
			}
			usages[ident] = true
		}
	}
	return usages
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
