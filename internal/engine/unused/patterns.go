package unused

import (
	"regexp"
	"strings"
)

// ws mirrors the whitespace class of ECMAScript \s, which is wider than RE2's.
const ws = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

const identExpr = `([a-zA-Z_][a-zA-Z0-9_]*)`

var (
	paramTypes = []string{"int", "float", "double", "char", "bool", "string", "long", "short", "void", "auto"}
	localTypes = []string{"int", "float", "double", "char", "bool", "string", "long", "short", "auto"}
)

var (
	identifierRE   = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
	lineCommentRE  = regexp.MustCompile(`//[^\r\x{2028}\x{2029}]*$`)
	blockCommentRE = regexp.MustCompile(`/\*[^\r\x{2028}\x{2029}]*?\*/`)
)

// declPattern is `\b(type)\s+(ident)\s*` evaluated at each word boundary,
// optionally followed by a one-byte lookahead that is checked but never
// consumed. RE2 has no lookahead, so the check happens after the match.
// Identifier and whitespace bytes are never lookahead bytes, so checking the
// maximal match is equivalent to backtracking into it.
type declPattern struct {
	kind      Kind
	re        *regexp.Regexp
	lookahead string
}

type declMatch struct {
	offset    int
	typeName  string
	name      string
	nameStart int
}

func newDeclPattern(kind Kind, types []string, suffix, lookahead string) declPattern {
	expr := `^(` + strings.Join(types, "|") + `)` + ws + `+` + identExpr + ws + `*` + suffix
	return declPattern{kind: kind, re: regexp.MustCompile(expr), lookahead: lookahead}
}

var (
	paramPattern    = newDeclPattern(KindParameter, paramTypes, "", ",)")
	loopPattern     = newDeclPattern(KindLoopVariable, localTypes, "=", "")
	variablePattern = newDeclPattern(KindVariable, localTypes, "", ";=,")
)

// findAll walks the line like a global exec loop: after a hit the search
// resumes at the end of the consumed text, after a miss at the next byte.
func (p declPattern) findAll(line string) []declMatch {
	var out []declMatch
	for pos := 0; pos < len(line); pos++ {
		if !isTypeStart(line[pos]) || (pos > 0 && isWordByte(line[pos-1])) {
			continue
		}
		loc := p.re.FindStringSubmatchIndex(line[pos:])
		if loc == nil {
			continue
		}
		end := pos + loc[1]
		if p.lookahead != "" {
			if end >= len(line) || strings.IndexByte(p.lookahead, line[end]) < 0 {
				continue
			}
		}
		out = append(out, declMatch{
			offset:    pos,
			typeName:  line[pos+loc[2] : pos+loc[3]],
			name:      line[pos+loc[4] : pos+loc[5]],
			nameStart: pos + loc[4],
		})
		pos = end - 1
	}
	return out
}

func isTypeStart(b byte) bool {
	return strings.IndexByte("ifdcbslva", b) >= 0
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func stripComments(line string) string {
	line = lineCommentRE.ReplaceAllString(line, "")
	return blockCommentRE.ReplaceAllString(line, "")
}

// trimLine trims the same characters as ECMAScript String.prototype.trim.
func trimLine(line string) string {
	return strings.TrimFunc(line, isScriptSpace)
}

func isScriptSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}
