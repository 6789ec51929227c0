package unused

var defaultKeywords = []string{
	"int", "float", "double", "char", "bool", "string", "void",
	"long", "short", "unsigned", "signed", "const", "static",
	"if", "else", "for", "while", "do", "switch", "case", "break",
	"continue", "return", "true", "false", "null", "nullptr",
	"class", "struct", "public", "private", "protected",
	"namespace", "using", "include", "define", "auto",
	"main", "cout", "cin", "endl", "std", "swap", "array",
	"vector", "map", "set", "list", "queue", "stack",
	"printf", "scanf", "iostream", "algorithm",
	"size", "push", "pop", "begin", "end",
}

type keywordSet map[string]struct{}

func newKeywordSet(extra []string) keywordSet {
	set := make(keywordSet, len(defaultKeywords)+len(extra))
	for _, kw := range defaultKeywords {
		set[kw] = struct{}{}
	}
	for _, kw := range extra {
		if kw == "" {
			continue
		}
		set[kw] = struct{}{}
	}
	return set
}

func (k keywordSet) has(name string) bool {
	_, ok := k[name]
	return ok
}

// Keywords returns a copy of the built-in keyword list.
func Keywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}
