package lexer

import "sort"

// keywords is the C89 reserved word set. Built once, read-only afterwards.
var keywords = newSet(
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"int", "long", "register", "return", "short", "signed", "sizeof", "static",
	"struct", "switch", "typedef", "union", "unsigned", "void", "volatile", "while",
)

// directives is the set of directive names the scanner and the directive
// checker know about. Only some of them take a secondary token.
var directives = newSet(
	"include", "define", "undef", "ifdef", "ifndef", "endif",
	"if", "elif", "else", "line", "error", "pragma",
)

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// IsKeyword reports whether word is a C reserved word. Case-sensitive.
func IsKeyword(word string) bool {
	return keywords.has(word)
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return keywords.sorted()
}

// IsDirective reports whether name (without the leading '#') is a known
// preprocessor directive.
func IsDirective(name string) bool {
	return directives.has(name)
}

// Directives returns the known directive names in sorted order.
func Directives() []string {
	return directives.sorted()
}
