package lexer

import (
	"strings"

	"clexer/internal/source"
)

// readQuoted reads a string or character literal closed by delim. The
// lexeme is the raw interior: escapes are kept as written.
func readQuoted(st ScanState, delim rune) (ScanState, step) {
	start := st.Pos()
	st = st.advance()

	var sb strings.Builder
	for {
		ch, ok := st.current()
		switch {
		case !ok:
			return st, unterminatedLiteral(start, st.Pos(), sb.String())
		case ch == delim:
			return st.advance(), step{}.emit(tokenAt(STRING_TOKEN, sb.String(), start))
		case ch == '\\':
			// a backslash always takes the next character with it
			st = st.take(&sb)
			if !st.atEnd() {
				st = st.take(&sb)
			}
		case ch == '\n':
			end := st.Pos()
			return st.advance(), unterminatedLiteral(start, end, sb.String())
		default:
			st = st.take(&sb)
		}
	}
}

func unterminatedLiteral(start, end source.Position, text string) step {
	return step{}.
		report(problem(UnterminatedLiteral, start, end, "unterminated literal")).
		emit(tokenAt(ERROR_TOKEN, text, start))
}
