package lexer

import (
	"strings"
	"unicode"
)

// readDirective reads '#' at column 0 and the directive name after it, then
// the secondary token the directive takes, if any. The rest of the line is
// left to dispatch.
func readDirective(st ScanState) (ScanState, step) {
	start := st.Pos()
	st = st.advance()
	st = st.skipWhile(isBlank)

	var name strings.Builder
	st = st.takeWhile(&name, unicode.IsLetter)

	out := step{}.emit(tokenAt(PREPROCESSOR_TOKEN, "#"+name.String(), start))
	switch name.String() {
	case "include":
		return readHeaderName(st, out)
	case "define", "undef", "ifdef", "ifndef":
		return readMacroName(st, out)
	}
	return st, out
}

// readHeaderName reads <name> or "name" verbatim, delimiters included.
func readHeaderName(st ScanState, out step) (ScanState, step) {
	st = st.skipWhile(isBlank)
	open, ok := st.current()
	if !ok || (open != '<' && open != '"') {
		return readMalformed(st, out, InvalidIncludeFormat, "invalid include format")
	}

	closer := open
	if open == '<' {
		closer = '>'
	}

	start := st.Pos()
	var sb strings.Builder
	st = st.take(&sb)
	for {
		ch, ok := st.current()
		if !ok || ch == '\n' {
			return st, out.
				report(problem(UnterminatedHeaderName, start, st.Pos(), "unterminated header name")).
				emit(tokenAt(ERROR_TOKEN, sb.String(), start))
		}
		st = st.take(&sb)
		if ch == closer {
			return st, out.emit(tokenAt(HEADER_FILE_TOKEN, sb.String(), start))
		}
	}
}

func readMacroName(st ScanState, out step) (ScanState, step) {
	st = st.skipWhile(isBlank)
	start := st.Pos()

	ch, ok := st.current()
	switch {
	case !ok || ch == '\n':
		return st, out.
			report(problem(MissingMacroName, start, start, "missing macro name")).
			emit(tokenAt(ERROR_TOKEN, "", start))
	case isIdentStart(ch):
		var sb strings.Builder
		st = st.takeWhile(&sb, isIdentPart)
		return st, out.emit(tokenAt(MACRO_NAME_TOKEN, sb.String(), start))
	}
	return readMalformed(st, out, InvalidMacroName, "invalid macro name")
}

// readMalformed turns the run of non-whitespace characters at st into an
// ERROR token. The run may be empty.
func readMalformed(st ScanState, out step, kind ProblemKind, msg string) (ScanState, step) {
	start := st.Pos()
	var sb strings.Builder
	st = st.takeWhile(&sb, func(c rune) bool { return !isSpace(c) })
	return st, out.
		report(problem(kind, start, st.Pos(), "%s", msg)).
		emit(tokenAt(ERROR_TOKEN, sb.String(), start))
}
