package lexer

import "strings"

// dispatch inspects the current character and runs exactly one reader.
// Every branch consumes at least one character or emits EOF.
func dispatch(st ScanState, d Dialect) (ScanState, step) {
	ch, ok := st.current()
	if !ok {
		return readEnd(st)
	}

	switch {
	case ch == '#' && st.atLineStart():
		return readDirective(st)
	case ch == '/':
		return readSlash(st)
	case ch == '"', ch == '\'':
		return readQuoted(st, ch)
	case isSpace(ch):
		return st.skipWhile(isSpace), step{}
	case isIdentStart(ch):
		return readIdentifier(st)
	case isDigit(ch):
		return readNumber(st, d)
	}

	if kind, ok := classify(ch, d); ok {
		start := st.Pos()
		return st.advance(), step{}.emit(tokenAt(kind, string(ch), start))
	}
	return readIllegal(st)
}

func readEnd(st ScanState) (ScanState, step) {
	var out step
	if err := st.text.Err(); err != nil {
		out = out.report(problem(UnreadableSource, st.pos, st.pos, "unreadable source: %v", err))
	}
	return st, out.emit(tokenAt(EOF_TOKEN, "", st.pos))
}

// readSlash handles '/', which opens a comment or is the division operator.
func readSlash(st ScanState) (ScanState, step) {
	start := st.Pos()
	next, _ := st.peek()
	switch next {
	case '/':
		return st.skipWhile(func(c rune) bool { return c != '\n' }), step{}
	case '*':
		return skipBlockComment(st)
	}
	return st.advance(), step{}.emit(tokenAt(OPERATOR_TOKEN, "/", start))
}

func skipBlockComment(st ScanState) (ScanState, step) {
	start := st.Pos()
	st = st.advance().advance()
	for !st.atEnd() {
		if st.is('*') {
			if next, ok := st.peek(); ok && next == '/' {
				return st.advance().advance(), step{}
			}
		}
		st = st.advance()
	}
	return st, step{}.report(problem(UnterminatedComment, start, st.Pos(), "unterminated comment"))
}

func readIdentifier(st ScanState) (ScanState, step) {
	start := st.Pos()
	var sb strings.Builder
	st = st.takeWhile(&sb, isIdentPart)

	word := sb.String()
	kind := IDENTIFIER_TOKEN
	if IsKeyword(word) {
		kind = KEYWORD_TOKEN
	}
	return st, step{}.emit(tokenAt(kind, word, start))
}

// readNumber reads digits with at most one fractional part. Anything that
// is neither digit nor dot ends the number and is left for dispatch.
func readNumber(st ScanState, d Dialect) (ScanState, step) {
	start := st.Pos()
	var sb strings.Builder
	st = st.takeWhile(&sb, isDigit)

	if st.is('.') {
		next, ok := st.peek()
		switch {
		case ok && isDigit(next):
			st = st.take(&sb)
			st = st.takeWhile(&sb, isDigit)
		case d.KeepTrailingDot:
			st = st.take(&sb)
		}
	}
	return st, step{}.emit(tokenAt(NUMBER_TOKEN, sb.String(), start))
}

func readIllegal(st ScanState) (ScanState, step) {
	ch, _ := st.current()
	start := st.Pos()
	st = st.advance()
	return st, step{}.
		report(problem(IllegalCharacter, start, st.Pos(), "illegal character: %c", ch)).
		emit(tokenAt(ERROR_TOKEN, string(ch), start))
}
