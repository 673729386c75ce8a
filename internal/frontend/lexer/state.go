package lexer

import (
	"strings"

	"clexer/internal/source"
)

// Dialect settles the two classification choices the scanner leaves open.
type Dialect struct {
	// KeepTrailingDot appends a '.' that follows a digit run but is not
	// followed by a digit to the NUMBER lexeme ("3." stays one token).
	// When false the dot is left for the main loop as a DELIMITER.
	KeepTrailingDot bool
	// AmpPipeAsDelimiters classifies '&' and '|' as DELIMITER instead of
	// OPERATOR.
	AmpPipeAsDelimiters bool
}

// DefaultDialect keeps trailing dots and treats '&' and '|' as operators.
func DefaultDialect() Dialect {
	return Dialect{KeepTrailingDot: true}
}

// ScanState is the whole of the scanner's position in its input: the text
// and the position of the character about to be consumed. It is a value;
// every transition returns a new state.
type ScanState struct {
	text source.Text
	pos  source.Position
}

// NewState starts a scan at the first character of text.
func NewState(text source.Text) ScanState {
	return ScanState{text: text, pos: source.Start()}
}

// Pos is the position of the character about to be consumed.
func (st ScanState) Pos() source.Position {
	return st.pos
}

// current is the character about to be consumed; ok is false at end of input.
func (st ScanState) current() (rune, bool) {
	return st.text.At(st.pos.Offset)
}

// peek looks one character past current.
func (st ScanState) peek() (rune, bool) {
	return st.text.At(st.pos.Offset + 1)
}

func (st ScanState) atEnd() bool {
	_, ok := st.current()
	return !ok
}

// atLineStart is true when the current character sits in column 0.
func (st ScanState) atLineStart() bool {
	return st.pos.Column == 0
}

// is reports whether the current character is ch.
func (st ScanState) is(ch rune) bool {
	c, ok := st.current()
	return ok && c == ch
}

// matches reports whether the current character satisfies pred.
func (st ScanState) matches(pred func(rune) bool) bool {
	c, ok := st.current()
	return ok && pred(c)
}

// advance consumes the current character. At end of input it is a no-op.
func (st ScanState) advance() ScanState {
	ch, ok := st.current()
	if !ok {
		return st
	}
	st.pos = st.pos.Advance(ch)
	return st
}

// take consumes the current character and appends it to sb.
func (st ScanState) take(sb *strings.Builder) ScanState {
	if ch, ok := st.current(); ok {
		sb.WriteRune(ch)
	}
	return st.advance()
}

// takeWhile consumes the maximal run satisfying pred into sb.
func (st ScanState) takeWhile(sb *strings.Builder, pred func(rune) bool) ScanState {
	for st.matches(pred) {
		st = st.take(sb)
	}
	return st
}

// skipWhile consumes the maximal run satisfying pred.
func (st ScanState) skipWhile(pred func(rune) bool) ScanState {
	for st.matches(pred) {
		st = st.advance()
	}
	return st
}

// step is what one dispatch produced: zero or more tokens, in order, and
// any problems found along the way.
type step struct {
	tokens   []Token
	problems []Problem
}

func (s step) emit(tok Token) step {
	s.tokens = append(s.tokens, tok)
	return s
}

func (s step) report(p Problem) step {
	s.problems = append(s.problems, p)
	return s
}

func tokenAt(kind Kind, value string, pos source.Position) Token {
	return Token{Kind: kind, Value: value, Start: pos}
}
