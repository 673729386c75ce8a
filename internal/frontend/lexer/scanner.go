// Package lexer turns C source text into a stream of classified tokens.
//
// The scanner is a single forward pass over a decoded text buffer. Each call
// into the dispatch table receives the current ScanState and returns the next
// one together with whatever tokens and problems that step produced; the
// Scanner type only holds the latest state and hands tokens out one by one.
//
// Lexical errors never stop the scan. They are reported to a Sink and show up
// in the stream as ERROR tokens, and the stream always ends with one EOF.
package lexer

import "clexer/internal/source"

// Scanner produces tokens from one source text. Not safe for concurrent use.
type Scanner struct {
	state   ScanState
	dialect Dialect
	sink    Sink
	pending []Token
	eof     *Token
}

// New creates a scanner over text. A nil sink discards problems.
func New(text source.Text, sink Sink, dialect Dialect) *Scanner {
	if sink == nil {
		sink = Discard
	}
	return &Scanner{
		state:   NewState(text),
		dialect: dialect,
		sink:    sink,
	}
}

// Reset re-initializes the scanner with new text for reuse.
func (s *Scanner) Reset(text source.Text) {
	s.state = NewState(text)
	s.pending = s.pending[:0]
	s.eof = nil
}

// Next returns the next token. Once EOF has been returned every further
// call returns the same EOF token without scanning.
func (s *Scanner) Next() Token {
	for len(s.pending) == 0 {
		if s.eof != nil {
			return *s.eof
		}
		var out step
		s.state, out = dispatch(s.state, s.dialect)
		for _, p := range out.problems {
			s.sink.Report(p)
		}
		s.pending = append(s.pending, out.tokens...)
	}

	tok := s.pending[0]
	s.pending = s.pending[1:]
	if tok.Kind == EOF_TOKEN {
		s.eof = &tok
	}
	return tok
}

// Done reports whether EOF has been handed out.
func (s *Scanner) Done() bool {
	return s.eof != nil
}

// Tokenize drains the scanner. The result ends with exactly one EOF token.
func (s *Scanner) Tokenize() []Token {
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF_TOKEN {
			return tokens
		}
	}
}

// Scan tokenizes text in one call.
func Scan(text source.Text, sink Sink, dialect Dialect) []Token {
	return New(text, sink, dialect).Tokenize()
}
