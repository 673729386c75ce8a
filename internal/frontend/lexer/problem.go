package lexer

import (
	"fmt"

	"clexer/internal/source"
)

// ProblemKind is the lexical error taxonomy.
type ProblemKind uint8

const (
	IllegalCharacter ProblemKind = iota
	UnterminatedComment
	UnterminatedLiteral
	UnterminatedHeaderName
	InvalidIncludeFormat
	InvalidMacroName
	MissingMacroName
	UnreadableSource
)

var problemNames = [...]string{
	IllegalCharacter:       "IllegalCharacter",
	UnterminatedComment:    "UnterminatedComment",
	UnterminatedLiteral:    "UnterminatedLiteral",
	UnterminatedHeaderName: "UnterminatedHeaderName",
	InvalidIncludeFormat:   "InvalidIncludeFormat",
	InvalidMacroName:       "InvalidMacroName",
	MissingMacroName:       "MissingMacroName",
	UnreadableSource:       "UnreadableSource",
}

func (k ProblemKind) String() string {
	if int(k) < len(problemNames) {
		return problemNames[k]
	}
	return fmt.Sprintf("ProblemKind(%d)", k)
}

// Problem is a recoverable lexical error. Pos is where it is reported;
// End is where the scanner was when it gave up on the construct.
type Problem struct {
	Kind    ProblemKind
	Message string
	Pos     source.Position
	End     source.Position
}

func (p Problem) Line() int   { return p.Pos.Line }
func (p Problem) Column() int { return p.Pos.Column }

// Sink receives every lexical problem as it is found.
type Sink interface {
	Report(p Problem)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(p Problem)

func (f SinkFunc) Report(p Problem) { f(p) }

// Discard drops all problems.
var Discard Sink = SinkFunc(func(Problem) {})

func problem(kind ProblemKind, pos, end source.Position, format string, args ...interface{}) Problem {
	return Problem{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, End: end}
}
