package source

import "fmt"

// Position is a point in a source file.
// Line is 1-based, Column is 0-based and counted in runes, Offset is the
// 0-based rune index into the decoded text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Start is the position of the first character of any text.
func Start() Position {
	return Position{Line: 1}
}

// Advance returns the position after consuming ch.
func (p Position) Advance(ch rune) Position {
	if ch == '\n' {
		return Position{Line: p.Line + 1, Column: 0, Offset: p.Offset + 1}
	}
	return Position{Line: p.Line, Column: p.Column + 1, Offset: p.Offset + 1}
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location is a span between two positions. End may be nil for a point.
type Location struct {
	Start *Position
	End   *Position
}

// NewLocation builds a location from two positions.
func NewLocation(start, end Position) *Location {
	return &Location{Start: &start, End: &end}
}

// PointLocation builds a zero-width location.
func PointLocation(pos Position) *Location {
	return &Location{Start: &pos}
}
