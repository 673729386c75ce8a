// Package crosscheck compares a token stream with the tree-sitter C grammar.
//
// Tree-sitter builds a full syntax tree, so every identifier and number
// literal it finds outside an ERROR subtree should line up with a token of
// the matching kind, at the same position and with the same lexeme. Places
// where the two disagree are returned as Mismatch values. They are findings,
// not failures: the scanner is deliberately simpler than a C front end.
package crosscheck

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"clexer/internal/frontend/lexer"
)

const leafQuery = `
[
  (identifier)
  (field_identifier)
  (type_identifier)
  (statement_identifier)
  (primitive_type)
] @ident
(number_literal) @number
`

// Mismatch is one place where tree-sitter and the scanner disagree.
type Mismatch struct {
	Line     int    // 1-based
	Column   int    // 0-based, in runes
	NodeType string // tree-sitter node type
	Lexeme   string // text of the tree-sitter node
	Token    *lexer.Token
}

func (m Mismatch) Message() string {
	if m.Token == nil {
		return fmt.Sprintf("tree-sitter sees %s %q at %d:%d but no token starts there",
			m.NodeType, m.Lexeme, m.Line, m.Column)
	}
	return fmt.Sprintf("tree-sitter sees %s %q at %d:%d, scanner produced %s %q",
		m.NodeType, m.Lexeme, m.Line, m.Column, m.Token.Kind, m.Token.Value)
}

type key struct {
	line, column int
}

// Check parses src with the C grammar and compares its identifier and
// number leaves against tokens, which must be the scan of the same text.
func Check(ctx context.Context, src string, tokens []lexer.Token) ([]Mismatch, error) {
	code := []byte(src)

	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, errors.Wrap(err, "tree-sitter parse")
	}

	query, err := sitter.NewQuery([]byte(leafQuery), c.GetLanguage())
	if err != nil {
		return nil, errors.Wrap(err, "tree-sitter query")
	}

	byStart := make(map[key]lexer.Token, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != lexer.EOF_TOKEN {
			byStart[key{tok.Line(), tok.Column()}] = tok
		}
	}

	lines := lineStarts(code)

	var mismatches []Mismatch
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())
	for {
		qm, exists := qc.NextMatch()
		if !exists {
			break
		}
		for _, capture := range qm.Captures {
			node := capture.Node
			if node.IsMissing() || insideError(node) {
				continue
			}

			point := node.StartPoint()
			line := int(point.Row) + 1
			column := runeColumn(code, lines, int(point.Row), int(point.Column))
			lexeme := node.Content(code)

			tok, found := byStart[key{line, column}]
			if found && tok.Value == lexeme && accepts(query.CaptureNameForId(capture.Index), tok.Kind) {
				continue
			}

			m := Mismatch{Line: line, Column: column, NodeType: node.Type(), Lexeme: lexeme}
			if found {
				m.Token = &tok
			}
			mismatches = append(mismatches, m)
		}
	}

	return mismatches, nil
}

// accepts reports whether a token kind is a fair reading of a capture
func accepts(capture string, kind lexer.Kind) bool {
	switch capture {
	case "ident":
		return kind == lexer.IDENTIFIER_TOKEN || kind == lexer.KEYWORD_TOKEN || kind == lexer.MACRO_NAME_TOKEN
	case "number":
		return kind == lexer.NUMBER_TOKEN
	}
	return false
}

func insideError(node *sitter.Node) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Type() == "ERROR" {
			return true
		}
	}
	return false
}

// lineStarts returns the byte offset of the start of every line
func lineStarts(code []byte) []int {
	starts := []int{0}
	for i, b := range code {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// runeColumn converts a tree-sitter byte column into a rune column
func runeColumn(code []byte, lines []int, row, byteColumn int) int {
	if row >= len(lines) {
		return byteColumn
	}
	start := lines[row]
	end := start + byteColumn
	if end > len(code) {
		end = len(code)
	}
	return utf8.RuneCount(code[start:end])
}
