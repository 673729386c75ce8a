package lexer

import (
	"fmt"

	"clexer/internal/source"
)

// Kind classifies a token.
type Kind uint8

const (
	IDENTIFIER_TOKEN Kind = iota
	KEYWORD_TOKEN
	NUMBER_TOKEN
	OPERATOR_TOKEN
	DELIMITER_TOKEN
	STRING_TOKEN // string and character literals
	PREPROCESSOR_TOKEN
	HEADER_FILE_TOKEN
	MACRO_NAME_TOKEN
	ERROR_TOKEN
	EOF_TOKEN
)

var kindNames = [...]string{
	IDENTIFIER_TOKEN:   "IDENTIFIER",
	KEYWORD_TOKEN:      "KEYWORD",
	NUMBER_TOKEN:       "NUMBER",
	OPERATOR_TOKEN:     "OPERATOR",
	DELIMITER_TOKEN:    "DELIMITER",
	STRING_TOKEN:       "STRING",
	PREPROCESSOR_TOKEN: "PREPROCESSOR",
	HEADER_FILE_TOKEN:  "HEADER_FILE",
	MACRO_NAME_TOKEN:   "MACRO_NAME",
	ERROR_TOKEN:        "ERROR",
	EOF_TOKEN:          "EOF",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText lets tokens serialise with readable kind names.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one classified lexeme. Tokens are values; the scanner never
// touches a token again once it has been handed out.
type Token struct {
	Kind  Kind
	Value string // the lexeme, escapes and header delimiters kept verbatim
	Start source.Position
}

func (t Token) Line() int   { return t.Start.Line }
func (t Token) Column() int { return t.Start.Column }

// String renders the display form "<kind> <lexeme> @<line>:<column>".
func (t Token) String() string {
	return fmt.Sprintf("%s %s @%d:%d", t.Kind, t.Value, t.Start.Line, t.Start.Column)
}
