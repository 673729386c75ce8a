package lexer

import "unicode"

type charClass uint8

const (
	classNone charClass = iota
	classOperator
	classDelimiter
	classAmbiguous // & and |, resolved by the dialect
)

// symbolClass covers the ASCII range; everything above it is classNone.
var symbolClass = [128]charClass{
	'(': classDelimiter,
	')': classDelimiter,
	';': classDelimiter,
	',': classDelimiter,
	'{': classDelimiter,
	'}': classDelimiter,
	'[': classDelimiter,
	']': classDelimiter,
	'.': classDelimiter,
	'\'': classDelimiter,
	'?': classDelimiter,
	':': classDelimiter,

	'+': classOperator,
	'-': classOperator,
	'*': classOperator,
	'/': classOperator,
	'=': classOperator,
	'<': classOperator,
	'>': classOperator,
	'!': classOperator,
	'%': classOperator,
	'^': classOperator,
	'~': classOperator,

	'&': classAmbiguous,
	'|': classAmbiguous,
}

// classify maps a symbol character to the token kind it produces.
// ok is false for characters outside both sets.
func classify(ch rune, d Dialect) (kind Kind, ok bool) {
	if ch < 0 || ch >= rune(len(symbolClass)) {
		return ERROR_TOKEN, false
	}
	switch symbolClass[ch] {
	case classOperator:
		return OPERATOR_TOKEN, true
	case classDelimiter:
		return DELIMITER_TOKEN, true
	case classAmbiguous:
		if d.AmpPipeAsDelimiters {
			return DELIMITER_TOKEN, true
		}
		return OPERATOR_TOKEN, true
	}
	return ERROR_TOKEN, false
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isSpace(ch rune) bool {
	return unicode.IsSpace(ch)
}

// isBlank is whitespace that does not end a directive line.
func isBlank(ch rune) bool {
	return ch != '\n' && unicode.IsSpace(ch)
}
