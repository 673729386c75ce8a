package diagnostics

import (
	"fmt"

	"clexer/internal/source"
)

// Builders for the lexical error taxonomy

// IllegalCharacter creates a diagnostic for a character outside every class
func IllegalCharacter(filepath string, loc *source.Location, char string) *Diagnostic {
	return NewError(fmt.Sprintf("illegal character: %s", char)).
		WithCode(ErrIllegalCharacter).
		WithPrimaryLabel(filepath, loc, "not part of any token").
		WithHelp("remove this character or check if it's a typo")
}

// UnterminatedComment creates a diagnostic for a /* comment with no */
func UnterminatedComment(filepath string, loc *source.Location) *Diagnostic {
	return NewError("unterminated comment").
		WithCode(ErrUnterminatedComment).
		WithPrimaryLabel(filepath, loc, "comment starts here").
		WithNote("everything up to the end of the file was treated as comment").
		WithHelp("add */ to close the comment")
}

// UnterminatedLiteral creates a diagnostic for a string or character literal
// cut short by a newline or the end of the file
func UnterminatedLiteral(filepath string, start, stop *source.Location) *Diagnostic {
	d := NewError("unterminated literal").
		WithCode(ErrUnterminatedLiteral).
		WithPrimaryLabel(filepath, start, "literal starts here")
	if stop != nil {
		d.WithSecondaryLabel(filepath, stop, "literal cut off here")
	}
	return d.WithHelp("add the closing quote, or escape the newline with a backslash")
}

// UnterminatedHeaderName creates a diagnostic for #include <x or #include "x
func UnterminatedHeaderName(filepath string, loc *source.Location) *Diagnostic {
	return NewError("unterminated header name").
		WithCode(ErrUnterminatedHeaderName).
		WithPrimaryLabel(filepath, loc, "header name starts here").
		WithHelp("close the header name with > or \" on the same line")
}

// InvalidIncludeFormat creates a diagnostic for #include not followed by
// <name> or "name"
func InvalidIncludeFormat(filepath string, loc *source.Location) *Diagnostic {
	return NewError("invalid include format").
		WithCode(ErrInvalidIncludeFormat).
		WithPrimaryLabel(filepath, loc, "expected <header> or \"header\"")
}

// InvalidMacroName creates a diagnostic for a macro name that is not an
// identifier
func InvalidMacroName(filepath string, loc *source.Location) *Diagnostic {
	return NewError("invalid macro name").
		WithCode(ErrInvalidMacroName).
		WithPrimaryLabel(filepath, loc, "macro names must start with a letter or underscore")
}

// MissingMacroName creates a diagnostic for #define and friends with nothing
// after them
func MissingMacroName(filepath string, loc *source.Location) *Diagnostic {
	return NewError("missing macro name").
		WithCode(ErrMissingMacroName).
		WithPrimaryLabel(filepath, loc, "expected a macro name here")
}

// UnreadableSource creates a diagnostic for a file that could not be opened
// or stopped reading part way. loc is nil when the file never opened.
func UnreadableSource(filepath string, loc *source.Location, reason string) *Diagnostic {
	d := NewError("unreadable source").
		WithCode(ErrUnreadableSource).
		WithNote(reason)
	d.FilePath = filepath
	if loc != nil {
		d.WithPrimaryLabel(filepath, loc, "reading stopped here")
	}
	return d
}

// UnknownDirective creates a warning for a directive name the scanner does
// not know. suggestion may be empty.
func UnknownDirective(filepath string, loc *source.Location, name, suggestion string) *Diagnostic {
	d := NewWarning(fmt.Sprintf("unknown preprocessor directive %s", name)).
		WithCode(WarnUnknownDirective).
		WithPrimaryLabel(filepath, loc, "not a known directive")
	if suggestion != "" {
		d.WithHelp(fmt.Sprintf("did you mean #%s?", suggestion))
	}
	return d
}

// CrossCheckMismatch creates an info diagnostic for a place where the
// tree-sitter C grammar and the scanner disagree
func CrossCheckMismatch(filepath string, loc *source.Location, message string) *Diagnostic {
	return NewInfo(message).
		WithCode(InfoCrossCheck).
		WithPrimaryLabel(filepath, loc, "tree-sitter sees a token here")
}
