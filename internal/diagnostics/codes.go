package diagnostics

// Lexical errors
const (
	ErrIllegalCharacter       = "L0001"
	ErrUnterminatedComment    = "L0002"
	ErrUnterminatedLiteral    = "L0003"
	ErrUnterminatedHeaderName = "L0004"
	ErrInvalidIncludeFormat   = "L0005"
	ErrInvalidMacroName       = "L0006"
	ErrMissingMacroName       = "L0007"
	ErrUnreadableSource       = "L0008"
)

// Warnings and cross-check findings
const (
	WarnUnknownDirective = "W0001"
	InfoCrossCheck       = "X0001"
)
