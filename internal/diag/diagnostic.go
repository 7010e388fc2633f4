// Package diag defines the uniform, phase-tagged error channel shared by the
// lexer, parser, and semantic analyzer. The source language drops
// source-positioned diagnostics by design, so a Diagnostic carries only the
// phase, a stable code, and a human-readable message.
package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer    Stage = "Lexer"
	StageParser   Stage = "Parser"
	StageSemantic Stage = "Semantic"
)

// Code is a stable identifier for a diagnostic, useful for tests and tools
// that want to switch on error kind without parsing the message.
type Code string

const (
	// Lexer codes.
	CodeUnterminatedString Code = "LEX_UNTERMINATED_STRING"
	CodeIntegerTooLarge    Code = "LEX_INTEGER_TOO_LARGE"
	CodeUnexpectedChar     Code = "LEX_UNEXPECTED_CHARACTER"

	// Parser codes.
	CodeUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeMissingToken    Code = "PARSE_MISSING_TOKEN"
	CodeMalformed       Code = "PARSE_MALFORMED"

	// Semantic codes.
	CodeNameError      Code = "SEM_NAME_ERROR"
	CodeTypeError      Code = "SEM_TYPE_ERROR"
	CodeBoundsError    Code = "SEM_BOUNDS_ERROR"
	CodeConstError     Code = "SEM_CONST_ERROR"
	CodeMutationError  Code = "SEM_MUTATION_ERROR"
	CodeStructureError Code = "SEM_STRUCTURE_ERROR"
)

// Diagnostic is a single fatal compiler error. The pipeline halts and
// returns the first one produced.
type Diagnostic struct {
	Stage   Stage
	Code    Code
	Message string
}

// Error renders the "<Stage> error: <message>" form required by spec §6.4.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s error: %s", d.Stage, d.Message)
}

// New constructs a Diagnostic with a formatted message.
func New(stage Stage, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Stage: stage, Code: code, Message: fmt.Sprintf(format, args...)}
}
