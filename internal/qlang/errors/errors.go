package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/btouchard/qlang/internal/qlang/token"
	"github.com/btouchard/qlang/internal/qlang/utils"
)

// Error names, as shown to the user.
const (
	IllegalChar        = "Caractère non valide"
	StringUnterminated = "Chaîne non terminée"
	InvalidSyntax      = "Syntaxe non valide"
	MaximumArguments   = "Nombre d'arguments maximum dépassé"
	Runtime            = "Erreur d'exécution"
)

// Error is a lexing or parsing error spanning Start..End in Source.
type Error struct {
	Start   token.Position
	End     token.Position
	Name    string
	Details string
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Name, e.Details, e.Start)
}

// Render formats the error as a message line, a location line and the
// offending source line underlined with carets.
func (e *Error) Render() string {
	var b strings.Builder
	b.WriteString(e.Name + ": " + e.Details + "\n")
	fmt.Fprintf(&b, "Sur la ligne %d, colonne %d à la ligne %d, colonne %d",
		e.Start.Line, e.Start.Column, e.End.Line, e.End.Column)

	line := utils.SourceLine(e.Source, e.Start.Line)
	if line == "" {
		return b.String()
	}

	width := 1
	if e.End.Line == e.Start.Line {
		width = e.End.EndColumn() - e.Start.Column
	} else if e.End.Line > e.Start.Line {
		width = utf8.RuneCountInString(line) - e.Start.Column + 1
	}

	b.WriteString("\n" + line + "\n")
	b.WriteString(utils.Underline(e.Start.Column, width))
	return b.String()
}

func NewIllegalChar(start, end token.Position, char, source string) *Error {
	return &Error{Start: start, End: end, Name: IllegalChar, Details: "'" + char + "'", Source: source}
}

func NewStringUnterminated(start, end token.Position, source string) *Error {
	return &Error{Start: start, End: end, Name: StringUnterminated, Details: "La chaîne n'est pas terminée", Source: source}
}

func NewInvalidSyntax(start, end token.Position, details, source string) *Error {
	return &Error{Start: start, End: end, Name: InvalidSyntax, Details: details, Source: source}
}

func NewMaximumArguments(start, end token.Position, details, source string) *Error {
	return &Error{Start: start, End: end, Name: MaximumArguments, Details: details, Source: source}
}

// RuntimeError is raised while evaluating. Line is 0 when unknown.
type RuntimeError struct {
	Line    int
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (ligne %d)", e.Message, e.Line)
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Render formats the error, quoting the source line when it is known.
func (e *RuntimeError) Render(source string) string {
	out := Runtime + ": " + e.Message
	if e.Line <= 0 {
		return out
	}
	out += fmt.Sprintf("\nSur la ligne %d", e.Line)
	if line := utils.SourceLine(source, e.Line); line != "" {
		out += "\n" + line
	}
	return out
}

// NewRuntime builds a RuntimeError from a format string.
func NewRuntime(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// WrapRuntime attaches a line to err. An err that already is a
// RuntimeError keeps its own line when it has one.
func WrapRuntime(line int, err error) error {
	if err == nil {
		return nil
	}
	var rt *RuntimeError
	if stderrors.As(err, &rt) {
		if rt.Line == 0 {
			rt.Line = line
		}
		return rt
	}
	return &RuntimeError{Line: line, Message: err.Error(), Err: err}
}

// Render formats any error produced by the pipeline for display.
func Render(err error, source string) string {
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe.Render()
	}
	var rt *RuntimeError
	if stderrors.As(err, &rt) {
		return rt.Render(source)
	}
	return Runtime + ": " + err.Error()
}
