// FILE: action/errors.go
package action

import (
	"errors"
	"fmt"
)

// Sentinels for the parse/construct error taxonomy. Every failure returned
// by Parse, ParseSequence or a constructor wraps exactly one of these, so
// callers can match with errors.Is.
var (
	ErrInvalidSyntax           = errors.New("invalid action syntax")
	ErrInvalidCoordinate       = errors.New("invalid coordinate")
	ErrInvalidPiece            = errors.New("invalid piece")
	ErrMultipleTransformations = errors.New("multiple transformation markers")
)

// errNoMatch is the internal "try the next variant" signal used during
// dispatch. It never escapes the package and is not part of the taxonomy:
// failing to recognize a variant is not an error.
var errNoMatch = errors.New("no match")

// ParseError names the offending text verbatim alongside the taxonomy
// sentinel it wraps. For coordinate and piece failures Text is the bad
// substring; for syntax and transformation-marker failures it is the full
// input.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

func syntaxErr(text string) error {
	return &ParseError{Text: text, Err: ErrInvalidSyntax}
}

func coordErr(text string) error {
	return &ParseError{Text: text, Err: ErrInvalidCoordinate}
}

func pieceErr(text string) error {
	return &ParseError{Text: text, Err: ErrInvalidPiece}
}

func transformErr(text string) error {
	return &ParseError{Text: text, Err: ErrMultipleTransformations}
}
