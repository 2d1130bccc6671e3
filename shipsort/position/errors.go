package position

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when text matches neither the full grammar nor a flags-only fragment.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidNumber is returned when a numeric field could not be converted.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrUnknownAnchor is returned when an anchor is neither a keyword nor an existing object path.
	ErrUnknownAnchor = errors.New("unknown anchor")
	// ErrAnchorNotFound is returned when an anchor keyword names an object that does not exist.
	ErrAnchorNotFound = errors.New("anchor not found")
	// ErrUnknownFlag is returned for a flag letter outside of A, C, N, P and X.
	ErrUnknownFlag = errors.New("unknown flag")
)

// ParseError describes why a position could not be parsed. It unwraps to one of the
// sentinel errors above.
type ParseError struct {
	// Input is the text that was being parsed.
	Input string
	// Field names the numeric field that failed, for ErrInvalidNumber.
	Field string
	// Value is the offending token text, if any.
	Value string
	// Flag is the unknown letter, for ErrUnknownFlag.
	Flag rune
	// Anchor is the anchor text, for ErrUnknownAnchor and ErrAnchorNotFound.
	Anchor string

	Err error
}

// Error ...
func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidNumber):
		return fmt.Sprintf("invalid %s value (%s)", e.Field, e.Value)
	case errors.Is(e.Err, ErrUnknownFlag):
		return fmt.Sprintf("unknown flag (%c)", e.Flag)
	case errors.Is(e.Err, ErrUnknownAnchor), errors.Is(e.Err, ErrAnchorNotFound):
		return fmt.Sprintf("%v (%s)", e.Err, e.Anchor)
	default:
		return fmt.Sprintf("%v (%s)", e.Err, e.Input)
	}
}

// Unwrap ...
func (e *ParseError) Unwrap() error {
	return e.Err
}
