package protocol

import (
	"errors"
	"fmt"
)

// Decode and convert error taxonomy. Encode on a constructed message never
// fails; invariants are enforced at construction time.
var (
	// ErrMalformedEnvelope is returned when a compact message is missing
	// its envelope or body line.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrInvalidType is returned when the message type is outside the
	// closed enum for its format.
	ErrInvalidType = errors.New("invalid message type")

	// ErrInvalidPriority is returned when @p carries an unknown value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrEmptyActionList is returned when a compact body has no action
	// tokens.
	ErrEmptyActionList = errors.New("empty action list")

	// ErrUnrecognizedFormat is returned by the detector when the input
	// starts with neither '@' nor '<'.
	ErrUnrecognizedFormat = errors.New("unrecognized message format")

	// ErrMalformedDocument is returned when a structured message is not
	// well-formed markup or has the wrong root element.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidAgentID is returned at construction when to/from is empty
	// or contains protocol delimiters.
	ErrInvalidAgentID = errors.New("invalid agent id")

	// ErrMissingConversionInput is returned by StructuredToCompact when no
	// actions are supplied. The structured form cannot be mechanically
	// reduced to the compact grammar; the caller must provide them.
	ErrMissingConversionInput = errors.New("missing conversion input")
)

// MissingFieldError identifies a required field absent from the input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnknownKeyError identifies an unrecognized envelope key rejected in
// strict mode.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown envelope key %q", e.Key)
}
