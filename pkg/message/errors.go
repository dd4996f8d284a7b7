package message

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID           = errors.New("invalid id")
	ErrMalformedField      = errors.New("malformed field")
	ErrUnknownEventName    = errors.New("unknown event name")
	ErrUnrecognizedMessage = errors.New("unrecognized message")
	ErrInvalidServiceID    = errors.New("invalid service id")
	ErrInvalidPayload      = errors.New("invalid echo payload")
)

// InvalidIDError reports text that is not an unsigned 64-bit decimal.
type InvalidIDError struct {
	Text string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.Text)
}

func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// FieldError names an inbound field that is missing or does not hold the
// expected value. Err, when set, is the underlying parse failure.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed field %q (%q): %v", e.Field, e.Value, e.Err)
	}
	if e.Value == "" {
		return fmt.Sprintf("malformed field %q: missing or wrong type", e.Field)
	}
	return fmt.Sprintf("malformed field %q: %s", e.Field, e.Value)
}

func (e *FieldError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedField, e.Err}
	}
	return []error{ErrMalformedField}
}

type UnknownEventNameError struct {
	Name string
}

func (e *UnknownEventNameError) Error() string {
	return fmt.Sprintf("unknown event name %q", e.Name)
}

func (e *UnknownEventNameError) Unwrap() error { return ErrUnknownEventName }

// UnrecognizedMessageError keeps the original frame for diagnostics.
type UnrecognizedMessageError struct {
	Text string
}

func (e *UnrecognizedMessageError) Error() string {
	text := e.Text
	if len(text) > 256 {
		text = text[:256] + "..."
	}
	return fmt.Sprintf("unrecognized message: %s", text)
}

func (e *UnrecognizedMessageError) Unwrap() error { return ErrUnrecognizedMessage }
