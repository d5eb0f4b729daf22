package analysis

import (
	"errors"
	"fmt"
)

// NoJSONFoundError means the completion contains no '{' at all.
type NoJSONFoundError struct {
	Raw string
}

func (e *NoJSONFoundError) Error() string {
	return fmt.Sprintf("no JSON object found in model response\nResponse: %s", e.Raw)
}

func (e *NoJSONFoundError) RawOutput() string { return e.Raw }

// MalformedJSONError means a candidate object was located but does not decode.
type MalformedJSONError struct {
	Raw       string
	Candidate string
	Cause     error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON in model response: %v\nResponse: %s", e.Cause, e.Raw)
}

func (e *MalformedJSONError) Unwrap() error { return e.Cause }

func (e *MalformedJSONError) RawOutput() string { return e.Raw }

// UnexpectedShapeError means the completion decoded to JSON that is not an object.
type UnexpectedShapeError struct {
	Raw  string
	Kind string
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("expected a JSON object in model response, got %s\nResponse: %s", e.Kind, e.Raw)
}

func (e *UnexpectedShapeError) RawOutput() string { return e.Raw }

// RawOutput returns the model completion attached to a parse error, if any.
func RawOutput(err error) (string, bool) {
	var r interface{ RawOutput() string }
	if errors.As(err, &r) {
		return r.RawOutput(), true
	}
	return "", false
}
