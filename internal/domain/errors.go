package domain

import (
	"errors"
	"fmt"
	"strings"
)

var errNotFinite = errors.New("value is not a finite number")

// MissingFieldError reports a required field that was absent or blank.
type MissingFieldError struct {
	Field string
	Label string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Label)
}

// ParseError reports a field that is present but not a finite real number.
type ParseError struct {
	Field string
	Label string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("field %q: %q is not a number", e.Label, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError collects every field problem found in one submission.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Problems }

// ModelLoadError reports an artifact that could not be loaded at startup.
type ModelLoadError struct {
	Artifact string
	Err      error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model artifact %s: %v", e.Artifact, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// ModelInferenceError reports a predictor failure while scoring.
type ModelInferenceError struct {
	Model string
	Err   error
}

func (e *ModelInferenceError) Error() string {
	return fmt.Sprintf("model %s inference failed: %v", e.Model, e.Err)
}

func (e *ModelInferenceError) Unwrap() error { return e.Err }
