package importer

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingHeaders    = errors.New("missing required header(s)")
	ErrValidation        = errors.New("validation failed")
	ErrReferenceNotFound = errors.New("referenced entity not found")
	ErrMalformedFile     = errors.New("malformed file")
	ErrUnnamedColumns    = errors.New("row has values only in columns without a header")
)

// MissingHeadersError lists every required header absent from a file.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return ErrMissingHeaders.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *MissingHeadersError) Is(target error) bool {
	return target == ErrMissingHeaders
}

// ValidationError aggregates every constraint a single row violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Violations collects constraint messages for one draft.
type Violations []string

func (v *Violations) Add(msg string) {
	*v = append(*v, msg)
}

// Require records msg when value is blank.
func (v *Violations) Require(value, msg string) {
	if strings.TrimSpace(value) == "" {
		v.Add(msg)
	}
}

// Check records msg when ok is false.
func (v *Violations) Check(ok bool, msg string) {
	if !ok {
		v.Add(msg)
	}
}

// Err returns a *ValidationError, or nil when nothing was violated.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Violations: append([]string(nil), v...)}
}
