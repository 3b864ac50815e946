package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is matched by MissingFieldError
	ErrMissingField = errors.New("missing field")

	// ErrMalformedTimestamp is matched by MalformedTimestampError
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrInvalidOptions is returned for options that cannot produce a sample
	ErrInvalidOptions = errors.New("invalid sampler options")
)

// MissingFieldError 타임스탬프 컬럼이 스키마에 없음
type MissingFieldError struct {
	Column    string
	Available []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: column %q not found (have %d columns)", ErrMissingField, e.Column, len(e.Available))
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// MalformedTimestampError 값은 있으나 파싱 불가
// Row is the zero-based record index.
type MalformedTimestampError struct {
	Row   int
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("%s at record %d: %v", ErrMalformedTimestamp, e.Row, e.Err)
}

func (e *MalformedTimestampError) Unwrap() []error {
	return []error{ErrMalformedTimestamp, e.Err}
}
