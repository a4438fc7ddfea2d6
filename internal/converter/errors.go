package converter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat matches every *InvalidFormatError through errors.Is.
var ErrInvalidFormat = errors.New("invalid takeout format")

// InvalidFormatError rejects a whole input file. No output is produced for it.
type InvalidFormatError struct {
	File    string
	Reason  string
	Missing []string
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.File, e.Reason)
	if len(e.Missing) > 0 {
		msg += ": missing " + strings.Join(e.Missing, ", ")
	}
	return msg
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// FieldParseError describes a single record that was skipped.
type FieldParseError struct {
	File  string
	Index int
	Field string
	Value any
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("%s: record %d: %s %v: %v", e.File, e.Index, e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}

var (
	errMissing     = errors.New("missing")
	errNotPositive = errors.New("must be positive")
)
