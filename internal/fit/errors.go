package fit

import (
	"errors"
	"fmt"
)

var (
	ErrNotFIT        = errors.New("fit: not a FIT file")
	ErrTruncated     = errors.New("fit: truncated data")
	ErrHeaderCRC     = errors.New("fit: header checksum mismatch")
	ErrFileCRC       = errors.New("fit: file checksum mismatch")
	ErrUndefinedMesg = errors.New("fit: data message without definition")
	ErrUnsupported   = errors.New("fit: unsupported feature")
)

// EncodingOverflowError reports a value that does not fit the fixed-width
// binary representation of its field.
type EncodingOverflowError struct {
	Message string
	Field   string
	Value   any
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("fit: %s.%s value %v overflows its field", e.Message, e.Field, e.Value)
}
