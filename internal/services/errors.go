package services

import (
	"errors"
	"fmt"
)

var (
	ErrUploadNotFound     = errors.New("upload ID not found")
	ErrConversionNotFound = errors.New("conversion ID not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrSuspiciousActivity = errors.New("suspicious activity detected, please try again later")
)

// UploadError rejects an upload request; it is always the client's fault.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

type LimitExceededError struct {
	Used  int
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily limit exceeded, used %d/%d conversions", e.Used, e.Limit)
}
