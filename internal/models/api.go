package models

import (
	"github.com/gookit/validate"
)

// FingerprintData is the browser fingerprint sent with a conversion request.
type FingerprintData struct {
	FingerprintHash  string `json:"fingerprint_hash" validate:"required|maxLen:128"`
	UserAgent        string `json:"user_agent" validate:"maxLen:500"`
	ScreenResolution string `json:"screen_resolution" validate:"maxLen:20"`
	Timezone         string `json:"timezone" validate:"maxLen:50"`
}

func (f *FingerprintData) Validate() error {
	v := validate.Struct(f)
	if !v.Validate() {
		return v.Errors
	}
	return nil
}

type UploadResponse struct {
	UploadID      string `json:"upload_id"`
	FilesReceived int    `json:"files_received"`
	Message       string `json:"message"`
}

type ConversionRequest struct {
	UploadID    string          `json:"upload_id" validate:"required"`
	Fingerprint FingerprintData `json:"fingerprint"`
}

func (c *ConversionRequest) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return v.Errors
	}
	return c.Fingerprint.Validate()
}

type ConversionResponse struct {
	ConversionID   string   `json:"conversion_id"`
	FilesConverted int      `json:"files_converted"`
	TotalEntries   int      `json:"total_entries"`
	SkippedEntries int      `json:"skipped_entries"`
	DownloadURLs   []string `json:"download_urls"`
	Message        string   `json:"message"`
}

type UsageLimits struct {
	ConversionsUsed  int  `json:"conversions_used"`
	ConversionsLimit int  `json:"conversions_limit"`
	TimeUntilReset   int  `json:"time_until_reset"`
	CanConvert       bool `json:"can_convert"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

type FileValidationResult struct {
	Filename     string  `json:"filename"`
	IsValid      bool    `json:"is_valid"`
	EntryCount   *int    `json:"entry_count"`
	DateRange    *string `json:"date_range"`
	ErrorMessage *string `json:"error_message"`
}
