package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// UploadedFile is one accepted upload, kept as raw JSON until conversion.
type UploadedFile struct {
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
}

type ConvertedFile struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Records int    `json:"records"`
	Skipped int    `json:"skipped"`
}

// StoredConversion is the manifest of one conversion. File bodies are
// stored under their own keys.
type StoredConversion struct {
	ConversionID string          `json:"conversion_id"`
	UploadID     string          `json:"upload_id"`
	Files        []ConvertedFile `json:"files"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *StoredConversion) HasFile(name string) bool {
	for _, f := range s.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}
