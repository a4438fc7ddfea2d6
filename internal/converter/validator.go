package converter

import "fmt"

// RequiredFields must all be present in the first record of a file.
var RequiredFields = []string{"logId", "weight", "date", "time"}

// Validate checks the shape of a parsed takeout file. Only the first record
// is inspected; later records are checked one by one during conversion.
func Validate(name string, data any) error {
	entries, ok := data.([]any)
	if !ok || len(entries) == 0 {
		return &InvalidFormatError{File: name, Reason: "expected a non-empty array of weight entries"}
	}
	first, ok := entries[0].(map[string]any)
	if !ok {
		return &InvalidFormatError{File: name, Reason: "first entry is not an object"}
	}
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := first[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &InvalidFormatError{File: name, Reason: "required fields not found", Missing: missing}
	}
	return nil
}

// Summary is what a caller can show about a file before converting it.
type Summary struct {
	File      string
	Entries   int
	DateRange string
	Err       error
}

func (s Summary) Valid() bool {
	return s.Err == nil
}

func Describe(name string, data any) Summary {
	s := Summary{File: name}
	if s.Err = Validate(name, data); s.Err != nil {
		return s
	}
	entries := data.([]any)
	s.Entries = len(entries)
	s.DateRange = fmt.Sprintf("%s to %s", entryDate(entries[0]), entryDate(entries[len(entries)-1]))
	return s
}

func entryDate(entry any) string {
	m, ok := entry.(map[string]any)
	if !ok {
		return ""
	}
	d, _ := m["date"].(string)
	return d
}
