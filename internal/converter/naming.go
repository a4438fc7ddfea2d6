package converter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FallbackName is used when no week can be derived for an input.
const FallbackName = "Weight Converted Fitbit.fit"

// WeekYearFromFilename reads names like weight-2024-06-01.json and returns
// "<iso week>-<year>", or "" when the name does not carry a valid date.
func WeekYearFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".json")
	parts := strings.Split(base, "-")
	if len(parts) < 4 || parts[0] != "weight" {
		return ""
	}
	var ymd [3]int
	for i := range ymd {
		n, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return ""
		}
		ymd[i] = n
	}
	t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	if t.Year() != ymd[0] || int(t.Month()) != ymd[1] || t.Day() != ymd[2] {
		return ""
	}
	_, week := t.ISOWeek()
	return fmt.Sprintf("%d-%d", week, ymd[0])
}

// WeekYearFromDate does the same for a takeout date (M/D/YY or M/D/YYYY).
func WeekYearFromDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	_, week := t.ISOWeek()
	return fmt.Sprintf("%d-%d", week, t.Year())
}

func OutputName(weekYear string) string {
	if weekYear == "" {
		return FallbackName
	}
	return "Weight " + weekYear + " Fitbit.fit"
}

// UniqueName appends " (n)" before the extension while name is taken.
func UniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}
