package converter

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const poundsPerKilogram = 2.2046

// Strategy selects where a record's timestamp comes from.
type Strategy string

const (
	// StrategyLogID uses logId as milliseconds since the Unix epoch.
	StrategyLogID Strategy = "logid"
	// StrategyDateTime parses the date and time fields as UTC.
	StrategyDateTime Strategy = "datetime"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLogID, "":
		return StrategyLogID, nil
	case StrategyDateTime:
		return StrategyDateTime, nil
	}
	return "", fmt.Errorf("unknown timestamp strategy %q", s)
}

// PoundsToKilograms converts and rounds to one decimal place.
func PoundsToKilograms(p float64) float64 {
	return RoundOne(p / poundsPerKilogram)
}

// RoundOne rounds half away from zero to one decimal place.
func RoundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// NormalizeBodyFat treats nil and exactly 0.0 as "not measured".
func NormalizeBodyFat(raw *float64) *float64 {
	if raw == nil || *raw == 0 {
		return nil
	}
	v := RoundOne(*raw)
	return &v
}

func dateLayout(date string) (string, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("date %q is not M/D/Y", date)
	}
	switch len(parts[2]) {
	case 2:
		return "1/2/06", nil
	case 4:
		return "1/2/2006", nil
	}
	return "", fmt.Errorf("date %q has an unsupported year", date)
}

// ParseDate parses M/D/YY or M/D/YYYY.
func ParseDate(date string) (time.Time, error) {
	layout, err := dateLayout(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout, date, time.UTC)
}

// ParseDateTime parses a takeout date and HH:MM:SS time as UTC and returns
// milliseconds since the Unix epoch.
func ParseDateTime(date, clock string) (int64, error) {
	layout, err := dateLayout(date)
	if err != nil {
		return 0, err
	}
	t, err := time.ParseInLocation(layout+" 15:04:05", date+" "+clock, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
