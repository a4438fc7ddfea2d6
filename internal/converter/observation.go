package converter

import (
	"fmt"

	"f2g/internal/fit"

	"github.com/spf13/cast"
)

// WeightObservation is one takeout entry after type coercion.
type WeightObservation struct {
	Index          int
	LogID          int64
	HasLogID       bool
	WeightPounds   float64
	BodyFatPercent *float64
	Date           string
	Time           string
}

// ParseObservation coerces one raw entry. Only weight is mandatory here;
// the timestamp strategy decides which of the remaining fields it needs.
func ParseObservation(file string, index int, raw any) (WeightObservation, error) {
	obs := WeightObservation{Index: index}
	fail := func(field string, value any, err error) (WeightObservation, error) {
		return WeightObservation{}, &FieldParseError{File: file, Index: index, Field: field, Value: value, Err: err}
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return fail("entry", raw, fmt.Errorf("not an object"))
	}

	w, ok := m["weight"]
	if !ok || w == nil {
		return fail("weight", nil, errMissing)
	}
	pounds, err := cast.ToFloat64E(w)
	if err != nil {
		return fail("weight", w, err)
	}
	if pounds <= 0 {
		return fail("weight", w, errNotPositive)
	}
	obs.WeightPounds = pounds

	if v, ok := m["logId"]; ok && v != nil {
		if obs.LogID, err = cast.ToInt64E(v); err != nil {
			return fail("logId", v, err)
		}
		obs.HasLogID = true
	}
	if v, ok := m["fat"]; ok && v != nil {
		fat, err := cast.ToFloat64E(v)
		if err != nil {
			return fail("fat", v, err)
		}
		obs.BodyFatPercent = &fat
	}
	if v, ok := m["date"]; ok && v != nil {
		if obs.Date, err = cast.ToStringE(v); err != nil {
			return fail("date", v, err)
		}
	}
	if v, ok := m["time"]; ok && v != nil {
		if obs.Time, err = cast.ToStringE(v); err != nil {
			return fail("time", v, err)
		}
	}
	return obs, nil
}

// Timestamp returns milliseconds since the Unix epoch for the observation.
func (o WeightObservation) Timestamp(s Strategy) (int64, error) {
	if s == StrategyDateTime {
		if o.Date == "" {
			return 0, fmt.Errorf("date: %w", errMissing)
		}
		if o.Time == "" {
			return 0, fmt.Errorf("time: %w", errMissing)
		}
		return ParseDateTime(o.Date, o.Time)
	}
	if !o.HasLogID {
		return 0, fmt.Errorf("logId: %w", errMissing)
	}
	return o.LogID, nil
}

// Outcome is the result of converting one entry: either a record or the
// reason it was skipped.
type Outcome struct {
	Record fit.WeightRecord
	Date   string
	Skip   *FieldParseError
}

func Ok(rec fit.WeightRecord, date string) Outcome {
	return Outcome{Record: rec, Date: date}
}

func Skip(err *FieldParseError) Outcome {
	return Outcome{Skip: err}
}

func (o Outcome) Ok() bool {
	return o.Skip == nil
}

func convertEntry(file string, index int, raw any, s Strategy) Outcome {
	obs, err := ParseObservation(file, index, raw)
	if err != nil {
		return Skip(err.(*FieldParseError))
	}
	ts, err := obs.Timestamp(s)
	if err != nil {
		skip := &FieldParseError{File: file, Index: index, Field: "logId", Err: err}
		if s == StrategyDateTime {
			skip.Field, skip.Value = "date/time", obs.Date+" "+obs.Time
		}
		return Skip(skip)
	}
	return Ok(fit.WeightRecord{
		Timestamp:      ts,
		WeightKg:       PoundsToKilograms(obs.WeightPounds),
		BodyFatPercent: NormalizeBodyFat(obs.BodyFatPercent),
	}, obs.Date)
}
