package converter

import (
	"fmt"
	"sort"

	"f2g/internal/fit"
)

// Input is one parsed takeout file.
type Input struct {
	Name string
	Data any
}

// Output is one encoded FIT file.
type Output struct {
	Name     string
	Bytes    []byte
	Records  int
	Skipped  []*FieldParseError
	WeekYear string
}

type Converter struct {
	Strategy   Strategy
	Descriptor fit.FileDescriptor
}

func NewConverter(strategy Strategy) *Converter {
	return &Converter{Strategy: strategy, Descriptor: fit.DefaultFileDescriptor()}
}

// Convert converts every input in order and stops at the first failure.
// Callers that want per-file isolation should use ConvertOne.
func (c *Converter) Convert(inputs []Input) ([]Output, error) {
	outputs := make([]Output, 0, len(inputs))
	for _, in := range inputs {
		out, err := c.ConvertOne(in)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (c *Converter) ConvertOne(in Input) (Output, error) {
	if err := Validate(in.Name, in.Data); err != nil {
		return Output{}, err
	}
	entries := in.Data.([]any)

	out := Output{}
	converted := make([]Outcome, 0, len(entries))
	for i, raw := range entries {
		o := convertEntry(in.Name, i, raw, c.Strategy)
		if !o.Ok() {
			out.Skipped = append(out.Skipped, o.Skip)
			continue
		}
		converted = append(converted, o)
	}
	if len(converted) == 0 {
		return Output{}, &InvalidFormatError{File: in.Name, Reason: "no convertible records"}
	}

	sort.SliceStable(converted, func(i, j int) bool {
		return converted[i].Record.Timestamp < converted[j].Record.Timestamp
	})
	records := make([]fit.WeightRecord, len(converted))
	for i := range converted {
		records[i] = converted[i].Record
	}

	fd := c.Descriptor
	fd.TimeCreated = records[0].Timestamp
	b, err := fit.Encode(fd, records)
	if err != nil {
		return Output{}, fmt.Errorf("encode %s: %w", in.Name, err)
	}

	out.WeekYear = WeekYearFromFilename(in.Name)
	if out.WeekYear == "" {
		out.WeekYear = WeekYearFromDate(converted[0].Date)
	}
	out.Name = OutputName(out.WeekYear)
	out.Bytes = b
	out.Records = len(records)
	return out, nil
}
