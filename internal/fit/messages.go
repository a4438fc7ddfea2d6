package fit

// FileDescriptor is the file_id message that precedes all weight records.
type FileDescriptor struct {
	FileType     uint8
	Manufacturer uint16
	Product      uint16
	SerialNumber uint32
	ProductName  string
	Number       uint16
	// TimeCreated is in milliseconds since the Unix epoch.
	TimeCreated int64
}

// DefaultFileDescriptor returns the identity written by the converter when
// nothing else is configured.
func DefaultFileDescriptor() FileDescriptor {
	return FileDescriptor{
		FileType:     FileTypeWeight,
		Manufacturer: 255,
		Product:      1,
		SerialNumber: 1701,
		ProductName:  "Health Sync",
		Number:       0,
	}
}

// WeightRecord is one weight_scale message.
type WeightRecord struct {
	// Timestamp is in milliseconds since the Unix epoch. It is written with
	// second precision.
	Timestamp        int64
	WeightKg         float64
	BoneMassKg       float64
	MuscleMassKg     float64
	BodyFatPercent   *float64
	HydrationPercent float64
}

// HasBodyFat reports whether the record carries a percent_fat field.
func (r WeightRecord) HasBodyFat() bool {
	return r.BodyFatPercent != nil
}

func (r WeightRecord) definition() MessageDef {
	if r.HasBodyFat() {
		return weightScaleFatDef
	}
	return weightScaleDef
}
