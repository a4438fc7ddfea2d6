// Package fit writes and reads the subset of the FIT binary format needed
// for weight history: one file_id message followed by weight_scale messages.
package fit

// Seconds between the Unix epoch and the FIT epoch (1989-12-31T00:00:00Z).
const fitEpochOffset = 631065600

// Readers treat date_time values below this as relative system time.
const minAbsoluteTime = 0x10000000

const (
	headerSize      = 14
	protocolVersion = 0x20 // 2.0
	profileVersion  = 2132
	dataType        = ".FIT"

	definitionFlag = 0x40
	architectureLE = 0
	crcSize        = 2
)

// Global message numbers.
const (
	MesgFileID      uint16 = 0
	MesgWeightScale uint16 = 30
)

// file_id field numbers.
const (
	FieldFileType     byte = 0
	FieldManufacturer byte = 1
	FieldProduct      byte = 2
	FieldSerialNumber byte = 3
	FieldTimeCreated  byte = 4
	FieldNumber       byte = 5
	FieldProductName  byte = 8
)

// weight_scale field numbers.
const (
	FieldTimestamp        byte = 253
	FieldWeight           byte = 0
	FieldPercentFat       byte = 1
	FieldPercentHydration byte = 2
	FieldBoneMass         byte = 4
	FieldMuscleMass       byte = 5
)

// FileTypeWeight is the file_id.type value for weight files.
const FileTypeWeight = 4

// productNameSize is the fixed width of the product_name string field,
// including the terminating NUL.
const productNameSize = 50

// BaseType is a FIT base type code as written in definition messages.
type BaseType byte

const (
	BaseEnum    BaseType = 0x00
	BaseString  BaseType = 0x07
	BaseUint16  BaseType = 0x84
	BaseUint32  BaseType = 0x86
	BaseUint32z BaseType = 0x8C
)

// Size returns the width in bytes of a single value of the base type.
// Strings report 1; their field size is set per field.
func (b BaseType) Size() int {
	switch b {
	case BaseUint16:
		return 2
	case BaseUint32, BaseUint32z:
		return 4
	default:
		return 1
	}
}

// Invalid returns the sentinel the format reserves for "no value".
func (b BaseType) Invalid() uint64 {
	switch b {
	case BaseEnum:
		return 0xFF
	case BaseUint16:
		return 0xFFFF
	case BaseUint32:
		return 0xFFFFFFFF
	default:
		return 0
	}
}

// FieldDef describes one field slot of a message definition.
type FieldDef struct {
	Name  string
	Num   byte
	Size  byte
	Base  BaseType
	Scale float64
}

// MessageDef is a local message definition. Field order is significant:
// data messages are laid out positionally in exactly this order.
type MessageDef struct {
	Local  byte
	Global uint16
	Fields []FieldDef
}

// FieldNums returns the field numbers in definition order.
func (d MessageDef) FieldNums() []byte {
	nums := make([]byte, len(d.Fields))
	for i, f := range d.Fields {
		nums[i] = f.Num
	}
	return nums
}

// dataSize returns the byte length of one data message body.
func (d MessageDef) dataSize() int {
	n := 0
	for _, f := range d.Fields {
		n += int(f.Size)
	}
	return n
}

const (
	localFileID byte = iota
	localWeight
	localWeightWithFat
)

var fileIDDef = MessageDef{
	Local:  localFileID,
	Global: MesgFileID,
	Fields: []FieldDef{
		{Name: "type", Num: FieldFileType, Size: 1, Base: BaseEnum},
		{Name: "manufacturer", Num: FieldManufacturer, Size: 2, Base: BaseUint16},
		{Name: "product", Num: FieldProduct, Size: 2, Base: BaseUint16},
		{Name: "serial_number", Num: FieldSerialNumber, Size: 4, Base: BaseUint32z},
		{Name: "time_created", Num: FieldTimeCreated, Size: 4, Base: BaseUint32},
		{Name: "product_name", Num: FieldProductName, Size: productNameSize, Base: BaseString},
		{Name: "number", Num: FieldNumber, Size: 2, Base: BaseUint16},
	},
}

var (
	weightTimestamp  = FieldDef{Name: "timestamp", Num: FieldTimestamp, Size: 4, Base: BaseUint32}
	weightWeight     = FieldDef{Name: "weight", Num: FieldWeight, Size: 2, Base: BaseUint16, Scale: 100}
	weightBoneMass   = FieldDef{Name: "bone_mass", Num: FieldBoneMass, Size: 2, Base: BaseUint16, Scale: 100}
	weightMuscleMass = FieldDef{Name: "muscle_mass", Num: FieldMuscleMass, Size: 2, Base: BaseUint16, Scale: 100}
	weightPercentFat = FieldDef{Name: "percent_fat", Num: FieldPercentFat, Size: 2, Base: BaseUint16, Scale: 100}
	weightHydration  = FieldDef{Name: "percent_hydration", Num: FieldPercentHydration, Size: 2, Base: BaseUint16, Scale: 100}
)

// Importers locate weight_scale fields by position. percent_fat, when present,
// must sit between muscle_mass and percent_hydration.
var weightScaleDef = MessageDef{
	Local:  localWeight,
	Global: MesgWeightScale,
	Fields: []FieldDef{weightTimestamp, weightWeight, weightBoneMass, weightMuscleMass, weightHydration},
}

var weightScaleFatDef = MessageDef{
	Local:  localWeightWithFat,
	Global: MesgWeightScale,
	Fields: []FieldDef{weightTimestamp, weightWeight, weightBoneMass, weightMuscleMass, weightPercentFat, weightHydration},
}

// WeightScaleFieldOrder returns the field numbers a weight_scale message is
// written with, depending on whether body fat is present.
func WeightScaleFieldOrder(withFat bool) []byte {
	if withFat {
		return weightScaleFatDef.FieldNums()
	}
	return weightScaleDef.FieldNums()
}
