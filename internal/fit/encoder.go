package fit

import (
	"bytes"
	"encoding/binary"
	"math"
)

var byteOrder = binary.LittleEndian

type fieldValue struct {
	num uint64
	str string
}

// Encode serializes a weight file: header, file_id, then the records in the
// order given, followed by the file CRC. Each local definition is written
// once, immediately before its first data message.
func Encode(fd FileDescriptor, records []WeightRecord) ([]byte, error) {
	var body bytes.Buffer
	defined := make(map[byte]bool, 3)

	values, err := fileIDValues(fd)
	if err != nil {
		return nil, err
	}
	writeMessage(&body, defined, fileIDDef, values)

	for i := range records {
		values, err := weightValues(records[i])
		if err != nil {
			return nil, err
		}
		writeMessage(&body, defined, records[i].definition(), values)
	}

	if uint64(body.Len()) > math.MaxUint32 {
		return nil, &EncodingOverflowError{Message: "header", Field: "data_size", Value: body.Len()}
	}

	out := make([]byte, 0, headerSize+body.Len()+crcSize)
	out = appendHeader(out, uint32(body.Len()))
	out = append(out, body.Bytes()...)
	return byteOrder.AppendUint16(out, Checksum(out)), nil
}

func appendHeader(b []byte, dataSize uint32) []byte {
	start := len(b)
	b = append(b, headerSize, protocolVersion)
	b = byteOrder.AppendUint16(b, profileVersion)
	b = byteOrder.AppendUint32(b, dataSize)
	b = append(b, dataType...)
	return byteOrder.AppendUint16(b, Checksum(b[start:]))
}

func writeMessage(buf *bytes.Buffer, defined map[byte]bool, def MessageDef, values []fieldValue) {
	if !defined[def.Local] {
		writeDefinition(buf, def)
		defined[def.Local] = true
	}
	buf.WriteByte(def.Local)
	for i, f := range def.Fields {
		writeField(buf, f, values[i])
	}
}

// writeDefinition writes: header, reserved, architecture, global number,
// field count, then (number, size, base type) per field.
func writeDefinition(buf *bytes.Buffer, def MessageDef) {
	buf.WriteByte(definitionFlag | def.Local)
	buf.WriteByte(0)
	buf.WriteByte(architectureLE)
	buf.Write(byteOrder.AppendUint16(nil, def.Global))
	buf.WriteByte(byte(len(def.Fields)))
	for _, f := range def.Fields {
		buf.Write([]byte{f.Num, f.Size, byte(f.Base)})
	}
}

func writeField(buf *bytes.Buffer, f FieldDef, v fieldValue) {
	switch f.Base {
	case BaseString:
		s := make([]byte, f.Size)
		copy(s, v.str)
		buf.Write(s)
	case BaseUint16:
		buf.Write(byteOrder.AppendUint16(nil, uint16(v.num)))
	case BaseUint32, BaseUint32z:
		buf.Write(byteOrder.AppendUint32(nil, uint32(v.num)))
	default:
		buf.WriteByte(byte(v.num))
	}
}

// valueBuilder collects field values in definition order and keeps the
// first overflow it sees.
type valueBuilder struct {
	mesg   string
	values []fieldValue
	err    error
}

func (b *valueBuilder) unsigned(f FieldDef, v uint64) {
	if b.err != nil {
		return
	}
	if v >= f.Base.Invalid() && f.Base != BaseUint32z {
		b.err = &EncodingOverflowError{Message: b.mesg, Field: f.Name, Value: v}
		return
	}
	b.values = append(b.values, fieldValue{num: v})
}

func (b *valueBuilder) scaled(f FieldDef, v float64) {
	if b.err != nil {
		return
	}
	scaled := math.Round(v * f.Scale)
	if math.IsNaN(scaled) || scaled < 0 || scaled >= float64(f.Base.Invalid()) {
		b.err = &EncodingOverflowError{Message: b.mesg, Field: f.Name, Value: v}
		return
	}
	b.values = append(b.values, fieldValue{num: uint64(scaled)})
}

// timestamp converts Unix milliseconds to FIT seconds. Anything before
// 1998-07-05 would read back as relative time and is rejected.
func (b *valueBuilder) timestamp(f FieldDef, ms int64) {
	if b.err != nil {
		return
	}
	secs := ms/1000 - fitEpochOffset
	if ms < 0 || secs < minAbsoluteTime || secs >= int64(BaseUint32.Invalid()) {
		b.err = &EncodingOverflowError{Message: b.mesg, Field: f.Name, Value: ms}
		return
	}
	b.values = append(b.values, fieldValue{num: uint64(secs)})
}

func (b *valueBuilder) text(f FieldDef, s string) {
	if b.err != nil {
		return
	}
	// One byte is kept for the terminating NUL.
	if len(s) >= int(f.Size) {
		b.err = &EncodingOverflowError{Message: b.mesg, Field: f.Name, Value: s}
		return
	}
	b.values = append(b.values, fieldValue{str: s})
}

func fileIDValues(fd FileDescriptor) ([]fieldValue, error) {
	f := fileIDDef.Fields
	b := &valueBuilder{mesg: "file_id", values: make([]fieldValue, 0, len(f))}
	b.unsigned(f[0], uint64(fd.FileType))
	b.unsigned(f[1], uint64(fd.Manufacturer))
	b.unsigned(f[2], uint64(fd.Product))
	b.unsigned(f[3], uint64(fd.SerialNumber))
	b.timestamp(f[4], fd.TimeCreated)
	b.text(f[5], fd.ProductName)
	b.unsigned(f[6], uint64(fd.Number))
	return b.values, b.err
}

func weightValues(r WeightRecord) ([]fieldValue, error) {
	b := &valueBuilder{mesg: "weight_scale", values: make([]fieldValue, 0, 6)}
	b.timestamp(weightTimestamp, r.Timestamp)
	b.scaled(weightWeight, r.WeightKg)
	b.scaled(weightBoneMass, r.BoneMassKg)
	b.scaled(weightMuscleMass, r.MuscleMassKg)
	if r.HasBodyFat() {
		b.scaled(weightPercentFat, *r.BodyFatPercent)
	}
	b.scaled(weightHydration, r.HydrationPercent)
	return b.values, b.err
}
