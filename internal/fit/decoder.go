package fit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header is the decoded file header.
type Header struct {
	Size            uint8
	ProtocolVersion uint8
	ProfileVersion  uint16
	DataSize        uint32
	DataType        string
	CRC             uint16
}

// MessageLayout records the global number and field order of one decoded
// data message, in the order the fields appear on the wire.
type MessageLayout struct {
	Global uint16
	Local  byte
	Fields []byte
}

// File is the result of Decode.
type File struct {
	Header     Header
	Descriptor FileDescriptor
	Records    []WeightRecord
	Messages   []MessageLayout
	CRC        uint16
}

// Decode reads a FIT file produced by Encode (or any little-endian FIT file
// without compressed timestamps or developer fields), verifying both CRCs.
// Messages other than file_id and weight_scale are kept in Messages only.
func Decode(b []byte) (*File, error) {
	if len(b) < 12 {
		return nil, ErrTruncated
	}
	size := int(b[0])
	if size != 12 && size != headerSize {
		return nil, ErrNotFIT
	}
	if len(b) < size+crcSize {
		return nil, ErrTruncated
	}

	h := Header{
		Size:            b[0],
		ProtocolVersion: b[1],
		ProfileVersion:  byteOrder.Uint16(b[2:4]),
		DataSize:        byteOrder.Uint32(b[4:8]),
		DataType:        string(b[8:12]),
	}
	if h.DataType != dataType {
		return nil, ErrNotFIT
	}
	if size == headerSize {
		h.CRC = byteOrder.Uint16(b[12:14])
		if h.CRC != 0 && h.CRC != Checksum(b[:12]) {
			return nil, ErrHeaderCRC
		}
	}

	end := size + int(h.DataSize)
	if len(b) < end+crcSize {
		return nil, ErrTruncated
	}
	f := &File{Header: h, CRC: byteOrder.Uint16(b[end : end+crcSize])}
	if f.CRC != Checksum(b[:end]) {
		return nil, ErrFileCRC
	}

	r := bytes.NewReader(b[size:end])
	defs := make(map[byte]MessageDef)
	for r.Len() > 0 {
		hdr, _ := r.ReadByte()
		if hdr&0x80 != 0 {
			return nil, fmt.Errorf("%w: compressed timestamp header", ErrUnsupported)
		}
		local := hdr & 0x0F
		if hdr&definitionFlag != 0 {
			if hdr&0x20 != 0 {
				return nil, fmt.Errorf("%w: developer data", ErrUnsupported)
			}
			def, err := readDefinition(r, local)
			if err != nil {
				return nil, err
			}
			defs[local] = def
			continue
		}
		def, ok := defs[local]
		if !ok {
			return nil, fmt.Errorf("%w: local %d", ErrUndefinedMesg, local)
		}
		if err := f.readData(r, def); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func readDefinition(r *bytes.Reader, local byte) (MessageDef, error) {
	var fixed struct {
		Reserved     uint8
		Architecture uint8
		Global       uint16
		NumFields    uint8
	}
	if err := binary.Read(r, byteOrder, &fixed); err != nil {
		return MessageDef{}, truncated(err)
	}
	if fixed.Architecture != architectureLE {
		return MessageDef{}, fmt.Errorf("%w: big-endian messages", ErrUnsupported)
	}

	def := MessageDef{Local: local, Global: fixed.Global, Fields: make([]FieldDef, fixed.NumFields)}
	for i := range def.Fields {
		var raw [3]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return MessageDef{}, truncated(err)
		}
		def.Fields[i] = FieldDef{Num: raw[0], Size: raw[1], Base: BaseType(raw[2])}
	}
	return def, nil
}

type rawField struct {
	base BaseType
	data []byte
}

// unsigned returns the field as an integer, false when absent or invalid.
func (rf rawField) unsigned() (uint64, bool) {
	var v uint64
	switch len(rf.data) {
	case 1:
		v = uint64(rf.data[0])
	case 2:
		v = uint64(byteOrder.Uint16(rf.data))
	case 4:
		v = uint64(byteOrder.Uint32(rf.data))
	default:
		return 0, false
	}
	if v == rf.base.Invalid() {
		return 0, false
	}
	return v, true
}

func (rf rawField) scaled(scale float64) float64 {
	v, ok := rf.unsigned()
	if !ok {
		return 0
	}
	return float64(v) / scale
}

func (rf rawField) text() string {
	if i := bytes.IndexByte(rf.data, 0); i >= 0 {
		return string(rf.data[:i])
	}
	return string(rf.data)
}

func (f *File) readData(r *bytes.Reader, def MessageDef) error {
	fields := make(map[byte]rawField, len(def.Fields))
	for _, fd := range def.Fields {
		data := make([]byte, fd.Size)
		if _, err := io.ReadFull(r, data); err != nil {
			return truncated(err)
		}
		fields[fd.Num] = rawField{base: fd.Base, data: data}
	}
	f.Messages = append(f.Messages, MessageLayout{Global: def.Global, Local: def.Local, Fields: def.FieldNums()})

	switch def.Global {
	case MesgFileID:
		f.Descriptor = decodeFileID(fields)
	case MesgWeightScale:
		f.Records = append(f.Records, decodeWeightScale(fields))
	}
	return nil
}

func decodeFileID(fields map[byte]rawField) FileDescriptor {
	var fd FileDescriptor
	if v, ok := fields[FieldFileType].unsigned(); ok {
		fd.FileType = uint8(v)
	}
	if v, ok := fields[FieldManufacturer].unsigned(); ok {
		fd.Manufacturer = uint16(v)
	}
	if v, ok := fields[FieldProduct].unsigned(); ok {
		fd.Product = uint16(v)
	}
	if v, ok := fields[FieldSerialNumber].unsigned(); ok {
		fd.SerialNumber = uint32(v)
	}
	if v, ok := fields[FieldTimeCreated].unsigned(); ok {
		fd.TimeCreated = unixMillis(v)
	}
	if v, ok := fields[FieldNumber].unsigned(); ok {
		fd.Number = uint16(v)
	}
	fd.ProductName = fields[FieldProductName].text()
	return fd
}

func decodeWeightScale(fields map[byte]rawField) WeightRecord {
	var rec WeightRecord
	if v, ok := fields[FieldTimestamp].unsigned(); ok {
		rec.Timestamp = unixMillis(v)
	}
	rec.WeightKg = fields[FieldWeight].scaled(100)
	rec.BoneMassKg = fields[FieldBoneMass].scaled(100)
	rec.MuscleMassKg = fields[FieldMuscleMass].scaled(100)
	rec.HydrationPercent = fields[FieldPercentHydration].scaled(100)
	if v, ok := fields[FieldPercentFat].unsigned(); ok {
		fat := float64(v) / 100
		rec.BodyFatPercent = &fat
	}
	return rec
}

func unixMillis(fitSeconds uint64) int64 {
	return (int64(fitSeconds) + fitEpochOffset) * 1000
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
