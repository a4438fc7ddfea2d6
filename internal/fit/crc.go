package fit

import "github.com/sigurn/crc16"

// The FIT checksum is CRC-16/ARC (poly 0x8005 reflected, zero init).
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// Checksum computes the FIT CRC16 of b.
func Checksum(b []byte) uint16 {
	return crc16.Checksum(b, crcTable)
}
