// Package endian reports the byte order audio drivers use for native samples.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// IsLE returns true if the host architecture is little-endian.
func IsLE() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// Order returns the host byte order.
func Order() binary.ByteOrder {
	if IsLE() {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Suffix returns "le" or "be", as used in sample format names such as
// s16le.
func Suffix() string {
	if IsLE() {
		return "le"
	}
	return "be"
}

// Bytes returns the memory of samples as a byte slice without copying.
func Bytes(samples []int16) []byte {
	if len(samples) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
}
