// Package buf contains bounds-checked, endian-safe byte-buffer helpers for
// arena-offset addressing.
package buf

import "encoding/binary"

// U32 reads a little-endian uint32 at off. Returns 0 when out of bounds.
func U32(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// PutU32 writes a little-endian uint32 at off. Out-of-bounds writes are dropped.
func PutU32(b []byte, off int, v uint32) {
	if off < 0 || off+4 > len(b) {
		return
	}
	binary.LittleEndian.PutUint32(b[off:], v)
}
