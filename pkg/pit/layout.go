package pit

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// FileIdentifier is the magic value stored in the first four bytes of every PIT.
const FileIdentifier uint32 = 0x12349876

// Fixed sizes of the on-wire layout.
const (
	// HeaderSize is the size of the table header; the first entry starts here
	HeaderSize = 28

	// EntrySize is the size of a single partition entry
	EntrySize = 132

	// NameCapacity is the width of each entry text field, including the terminator
	NameCapacity = 32

	// HeaderTagSize is the width of the com_tar2 and cpu_bl_id header fields
	HeaderTagSize = 8

	// PaddingBlock is the block size PIT files are padded to when sent to a device
	PaddingBlock = 4096
)

// Header field offsets.
const (
	offsetMagic      = 0
	offsetEntryCount = 4
	offsetComTar2    = 8
	offsetCPUBlID    = 16
	offsetLUCount    = 24
)

// Entry field offsets, relative to the start of the entry.
const (
	offsetBinaryType        = 0
	offsetDeviceType        = 4
	offsetIdentifier        = 8
	offsetAttributes        = 12
	offsetUpdateAttributes  = 16
	offsetBlockSizeOrOffset = 20
	offsetBlockCount        = 24
	offsetFileOffset        = 28
	offsetFileSize          = 32
	offsetPartitionName     = 36
	offsetFlashFilename     = offsetPartitionName + NameCapacity
	offsetFotaFilename      = offsetFlashFilename + NameCapacity
)

func getUint32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset:])
}

func putUint32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], v)
}

func getUint16(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset:])
}

func putUint16(buf []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:], v)
}

// readText returns the text stored in a fixed-width field, stopping at the
// first NUL or after limit bytes, whichever comes first.
func readText(buf []byte, offset, width, limit int) string {
	field := buf[offset : offset+width]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if len(field) > limit {
		field = field[:limit]
	}
	return string(field)
}

// writeText zero-fills a fixed-width field and copies s into it.
func writeText(buf []byte, offset, width int, s string) {
	field := buf[offset : offset+width]
	clear(field)
	copy(field, s)
}

// truncate cuts s at its first NUL and to at most limit bytes, which is
// exactly what a later readText of the packed field yields.
func truncate(s string, limit int) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
