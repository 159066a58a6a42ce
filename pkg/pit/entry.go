package pit

import "fmt"

// BinaryType identifies which processor a partition's binary belongs to.
type BinaryType uint32

const (
	BinaryTypeApplicationProcessor   BinaryType = 0
	BinaryTypeCommunicationProcessor BinaryType = 1
)

func (b BinaryType) String() string {
	switch b {
	case BinaryTypeApplicationProcessor:
		return "AP"
	case BinaryTypeCommunicationProcessor:
		return "CP"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(b))
	}
}

// DeviceType identifies the storage device a partition lives on.
type DeviceType uint32

const (
	DeviceTypeOneNAND DeviceType = 0
	DeviceTypeFile    DeviceType = 1 // FAT
	DeviceTypeMMC     DeviceType = 2
	DeviceTypeAll     DeviceType = 3
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTypeOneNAND:
		return "OneNAND"
	case DeviceTypeFile:
		return "File/FAT"
	case DeviceTypeMMC:
		return "MMC"
	case DeviceTypeAll:
		return "All"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(d))
	}
}

// Attribute is the bit set stored in an entry's attributes field.
type Attribute uint32

const (
	// AttributeWrite marks a partition as flashable
	AttributeWrite Attribute = 1 << 0

	// AttributeSTL marks a partition as sitting behind the sector translation layer
	AttributeSTL Attribute = 1 << 1
)

func (a Attribute) String() string {
	return formatFlags(uint32(a), []flagName{
		{uint32(AttributeWrite), "Write"},
		{uint32(AttributeSTL), "STL"},
	}, "Read-Only")
}

// UpdateAttribute is the bit set stored in an entry's update attributes field.
type UpdateAttribute uint32

const (
	UpdateAttributeFOTA   UpdateAttribute = 1 << 0
	UpdateAttributeSecure UpdateAttribute = 1 << 1
)

func (u UpdateAttribute) String() string {
	return formatFlags(uint32(u), []flagName{
		{uint32(UpdateAttributeFOTA), "FOTA"},
		{uint32(UpdateAttributeSecure), "Secure"},
	}, "None")
}

type flagName struct {
	bit  uint32
	name string
}

func formatFlags(v uint32, names []flagName, none string) string {
	if v == 0 {
		return none
	}
	s := ""
	for _, f := range names {
		if v&f.bit == 0 {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += f.name
		v &^= f.bit
	}
	if v != 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("0x%X", v)
	}
	return s
}

// Entry is a single partition record. The zero value is an empty entry.
//
// Text fields are kept behind setters so that they always fit the fixed
// 32-byte wire field: anything past 31 bytes is dropped.
type Entry struct {
	BinaryType        BinaryType
	DeviceType        DeviceType
	Identifier        uint32
	Attributes        Attribute
	UpdateAttributes  UpdateAttribute
	BlockSizeOrOffset uint32
	BlockCount        uint32
	FileOffset        uint32
	FileSize          uint32

	partitionName string
	flashFilename string
	fotaFilename  string
}

// NewEntry creates an empty entry
func NewEntry() *Entry {
	return &Entry{}
}

// PartitionName returns the partition name, e.g. "BOOT" or "SYSTEM".
func (e *Entry) PartitionName() string {
	return e.partitionName
}

// FlashFilename returns the name of the image file flashed to this partition.
func (e *Entry) FlashFilename() string {
	return e.flashFilename
}

func (e *Entry) FotaFilename() string {
	return e.fotaFilename
}

// SetPartitionName stores name, silently truncated to NameCapacity-1 bytes.
func (e *Entry) SetPartitionName(name string) {
	e.partitionName = truncate(name, NameCapacity-1)
}

// SetFlashFilename stores name, silently truncated to NameCapacity-1 bytes.
func (e *Entry) SetFlashFilename(name string) {
	e.flashFilename = truncate(name, NameCapacity-1)
}

// SetFotaFilename stores name, silently truncated to NameCapacity-1 bytes.
func (e *Entry) SetFotaFilename(name string) {
	e.fotaFilename = truncate(name, NameCapacity-1)
}

// IsFlashable reports whether the write attribute is set.
func (e *Entry) IsFlashable() bool {
	return e.Attributes&AttributeWrite != 0
}

// IsSTL reports whether the STL attribute is set.
func (e *Entry) IsSTL() bool {
	return e.Attributes&AttributeSTL != 0
}

func (e *Entry) IsFOTA() bool {
	return e.UpdateAttributes&UpdateAttributeFOTA != 0
}

func (e *Entry) IsSecure() bool {
	return e.UpdateAttributes&UpdateAttributeSecure != 0
}

// Matches reports whether every field of e equals the same field of other.
// Text comparison is exact.
func (e *Entry) Matches(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return *e == *other
}

// unpackEntry decodes the EntrySize bytes at the start of buf.
func unpackEntry(buf []byte) *Entry {
	return &Entry{
		BinaryType:        BinaryType(getUint32(buf, offsetBinaryType)),
		DeviceType:        DeviceType(getUint32(buf, offsetDeviceType)),
		Identifier:        getUint32(buf, offsetIdentifier),
		Attributes:        Attribute(getUint32(buf, offsetAttributes)),
		UpdateAttributes:  UpdateAttribute(getUint32(buf, offsetUpdateAttributes)),
		BlockSizeOrOffset: getUint32(buf, offsetBlockSizeOrOffset),
		BlockCount:        getUint32(buf, offsetBlockCount),
		FileOffset:        getUint32(buf, offsetFileOffset),
		FileSize:          getUint32(buf, offsetFileSize),
		partitionName:     readText(buf, offsetPartitionName, NameCapacity, NameCapacity-1),
		flashFilename:     readText(buf, offsetFlashFilename, NameCapacity, NameCapacity-1),
		fotaFilename:      readText(buf, offsetFotaFilename, NameCapacity, NameCapacity-1),
	}
}

// pack encodes e into the EntrySize bytes at the start of buf.
func (e *Entry) pack(buf []byte) {
	putUint32(buf, offsetBinaryType, uint32(e.BinaryType))
	putUint32(buf, offsetDeviceType, uint32(e.DeviceType))
	putUint32(buf, offsetIdentifier, e.Identifier)
	putUint32(buf, offsetAttributes, uint32(e.Attributes))
	putUint32(buf, offsetUpdateAttributes, uint32(e.UpdateAttributes))
	putUint32(buf, offsetBlockSizeOrOffset, e.BlockSizeOrOffset)
	putUint32(buf, offsetBlockCount, e.BlockCount)
	putUint32(buf, offsetFileOffset, e.FileOffset)
	putUint32(buf, offsetFileSize, e.FileSize)
	writeText(buf, offsetPartitionName, NameCapacity, e.partitionName)
	writeText(buf, offsetFlashFilename, NameCapacity, e.flashFilename)
	writeText(buf, offsetFotaFilename, NameCapacity, e.fotaFilename)
}
