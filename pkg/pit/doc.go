// Package pit reads and writes PIT (partition information table) files, the
// fixed-layout binary table that describes the flash partitions of a mobile
// device.
//
// # File Format
//
// All integers are little-endian. The header is 28 bytes:
//
//	[Magic(4)][EntryCount(4)][com_tar2(8)][cpu_bl_id(8)][LUCount(2)][Reserved(2)]
//
// It is followed by EntryCount entries of 132 bytes each:
//
//	[BinaryType(4)][DeviceType(4)][Identifier(4)][Attributes(4)][UpdateAttributes(4)]
//	[BlockSizeOrOffset(4)][BlockCount(4)][FileOffset(4)][FileSize(4)]
//	[PartitionName(32)][FlashFilename(32)][FotaFilename(32)]
//
// The magic value is FileIdentifier (0x12349876). The total size of a table
// is 28 + EntryCount*132 bytes; files sent to a device are usually padded
// with zeros up to a multiple of 4096.
//
// Text fields are NUL-terminated inside their fixed width. Entry text fields
// hold at most 31 bytes of content and setters silently truncate longer
// input. The two header tags hold up to 8 bytes and need no terminator on the
// wire.
//
// # Usage
//
//	table, err := pit.Unpack(data)
//	if err != nil {
//	    return err
//	}
//
//	if boot, ok := table.FindByName("BOOT"); ok {
//	    fmt.Println(boot.FlashFilename())
//	}
//
//	out := pit.Pack(table)
//
// # Error Handling
//
// Unpack fails on a wrong magic value (ErrBadMagic) and on buffers shorter
// than the header or the entry count implies (ErrTruncated). Entry reports
// ErrIndexOutOfRange for an invalid index. Each is returned as a typed error
// carrying the details and can be tested with errors.Is. A failed Unpack
// never modifies the receiving table.
//
// Lookups by name or identifier only consider flashable entries (attribute
// bit 0) and report a miss with a false second result rather than an error.
//
// # Thread Safety
//
// Tables carry no internal locking. Concurrent reads are fine; mutation must
// be serialized by the owner.
package pit
