package pit

// Table is a parsed PIT: header fields plus the ordered partition entries.
// The zero value is an empty table. A Table is not safe for concurrent
// mutation.
type Table struct {
	// LUCount is the number of logical units the table describes
	LUCount uint16

	comTar2 string
	cpuBlID string
	entries []*Entry
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// Unpack parses data into a new Table.
func Unpack(data []byte) (*Table, error) {
	t := &Table{}
	if err := t.Unpack(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Pack serializes t into a newly allocated buffer of t.DataSize() bytes.
func Pack(t *Table) []byte {
	return t.Bytes()
}

// Unpack replaces the contents of t with the table parsed from data.
//
// data must start with FileIdentifier and hold at least
// HeaderSize + count*EntrySize bytes; trailing bytes such as block padding
// are ignored. On error t is left unmodified.
func (t *Table) Unpack(data []byte) error {
	if len(data) < offsetEntryCount {
		return &TruncatedError{Need: offsetEntryCount, Have: len(data)}
	}
	if magic := getUint32(data, offsetMagic); magic != FileIdentifier {
		return &MagicMismatchError{Got: magic}
	}
	if len(data) < HeaderSize {
		return &TruncatedError{Need: HeaderSize, Have: len(data)}
	}

	count := getUint32(data, offsetEntryCount)
	need := uint64(HeaderSize) + uint64(count)*EntrySize
	if uint64(len(data)) < need {
		return &TruncatedError{Need: int(min(need, uint64(maxInt))), Have: len(data)}
	}

	entries := make([]*Entry, count)
	for i := range entries {
		offset := HeaderSize + i*EntrySize
		entries[i] = unpackEntry(data[offset : offset+EntrySize])
	}

	*t = Table{
		LUCount: getUint16(data, offsetLUCount),
		comTar2: readText(data, offsetComTar2, HeaderTagSize, HeaderTagSize),
		cpuBlID: readText(data, offsetCPUBlID, HeaderTagSize, HeaderTagSize),
		entries: entries,
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

// Pack writes t into the first DataSize() bytes of buf. Bytes past that are
// left untouched.
func (t *Table) Pack(buf []byte) error {
	size := t.DataSize()
	if len(buf) < size {
		return &TruncatedError{Need: size, Have: len(buf)}
	}

	putUint32(buf, offsetMagic, FileIdentifier)
	putUint32(buf, offsetEntryCount, t.EntryCount())
	writeText(buf, offsetComTar2, HeaderTagSize, t.comTar2)
	writeText(buf, offsetCPUBlID, HeaderTagSize, t.cpuBlID)
	putUint16(buf, offsetLUCount, t.LUCount)
	// Two reserved bytes between luCount and the first entry.
	clear(buf[offsetLUCount+2 : HeaderSize])

	for i, e := range t.entries {
		offset := HeaderSize + i*EntrySize
		e.pack(buf[offset : offset+EntrySize])
	}
	return nil
}

// Bytes returns t packed into a buffer of exactly DataSize() bytes.
func (t *Table) Bytes() []byte {
	buf := make([]byte, t.DataSize())
	// Cannot fail: buf is exactly the required size.
	_ = t.Pack(buf)
	return buf
}

// PackPadded returns t packed into a zero-padded buffer of PaddedSize() bytes,
// the form in which a PIT is transferred to a device.
func (t *Table) PackPadded() []byte {
	buf := make([]byte, t.PaddedSize())
	_ = t.Pack(buf)
	return buf
}

// DataSize returns the number of bytes the packed table occupies.
func (t *Table) DataSize() int {
	return HeaderSize + len(t.entries)*EntrySize
}

// PaddedSize returns DataSize rounded up to a multiple of PaddingBlock.
func (t *Table) PaddedSize() int {
	size := t.DataSize()
	if rem := size % PaddingBlock; rem != 0 {
		size += PaddingBlock - rem
	}
	return size
}

// EntryCount returns the number of entries in the table.
func (t *Table) EntryCount() uint32 {
	return uint32(len(t.entries))
}

// ComTar2 returns the com_tar2 header tag.
func (t *Table) ComTar2() string {
	return t.comTar2
}

// SetComTar2 stores the com_tar2 tag, truncated to HeaderTagSize bytes.
func (t *Table) SetComTar2(s string) {
	t.comTar2 = truncate(s, HeaderTagSize)
}

// CPUBootloaderID returns the cpu_bl_id header tag.
func (t *Table) CPUBootloaderID() string {
	return t.cpuBlID
}

// SetCPUBootloaderID stores the cpu_bl_id tag, truncated to HeaderTagSize bytes.
func (t *Table) SetCPUBootloaderID(s string) {
	t.cpuBlID = truncate(s, HeaderTagSize)
}

// Matches reports whether t and other have equal headers and pairwise
// matching entries in the same order.
func (t *Table) Matches(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.EntryCount() != other.EntryCount() ||
		t.comTar2 != other.comTar2 ||
		t.cpuBlID != other.cpuBlID ||
		t.LUCount != other.LUCount {
		return false
	}
	for i, e := range t.entries {
		if !e.Matches(other.entries[i]) {
			return false
		}
	}
	return true
}

// Clear drops every entry and resets the header, leaving t equal to NewTable().
func (t *Table) Clear() {
	*t = Table{}
}

// AddEntry appends a copy of e to the table and returns the stored entry,
// which later edits should go through. A nil e is ignored and returns nil.
func (t *Table) AddEntry(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	stored := *e
	t.entries = append(t.entries, &stored)
	return &stored
}

// Entry returns the entry at index.
func (t *Table) Entry(index int) (*Entry, error) {
	if index < 0 || index >= len(t.entries) {
		return nil, &IndexOutOfRangeError{Index: index, Count: len(t.entries)}
	}
	return t.entries[index], nil
}

// Entries returns the entries in on-wire order. The slice is a copy; the
// entries are not.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// FindByName returns the first flashable entry whose partition name is
// exactly name.
func (t *Table) FindByName(name string) (*Entry, bool) {
	for _, e := range t.entries {
		if e.IsFlashable() && e.partitionName == name {
			return e, true
		}
	}
	return nil, false
}

// FindByID returns the first flashable entry with the given identifier.
func (t *Table) FindByID(id uint32) (*Entry, bool) {
	for _, e := range t.entries {
		if e.IsFlashable() && e.Identifier == id {
			return e, true
		}
	}
	return nil, false
}
