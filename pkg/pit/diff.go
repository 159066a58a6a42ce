package pit

import "fmt"

// Difference describes one field that differs between two tables.
type Difference struct {
	// Index is the entry index, or -1 for a header field
	Index int    `json:"index"`
	Field string `json:"field"`
	A     string `json:"a"`
	B     string `json:"b"`
}

func (d Difference) String() string {
	if d.Index < 0 {
		return fmt.Sprintf("header.%s: %q != %q", d.Field, d.A, d.B)
	}
	return fmt.Sprintf("entry[%d].%s: %q != %q", d.Index, d.Field, d.A, d.B)
}

// Diff lists the fields in which a and b differ. It returns nil exactly when
// a.Matches(b). Entries are compared by position; surplus entries on either
// side are reported as a whole, and a nil table differs from any non-nil one.
func Diff(a, b *Table) []Difference {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return []Difference{{Index: -1, Field: "table", A: describe(a), B: describe(b)}}
	}

	var diffs []Difference
	add := func(index int, field string, va, vb any) {
		sa, sb := fmt.Sprint(va), fmt.Sprint(vb)
		if sa != sb {
			diffs = append(diffs, Difference{Index: index, Field: field, A: sa, B: sb})
		}
	}

	add(-1, "entryCount", a.EntryCount(), b.EntryCount())
	add(-1, "com_tar2", a.comTar2, b.comTar2)
	add(-1, "cpu_bl_id", a.cpuBlID, b.cpuBlID)
	add(-1, "luCount", a.LUCount, b.LUCount)

	n := max(len(a.entries), len(b.entries))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a.entries):
			diffs = append(diffs, Difference{Index: i, Field: "entry", A: "", B: b.entries[i].PartitionName()})
		case i >= len(b.entries):
			diffs = append(diffs, Difference{Index: i, Field: "entry", A: a.entries[i].PartitionName(), B: ""})
		default:
			ea, eb := a.entries[i], b.entries[i]
			add(i, "binaryType", uint32(ea.BinaryType), uint32(eb.BinaryType))
			add(i, "deviceType", uint32(ea.DeviceType), uint32(eb.DeviceType))
			add(i, "identifier", ea.Identifier, eb.Identifier)
			add(i, "attributes", uint32(ea.Attributes), uint32(eb.Attributes))
			add(i, "updateAttributes", uint32(ea.UpdateAttributes), uint32(eb.UpdateAttributes))
			add(i, "blockSizeOrOffset", ea.BlockSizeOrOffset, eb.BlockSizeOrOffset)
			add(i, "blockCount", ea.BlockCount, eb.BlockCount)
			add(i, "fileOffset", ea.FileOffset, eb.FileOffset)
			add(i, "fileSize", ea.FileSize, eb.FileSize)
			add(i, "partitionName", ea.partitionName, eb.partitionName)
			add(i, "flashFilename", ea.flashFilename, eb.flashFilename)
			add(i, "fotaFilename", ea.fotaFilename, eb.fotaFilename)
		}
	}
	return diffs
}

func describe(t *Table) string {
	if t == nil {
		return "nil"
	}
	return fmt.Sprintf("%d entries", len(t.entries))
}
