package pit

import "encoding/json"

type entryJSON struct {
	BinaryType        string `json:"binary_type"`
	DeviceType        string `json:"device_type"`
	Identifier        uint32 `json:"identifier"`
	Attributes        uint32 `json:"attributes"`
	AttributeNames    string `json:"attribute_names"`
	UpdateAttributes  uint32 `json:"update_attributes"`
	UpdateNames       string `json:"update_attribute_names"`
	BlockSizeOrOffset uint32 `json:"block_size_or_offset"`
	BlockCount        uint32 `json:"block_count"`
	FileOffset        uint32 `json:"file_offset"`
	FileSize          uint32 `json:"file_size"`
	PartitionName     string `json:"partition_name"`
	FlashFilename     string `json:"flash_filename"`
	FotaFilename      string `json:"fota_filename"`
	Flashable         bool   `json:"flashable"`
}

type tableJSON struct {
	EntryCount      uint32   `json:"entry_count"`
	ComTar2         string   `json:"com_tar2"`
	CPUBootloaderID string   `json:"cpu_bl_id"`
	LUCount         uint16   `json:"lu_count"`
	DataSize        int      `json:"data_size"`
	Entries         []*Entry `json:"entries"`
}

// MarshalJSON renders the entry for display. It is not an alternative
// storage format; there is no matching UnmarshalJSON.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		BinaryType:        e.BinaryType.String(),
		DeviceType:        e.DeviceType.String(),
		Identifier:        e.Identifier,
		Attributes:        uint32(e.Attributes),
		AttributeNames:    e.Attributes.String(),
		UpdateAttributes:  uint32(e.UpdateAttributes),
		UpdateNames:       e.UpdateAttributes.String(),
		BlockSizeOrOffset: e.BlockSizeOrOffset,
		BlockCount:        e.BlockCount,
		FileOffset:        e.FileOffset,
		FileSize:          e.FileSize,
		PartitionName:     e.partitionName,
		FlashFilename:     e.flashFilename,
		FotaFilename:      e.fotaFilename,
		Flashable:         e.IsFlashable(),
	})
}

// MarshalJSON renders the table header and entries for display.
func (t *Table) MarshalJSON() ([]byte, error) {
	entries := t.entries
	if entries == nil {
		entries = []*Entry{}
	}
	return json.Marshal(tableJSON{
		EntryCount:      t.EntryCount(),
		ComTar2:         t.comTar2,
		CPUBootloaderID: t.cpuBlID,
		LUCount:         t.LUCount,
		DataSize:        t.DataSize(),
		Entries:         entries,
	})
}
