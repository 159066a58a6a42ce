package pit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(newTestTable())
	require.NoError(t, err)

	var view struct {
		EntryCount uint32 `json:"entry_count"`
		ComTar2    string `json:"com_tar2"`
		CPUBlID    string `json:"cpu_bl_id"`
		LUCount    uint16 `json:"lu_count"`
		DataSize   int    `json:"data_size"`
		Entries    []struct {
			PartitionName  string `json:"partition_name"`
			Identifier     uint32 `json:"identifier"`
			DeviceType     string `json:"device_type"`
			AttributeNames string `json:"attribute_names"`
			Flashable      bool   `json:"flashable"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &view))

	assert.Equal(t, uint32(3), view.EntryCount)
	assert.Equal(t, "BL", view.ComTar2)
	assert.Equal(t, "AP", view.CPUBlID)
	assert.Equal(t, uint16(1), view.LUCount)
	assert.Equal(t, HeaderSize+3*EntrySize, view.DataSize)
	require.Len(t, view.Entries, 3)
	assert.Equal(t, "PARAM", view.Entries[1].PartitionName)
	assert.Equal(t, "MMC", view.Entries[1].DeviceType)
	assert.Equal(t, "Write, STL", view.Entries[1].AttributeNames)
	assert.True(t, view.Entries[1].Flashable)
	assert.False(t, view.Entries[2].Flashable)
}

func TestTable_MarshalJSONEmpty(t *testing.T) {
	data, err := json.Marshal(NewTable())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":[]`)
}
