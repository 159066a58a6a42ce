package archive

import (
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/pitkit/pkg/pit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func sampleTable(names ...string) *pit.Table {
	table := pit.NewTable()
	table.SetComTar2("BL")
	table.SetCPUBootloaderID("AP")
	table.LUCount = 1
	for i, name := range names {
		e := pit.NewEntry()
		e.Identifier = uint32(i + 1)
		e.Attributes = pit.AttributeWrite
		e.SetPartitionName(name)
		table.AddEntry(e)
	}
	return table
}

func TestArchive_PutGet(t *testing.T) {
	a := openTestArchive(t)
	table := sampleTable("BOOT", "RECOVERY")

	id, err := a.Put(table)
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, id)

	got, err := a.Get(id)
	require.NoError(t, err)
	assert.True(t, got.Matches(table))

	raw, err := a.GetRaw(id)
	require.NoError(t, err)
	assert.Equal(t, table.Bytes(), raw)
}

func TestArchive_PutRaw(t *testing.T) {
	a := openTestArchive(t)
	table := sampleTable("SYSTEM")

	t.Run("padded input is stored canonically", func(t *testing.T) {
		id, err := a.PutRaw(table.PackPadded())
		require.NoError(t, err)

		raw, err := a.GetRaw(id)
		require.NoError(t, err)
		assert.Len(t, raw, table.DataSize())
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		_, err := a.PutRaw([]byte("definitely not a pit file"))
		require.Error(t, err)
		assert.ErrorIs(t, err, pit.ErrBadMagic)
	})
}

func TestArchive_NotFound(t *testing.T) {
	a := openTestArchive(t)
	missing := ksuid.New()

	_, err := a.Get(missing)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.GetRaw(missing)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, a.Delete(missing), ErrNotFound)
}

func TestArchive_DeleteAndList(t *testing.T) {
	a := openTestArchive(t)

	snapshots, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	first, err := a.Put(sampleTable("BOOT"))
	require.NoError(t, err)
	second, err := a.Put(sampleTable("BOOT", "SYSTEM", "USERDATA"))
	require.NoError(t, err)

	snapshots, err = a.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	byID := map[ksuid.KSUID]Snapshot{}
	for _, s := range snapshots {
		byID[s.ID] = s
	}
	assert.Equal(t, uint32(1), byID[first].Entries)
	assert.Equal(t, uint32(3), byID[second].Entries)
	assert.Equal(t, pit.HeaderSize+3*pit.EntrySize, byID[second].Size)
	assert.False(t, byID[second].Created.IsZero())

	require.NoError(t, a.Delete(first))

	snapshots, err = a.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, second, snapshots[0].ID)
}
