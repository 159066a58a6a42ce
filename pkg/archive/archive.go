// Package archive keeps snapshots of packed PIT tables in a pebble database,
// keyed by KSUID so that listing order is creation order.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/pitkit/pkg/pit"
)

// ErrNotFound is returned when no snapshot exists for an id
var ErrNotFound = errors.New("archive: snapshot not found")

var (
	keyPrefix = []byte("pit/")
	keyUpper  = []byte("pit0") // '0' sorts right after '/'
)

// Snapshot describes one archived table
type Snapshot struct {
	ID      ksuid.KSUID `json:"id"`
	Created time.Time   `json:"created"`
	Entries uint32      `json:"entries"`
	Size    int         `json:"size"`
}

// Archive is a pebble-backed PIT snapshot store. It is safe for concurrent use.
type Archive struct {
	db *pebble.DB
}

// Open opens or creates an archive in dir
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close flushes and closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}

func snapshotKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(id))
	key = append(key, keyPrefix...)
	return append(key, id.Bytes()...)
}

// Put stores the packed form of t and returns its new id
func (a *Archive) Put(t *pit.Table) (ksuid.KSUID, error) {
	return a.put(t.Bytes())
}

// PutRaw stores data after checking that it unpacks as a PIT. Trailing
// padding is dropped so that the stored form is canonical.
func (a *Archive) PutRaw(data []byte) (ksuid.KSUID, error) {
	t, err := pit.Unpack(data)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("refusing to archive invalid PIT: %w", err)
	}
	return a.put(t.Bytes())
}

func (a *Archive) put(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := a.db.Set(snapshotKey(id), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return id, nil
}

// GetRaw returns the packed bytes of a snapshot
func (a *Archive) GetRaw(id ksuid.KSUID) ([]byte, error) {
	value, closer, err := a.db.Get(snapshotKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	defer closer.Close()

	// value is only valid until closer is closed
	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Get returns a snapshot unpacked into a table
func (a *Archive) Get(id ksuid.KSUID) (*pit.Table, error) {
	data, err := a.GetRaw(id)
	if err != nil {
		return nil, err
	}
	t, err := pit.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", id, err)
	}
	return t, nil
}

// Delete removes a snapshot. Deleting a missing id returns ErrNotFound.
func (a *Archive) Delete(id ksuid.KSUID) error {
	key := snapshotKey(id)
	_, closer, err := a.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	closer.Close()

	if err := a.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return nil
}

// List returns every snapshot, oldest first. Snapshots taken within the
// same second come back in random order.
func (a *Archive) List() ([]Snapshot, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyUpper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var snapshots []Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(keyPrefix):])
		if err != nil {
			return nil, fmt.Errorf("malformed archive key: %w", err)
		}
		value := iter.Value()
		t, err := pit.Unpack(value)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s is corrupt: %w", id, err)
		}
		snapshots = append(snapshots, Snapshot{
			ID:      id,
			Created: id.Time(),
			Entries: t.EntryCount(),
			Size:    len(value),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate archive: %w", err)
	}
	return snapshots, nil
}
