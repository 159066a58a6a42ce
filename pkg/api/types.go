package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/pit"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind          string
	Port          int
	APIKey        string
	MaxUploadSize int64
}

// EntryResult is an entry returned by a lookup, with its position in the table
type EntryResult struct {
	Index int        `json:"index"`
	Entry *pit.Entry `json:"entry"`
}

// DiffResult is the outcome of comparing two tables
type DiffResult struct {
	Matches     bool             `json:"matches"`
	Differences []pit.Difference `json:"differences"`
}

// SnapshotCreated is returned after archiving a table
type SnapshotCreated struct {
	ID      ksuid.KSUID `json:"id"`
	Entries uint32      `json:"entries"`
}

// SnapshotStore is the subset of the archive used by the server
type SnapshotStore interface {
	PutRaw(data []byte) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) (*pit.Table, error)
	GetRaw(id ksuid.KSUID) ([]byte, error)
	Delete(id ksuid.KSUID) error
	List() ([]archive.Snapshot, error)
}
