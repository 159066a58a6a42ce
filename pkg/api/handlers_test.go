package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/logging"
	"github.com/ssargent/pitkit/pkg/pit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// setupTestServer creates a router backed by a temporary archive
func setupTestServer(t *testing.T) (http.Handler, *archive.Archive) {
	t.Helper()

	store, err := archive.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	server := NewServer(store, ServerConfig{
		APIKey:        testAPIKey,
		MaxUploadSize: 64 * 1024,
	}, NewMetrics(reg), logging.Discard())

	return NewRouter(server, reg), store
}

func testTable() *pit.Table {
	table := pit.NewTable()
	table.SetComTar2("BL")
	table.SetCPUBootloaderID("AP")
	table.LUCount = 1

	placeholder := pit.NewEntry()
	placeholder.Identifier = 7
	placeholder.SetPartitionName("BOOT")
	table.AddEntry(placeholder)

	boot := pit.NewEntry()
	boot.Identifier = 7
	boot.Attributes = pit.AttributeWrite
	boot.DeviceType = pit.DeviceTypeMMC
	boot.SetPartitionName("BOOT")
	boot.SetFlashFilename("boot.img")
	table.AddEntry(boot)
	return table
}

func doRequest(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of an APIResponse into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, "unexpected error response: %s", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error
}

func TestServer_handleHealth(t *testing.T) {
	h, _ := setupTestServer(t)

	w := doRequest(t, h, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	decodeData(t, w, &data)
	assert.Equal(t, "healthy", data["status"])
}

func TestServer_handleInspect(t *testing.T) {
	h, _ := setupTestServer(t)

	t.Run("valid table", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/v1/pit/inspect", testTable().PackPadded())
		require.Equal(t, http.StatusOK, w.Code)

		var view struct {
			EntryCount uint32 `json:"entry_count"`
			ComTar2    string `json:"com_tar2"`
			Entries    []struct {
				PartitionName string `json:"partition_name"`
				Flashable     bool   `json:"flashable"`
			} `json:"entries"`
		}
		decodeData(t, w, &view)
		assert.Equal(t, uint32(2), view.EntryCount)
		assert.Equal(t, "BL", view.ComTar2)
		require.Len(t, view.Entries, 2)
		assert.False(t, view.Entries[0].Flashable)
		assert.True(t, view.Entries[1].Flashable)
	})

	t.Run("bad magic", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/v1/pit/inspect", []byte("garbage data here"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w), "bad file identifier")
	})

	t.Run("truncated", func(t *testing.T) {
		data := testTable().Bytes()
		w := doRequest(t, h, http.MethodPost, "/api/v1/pit/inspect", data[:len(data)-10])
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w), "truncated")
	})

	t.Run("body too large", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/v1/pit/inspect", make([]byte, 64*1024+1))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestServer_handleFind(t *testing.T) {
	h, _ := setupTestServer(t)
	data := testTable().Bytes()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIndex  int
	}{
		{"by name skips placeholder", "name=BOOT", http.StatusOK, 1},
		{"by id skips placeholder", "id=7", http.StatusOK, 1},
		{"hex id", "id=0x7", http.StatusOK, 1},
		{"missing name", "name=RECOVERY", http.StatusNotFound, 0},
		{"missing id", "id=99", http.StatusNotFound, 0},
		{"no parameters", "", http.StatusBadRequest, 0},
		{"both parameters", "name=BOOT&id=7", http.StatusBadRequest, 0},
		{"invalid id", "id=seven", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/api/v1/pit/find?"+tt.query, data)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var result struct {
				Index int `json:"index"`
				Entry struct {
					PartitionName string `json:"partition_name"`
					FlashFilename string `json:"flash_filename"`
				} `json:"entry"`
			}
			decodeData(t, w, &result)
			assert.Equal(t, tt.expectedIndex, result.Index)
			assert.Equal(t, "BOOT", result.Entry.PartitionName)
			assert.Equal(t, "boot.img", result.Entry.FlashFilename)
		})
	}
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, field+".pit")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestServer_handleDiff(t *testing.T) {
	h, _ := setupTestServer(t)

	changed := testTable()
	changed.LUCount = 2

	tests := []struct {
		name           string
		files          map[string][]byte
		expectedStatus int
		matches        bool
	}{
		{"identical", map[string][]byte{"a": testTable().Bytes(), "b": testTable().PackPadded()}, http.StatusOK, true},
		{"different", map[string][]byte{"a": testTable().Bytes(), "b": changed.Bytes()}, http.StatusOK, false},
		{"missing file", map[string][]byte{"a": testTable().Bytes()}, http.StatusBadRequest, false},
		{"invalid table", map[string][]byte{"a": testTable().Bytes(), "b": []byte("nope")}, http.StatusUnprocessableEntity, false},
		{"oversized upload", map[string][]byte{"a": make([]byte, 3*64*1024)}, http.StatusRequestEntityTooLarge, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/pit/diff", body)
			req.Header.Set("X-API-Key", testAPIKey)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var result DiffResult
			decodeData(t, w, &result)
			assert.Equal(t, tt.matches, result.Matches)
			assert.Equal(t, tt.matches, len(result.Differences) == 0)
		})
	}
}

func TestServer_Archive(t *testing.T) {
	h, store := setupTestServer(t)
	table := testTable()

	// Put
	w := doRequest(t, h, http.MethodPost, "/api/v1/archive", table.PackPadded())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created SnapshotCreated
	decodeData(t, w, &created)
	assert.Equal(t, uint32(2), created.Entries)

	stored, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Matches(table))

	// List
	w = doRequest(t, h, http.MethodGet, "/api/v1/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshots []archive.Snapshot
	decodeData(t, w, &snapshots)
	require.Len(t, snapshots, 1)
	assert.Equal(t, created.ID, snapshots[0].ID)

	// Get
	w = doRequest(t, h, http.MethodGet, "/api/v1/archive/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		EntryCount uint32 `json:"entry_count"`
	}
	decodeData(t, w, &view)
	assert.Equal(t, uint32(2), view.EntryCount)

	// Raw
	w = doRequest(t, h, http.MethodGet, "/api/v1/archive/"+created.ID.String()+"/raw", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, table.Bytes(), w.Body.Bytes())

	w = doRequest(t, h, http.MethodGet, "/api/v1/archive/"+created.ID.String()+"/raw?padded=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.Bytes(), pit.PaddingBlock)

	// Delete
	w = doRequest(t, h, http.MethodDelete, "/api/v1/archive/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, h, http.MethodGet, "/api/v1/archive/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, h, http.MethodDelete, "/api/v1/archive/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ArchiveErrors(t *testing.T) {
	h, _ := setupTestServer(t)

	w := doRequest(t, h, http.MethodPost, "/api/v1/archive", []byte("not a pit"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, h, http.MethodGet, "/api/v1/archive/not-a-ksuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(decodeError(t, w), "Invalid snapshot id"))

	w = doRequest(t, h, http.MethodGet, "/api/v1/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshots []archive.Snapshot
	decodeData(t, w, &snapshots)
	assert.Empty(t, snapshots)
}
