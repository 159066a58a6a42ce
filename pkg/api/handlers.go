package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/pit"
)

// Server holds the API server state
type Server struct {
	store   SnapshotStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(store SnapshotStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// readBody reads the raw request body, bounded by MaxUploadSize
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize))
	if err != nil {
		if status := errorStatus(err); status == http.StatusRequestEntityTooLarge {
			sendError(w, uploadLimitMessage(err), status)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// unpack parses data, recording the outcome and writing the error response on failure
func (s *Server) unpack(w http.ResponseWriter, data []byte) (*pit.Table, bool) {
	t, err := pit.Unpack(data)
	if s.metrics != nil {
		s.metrics.RecordUnpack(t, err)
	}
	if err != nil {
		s.logger.Warn("rejected PIT upload", "size", len(data), "error", err)
		sendError(w, err.Error(), errorStatus(err))
		return nil, false
	}
	return t, true
}

// handleInspect godoc
//
//	@Summary		Inspect a PIT
//	@Description	Unpack a raw PIT sent as the request body and return its header and entries
//	@Tags			pit
//	@Accept			octet-stream
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		413	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Router			/pit/inspect [post]
//	@Security		ApiKeyAuth
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	t, ok := s.unpack(w, body)
	if !ok {
		return
	}
	sendSuccess(w, t)
}

// handleFind godoc
//
//	@Summary		Find a flashable partition
//	@Description	Find the first flashable partition matching name or id in the uploaded PIT
//	@Tags			pit
//	@Accept			octet-stream
//	@Produce		json
//	@Param			name	query		string	false	"Partition name"
//	@Param			id		query		string	false	"Partition identifier, decimal or 0x hex"
//	@Success		200		{object}	EntryResult
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/pit/find [post]
//	@Security		ApiKeyAuth
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	idParam := r.URL.Query().Get("id")
	if (name == "") == (idParam == "") {
		sendError(w, "Exactly one of name or id is required", http.StatusBadRequest)
		return
	}

	var id uint32
	if idParam != "" {
		parsed, err := strconv.ParseUint(idParam, 0, 32)
		if err != nil {
			sendError(w, "Invalid id parameter", http.StatusBadRequest)
			return
		}
		id = uint32(parsed)
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	t, ok := s.unpack(w, body)
	if !ok {
		return
	}

	var (
		entry *pit.Entry
		found bool
	)
	if name != "" {
		entry, found = t.FindByName(name)
	} else {
		entry, found = t.FindByID(id)
	}
	if !found {
		sendError(w, "No flashable partition matches", http.StatusNotFound)
		return
	}

	sendSuccess(w, EntryResult{Index: indexOf(t, entry), Entry: entry})
}

func indexOf(t *pit.Table, e *pit.Entry) int {
	for i, candidate := range t.Entries() {
		if candidate == e {
			return i
		}
	}
	return -1
}

// handleDiff godoc
//
//	@Summary		Diff two PITs
//	@Description	Compare the PIT files uploaded as form files a and b
//	@Tags			pit
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			a	formData	file	true	"First PIT"
//	@Param			b	formData	file	true	"Second PIT"
//	@Success		200	{object}	DiffResult
//	@Failure		400	{object}	APIResponse
//	@Failure		413	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Router			/pit/diff [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.config.MaxUploadSize)
	if err := r.ParseMultipartForm(2 * s.config.MaxUploadSize); err != nil {
		if status := errorStatus(err); status == http.StatusRequestEntityTooLarge {
			sendError(w, uploadLimitMessage(err), status)
			return
		}
		sendError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var tables [2]*pit.Table
	for i, field := range []string{"a", "b"} {
		data, err := readFormFile(r, field)
		if err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, ok := s.unpack(w, data)
		if !ok {
			return
		}
		tables[i] = t
	}

	diffs := pit.Diff(tables[0], tables[1])
	if diffs == nil {
		diffs = []pit.Difference{}
	}
	sendSuccess(w, DiffResult{
		Matches:     tables[0].Matches(tables[1]),
		Differences: diffs,
	})
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file %q", field)
	}
	return data, nil
}

// handleArchivePut godoc
//
//	@Summary		Archive a PIT
//	@Description	Validate the raw PIT in the body and store it as a new snapshot
//	@Tags			archive
//	@Accept			octet-stream
//	@Produce		json
//	@Success		200	{object}	SnapshotCreated
//	@Failure		422	{object}	APIResponse
//	@Router			/archive [post]
//	@Security		ApiKeyAuth
func (s *Server) handleArchivePut(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	t, ok := s.unpack(w, body)
	if !ok {
		return
	}

	id, err := s.store.PutRaw(body)
	if s.metrics != nil {
		s.metrics.RecordArchiveOperation("put", err == nil)
	}
	if err != nil {
		s.logger.Error("failed to archive PIT", "error", err)
		sendError(w, "Failed to archive PIT", http.StatusInternalServerError)
		return
	}

	s.logger.Info("archived PIT", "id", id.String(), "entries", t.EntryCount())
	sendSuccess(w, SnapshotCreated{ID: id, Entries: t.EntryCount()})
}

// handleArchiveList godoc
//
//	@Summary		List snapshots, oldest first
//	@Tags			archive
//	@Produce		json
//	@Success		200	{array}	archive.Snapshot
//	@Router			/archive [get]
//	@Security		ApiKeyAuth
func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.List()
	if s.metrics != nil {
		s.metrics.RecordArchiveOperation("list", err == nil)
	}
	if err != nil {
		s.logger.Error("failed to list archive", "error", err)
		sendError(w, "Failed to list archive", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.UpdateArchiveStats(len(snapshots))
	}
	if snapshots == nil {
		snapshots = []archive.Snapshot{}
	}
	sendSuccess(w, snapshots)
}

// snapshotID parses the {id} URL parameter, writing a 400 on failure
func snapshotID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid snapshot id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// sendArchiveError maps archive failures onto HTTP statuses
func (s *Server) sendArchiveError(w http.ResponseWriter, operation string, err error) {
	if errorStatus(err) == http.StatusNotFound {
		sendError(w, "Snapshot not found", http.StatusNotFound)
		return
	}
	s.logger.Error("archive operation failed", "operation", operation, "error", err)
	sendError(w, fmt.Sprintf("Failed to %s snapshot", operation), http.StatusInternalServerError)
}

// handleArchiveGet godoc
//
//	@Summary		Get a snapshot as JSON
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Snapshot KSUID"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/archive/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	id, ok := snapshotID(w, r)
	if !ok {
		return
	}
	t, err := s.store.Get(id)
	if s.metrics != nil {
		s.metrics.RecordArchiveOperation("get", err == nil)
	}
	if err != nil {
		s.sendArchiveError(w, "get", err)
		return
	}
	sendSuccess(w, t)
}

// handleArchiveRaw godoc
//
//	@Summary		Download the packed snapshot
//	@Tags			archive
//	@Produce		octet-stream
//	@Param			id		path	string	true	"Snapshot KSUID"
//	@Param			padded	query	bool	false	"Pad to a multiple of 4096 bytes"
//	@Success		200		{file}	binary
//	@Failure		404		{object}	APIResponse
//	@Router			/archive/{id}/raw [get]
//	@Security		ApiKeyAuth
func (s *Server) handleArchiveRaw(w http.ResponseWriter, r *http.Request) {
	id, ok := snapshotID(w, r)
	if !ok {
		return
	}

	padded := r.URL.Query().Get("padded") == "true"
	data, err := s.store.GetRaw(id)
	if err == nil && padded {
		var t *pit.Table
		if t, err = pit.Unpack(data); err == nil {
			data = t.PackPadded()
		}
	}
	if s.metrics != nil {
		s.metrics.RecordArchiveOperation("get_raw", err == nil)
	}
	if err != nil {
		s.sendArchiveError(w, "get", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pit"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleArchiveDelete godoc
//
//	@Summary		Delete a snapshot
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Snapshot KSUID"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/archive/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleArchiveDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := snapshotID(w, r)
	if !ok {
		return
	}
	err := s.store.Delete(id)
	if s.metrics != nil {
		s.metrics.RecordArchiveOperation("delete", err == nil)
	}
	if err != nil {
		s.sendArchiveError(w, "delete", err)
		return
	}
	sendSuccess(w, map[string]string{"deleted": id.String()})
}
