package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/salespipe/internal/core"
	"github.com/salespipe/salespipe/internal/logging"
)

// handleHealth reports service and database status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":   "ok",
		"database": "ok",
	}
	code := http.StatusOK

	if s.dbCheck != nil {
		if err := s.dbCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

// handleList returns all records.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if records == nil {
		records = []core.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGet returns a single record by id.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleCreate inserts a new record from a JSON payload.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req core.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.service.Create(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("record created", "id", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

// handleUpdate merges a partial JSON payload into an existing record.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req core.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.service.Update(r.Context(), id, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("record updated", "id", id)
	writeJSON(w, http.StatusOK, rec)
}

// handleDelete removes a record by id.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("record deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

// handleExport snapshots the store to an artifact in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	entry, err := s.exporter.Export(r.Context(), format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("export written",
		"file", entry.FileName,
		"format", entry.Format,
		"rows", entry.Rows,
	)
	writeJSON(w, http.StatusOK, entry)
}

// handleExportHistory lists recent exports, newest first.
func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	history := s.exporter.History()
	if history == nil {
		history = []core.ExportEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

// recordID parses the {id} path parameter.
func recordID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &core.ValidationError{Field: "id", Msg: "must be a positive integer"}
	}
	return id, nil
}

// decodeBody decodes a JSON request body, mapping failures to a
// ValidationError so callers get a 400 rather than a 500.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &core.ValidationError{Msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}
