package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rolodex/internal/contacts"
	"rolodex/internal/logging"
	"rolodex/internal/sheet"
)

// defaultPageSize is applied when the client omits the limit parameter.
const defaultPageSize = 50

// xlsxContentType is the MIME type for .xlsx workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListContacts returns a filtered, sorted page of contacts together
// with the total match count.
//
// Query parameters: q (substring filter), sort, dir, limit, offset.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := contacts.ListParams{
		Query:  q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Limit:  queryInt(q.Get("limit"), defaultPageSize),
		Offset: queryInt(q.Get("offset"), 0),
	}

	result, err := s.store.List(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCreateContact inserts a new contact from a JSON body.
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var in contacts.NewContact
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	c, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// handleGetContact returns a single contact by id.
func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleUpdateContact applies a merge update. Only keys present in the
// body are written; an explicit null clears an optional field.
func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	var patch contacts.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	c, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleDeleteContact removes a contact by id.
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleImport accepts an xlsx workbook as multipart field "file" and
// reconciles its rows against the store in one transaction.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	rows, err := sheet.Decode(file)
	if err != nil {
		logger.Warn("import rejected", "filename", header.Filename, "error", err)
		writeError(w, http.StatusBadRequest, "bad_request", "file is not a readable workbook")
		return
	}

	summary, err := s.store.Import(r.Context(), rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger.Info("import complete",
		"batch_id", summary.BatchID,
		"filename", header.Filename,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
	writeJSON(w, http.StatusOK, summary)
}

// handleExport streams every contact as an xlsx workbook, ordered by last
// then first name.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.ExportAll(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+sheet.ExportFilename(time.Now())+`"`)

	if err := sheet.Encode(w, cs); err != nil {
		// Headers are already out; all we can do is log.
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

// contactID parses the {id} route parameter, writing a 400 on failure.
func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. Blank, malformed,
// or negative values fall back to the default.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
