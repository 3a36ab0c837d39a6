package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"rolodex/internal/contacts"
	"rolodex/internal/logging"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps store errors onto HTTP status codes.
//
// Validation failures are the client's fault (400), a missing record is
// 404, and everything else, including a rolled-back import, is a 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())

	var ve *contacts.ValidationError
	var ie *contacts.ImportError

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "validation_error", ve.Error())

	case errors.Is(err, contacts.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "contact not found")

	case errors.As(err, &ie):
		logger.Error("import failed", "batch_id", ie.BatchID, "error", ie.Err)
		writeError(w, http.StatusInternalServerError, "import_failed", "import rolled back")

	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already written; nothing left to salvage.
		slog.Error("encode response", "error", err)
	}
}

// writeError writes a JSON error body with the given status and code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
