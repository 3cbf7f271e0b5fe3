package web

// errors.go provides unified error responses: technical detail is logged
// with the request id, clients get a sanitized message with a support code,
// and the status code follows the core error taxonomy.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/salespipe/salespipe/internal/core"
	"github.com/salespipe/salespipe/internal/logging"
)

// ErrorResponse is the JSON envelope for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logger.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor maps the core error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, core.ErrNotFound) {
		return http.StatusNotFound
	}
	var serr *core.StorageError
	if errors.As(err, &serr) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent; nothing left but to log
		slog.Error("json encode error", "error", err)
	}
}
