package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request ID, then
// returned to the client as the mapped user message: JSON for API routes
// and clients asking for it, a rendered page otherwise.

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/MasterList/internal/core"
	"github.com/JonMunkholm/MasterList/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	RunID   string `json:"run_id,omitempty"`
}

// statusByCode maps user message codes to HTTP statuses. Unlisted codes
// are server errors.
var statusByCode = map[string]int{
	"RUN001":  http.StatusNotFound,
	"RUN002":  http.StatusConflict,
	"RUN003":  http.StatusServiceUnavailable,
	"RUN004":  http.StatusGatewayTimeout,
	"SCH001":  http.StatusUnprocessableEntity,
	"SCH002":  http.StatusUnprocessableEntity,
	"SCH003":  http.StatusUnprocessableEntity,
	"FILE001": http.StatusUnprocessableEntity,
	"FILE002": http.StatusUnprocessableEntity,
	"FILE003": http.StatusUnprocessableEntity,
	"DB001":   http.StatusBadGateway,
	"DB002":   http.StatusBadGateway,
	"DB003":   http.StatusConflict,
}

// statusFor returns the HTTP status for a mapped error.
func statusFor(msg core.UserMessage) int {
	if status, ok := statusByCode[msg.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user message. runID, when set, ties
// the response to a recorded failed run.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, runID string) {
	userMsg := core.MapError(err)
	statusCode := statusFor(userMsg)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
		"run_id", runID,
	)

	if wantsJSON(r) {
		writeJSON(w, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
			RunID:   runID,
		})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(userMsg).Render(r.Context(), w); err != nil {
		slog.Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
