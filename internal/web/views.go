package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/MasterList/internal/web/templates"
)

// render writes an HTML page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

// inputRows converts the configured inputs for the dashboard.
func inputRows(infos []InputInfo) []templates.InputRow {
	rows := make([]templates.InputRow, len(infos))
	for i, in := range infos {
		rows[i] = templates.InputRow{Label: in.Label, Path: in.Path}
	}
	return rows
}
