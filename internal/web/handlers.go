package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/MasterList/internal/core"
	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/logging"
	"github.com/JonMunkholm/MasterList/internal/web/templates"
)

// InputInfo describes one configured input file.
type InputInfo struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Path    string   `json:"path"`
	Strict  bool     `json:"strict"`
	Columns []string `json:"columns"`
}

// inputInfos lists every registered input with its resolved path.
func (s *Server) inputInfos() []InputInfo {
	files := s.service.Files()
	all := sources.All()
	out := make([]InputInfo, 0, len(all))
	for _, in := range all {
		out = append(out, InputInfo{
			Key:     in.Key,
			Label:   in.Label,
			Path:    files.Path(in.Key),
			Strict:  in.Strict,
			Columns: in.Columns,
		})
	}
	return out
}

// handleHealth reports liveness and run slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
		"runs":   s.service.Limiter().Status(),
	})
}

// handleListInputs returns the input registry.
func (s *Server) handleListInputs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inputInfos())
}

// handleListRuns returns remembered runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Runs())
}

// handleStartRun executes a run synchronously and returns its record.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).Info("run requested")
	run, err := s.service.Execute(r.Context())
	if err != nil {
		s.respondError(w, r, err, run.ID)
		return
	}

	w.Header().Set("Location", "/api/runs/"+run.ID)
	writeJSON(w, http.StatusCreated, run)
}

// handleGetRun returns one run record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleRunOutput streams a successful run's master list as CSV.
func (s *Server) handleRunOutput(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	out := run.Output()
	if out == nil {
		s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrNoOutput, run.ID), run.ID)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="master_list_%s.csv"`, run.ID))
	if err := csvio.Write(w, out); err != nil {
		// Headers are already sent
		slog.Error("write run output", "run_id", run.ID, "error", err)
	}
}

// handleDashboard renders the run history and input list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, templates.Dashboard(s.service.Runs(), inputRows(s.inputInfos())))
}

// handleRunPage renders one run report.
func (s *Server) handleRunPage(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	s.render(w, r, templates.RunReport(run))
}
