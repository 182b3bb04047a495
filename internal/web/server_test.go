package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/MasterList/internal/config"
	"github.com/JonMunkholm/MasterList/internal/core"
	"github.com/JonMunkholm/MasterList/internal/core/coretest"
	"github.com/JonMunkholm/MasterList/internal/core/sources"
)

func testConfig() *config.Config {
	return &config.Config{
		Run:      config.RunConfig{Timeout: time.Minute},
		Server:   config.ServerConfig{RequestTimeout: time.Minute},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

// newTestServer returns a server over dir; withFixture fills dir with a
// complete set of inputs first.
func newTestServer(t *testing.T, cfg *config.Config, withFixture bool) *Server {
	t.Helper()
	dir := t.TempDir()
	if withFixture {
		coretest.WriteFixture(t, dir)
	}
	svc := core.NewService(core.ServiceConfig{
		Files:   core.Files{Dir: dir},
		RunWait: 10 * time.Millisecond,
	})
	return NewServer(svc, cfg)
}

func do(t *testing.T, s *Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	rec := do(t, s, http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP header missing")
	}
}

func TestStartRun_Success(t *testing.T) {
	s := newTestServer(t, testConfig(), true)

	rec := do(t, s, http.MethodPost, "/api/runs", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var run core.Run
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatal(err)
	}
	if run.Status != core.StatusSucceeded || run.Rows != 3 {
		t.Errorf("run = %+v, want succeeded with 3 rows", run)
	}
	if got := rec.Header().Get("Location"); got != "/api/runs/"+run.ID {
		t.Errorf("Location = %q", got)
	}

	rec = do(t, s, http.MethodGet, "/api/runs/"+run.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get run status = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/runs/"+run.ID+"/output", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("output status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "Local Code,") {
		t.Errorf("output = %q, want header plus 3 rows", lines)
	}

	rec = do(t, s, http.MethodGet, "/runs/"+run.ID, nil)
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "succeeded") || !strings.Contains(body, "Download master list") {
		t.Errorf("run page status = %d, body = %s", rec.Code, body)
	}

	rec = do(t, s, http.MethodGet, "/api/runs", nil)
	var runs []core.Run
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("runs = %+v, want the one run", runs)
	}
}

func TestStartRun_MissingInputs(t *testing.T) {
	s := newTestServer(t, testConfig(), false)

	rec := do(t, s, http.MethodPost, "/api/runs", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Code != "FILE001" || resp.RunID == "" {
		t.Errorf("error = %+v, want FILE001 with run ID", resp)
	}

	rec = do(t, s, http.MethodGet, "/api/runs/"+resp.RunID+"/output", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("failed run output status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "RUN005" {
		t.Errorf("code = %q, want RUN005", got)
	}

	rec = do(t, s, http.MethodGet, "/runs/"+resp.RunID, nil)
	if !strings.Contains(rec.Body.String(), "FILE001") {
		t.Errorf("run page should show the failure code: %s", rec.Body.String())
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestServer(t, testConfig(), false)

	rec := do(t, s, http.MethodGet, "/api/runs/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "RUN001" {
		t.Errorf("code = %q, want RUN001", got)
	}

	rec = do(t, s, http.MethodGet, "/runs/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("page status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "Run not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestListInputs(t *testing.T) {
	s := newTestServer(t, testConfig(), false)

	rec := do(t, s, http.MethodGet, "/api/inputs", nil)
	var inputs []InputInfo
	if err := json.NewDecoder(rec.Body).Decode(&inputs); err != nil {
		t.Fatal(err)
	}
	if len(inputs) != len(sources.All()) {
		t.Fatalf("inputs = %d, want %d", len(inputs), len(sources.All()))
	}
	for _, in := range inputs {
		if in.Key == sources.KeyWorkAddresses && !in.Strict {
			t.Error("work addresses should be reported strict")
		}
		if in.Path == "" {
			t.Errorf("%s has no path", in.Key)
		}
	}
}

func TestDashboard_EscapesPaths(t *testing.T) {
	svc := core.NewService(core.ServiceConfig{
		Files: core.Files{Names: map[string]string{sources.KeyJobs: "<jobs>.csv"}},
	})
	s := NewServer(svc, testConfig())

	rec := do(t, s, http.MethodGet, "/", nil)
	body := rec.Body.String()
	if strings.Contains(body, "<jobs>") {
		t.Error("file name rendered unescaped")
	}
	if !strings.Contains(body, "&lt;jobs&gt;.csv") {
		t.Errorf("escaped file name missing from dashboard: %s", body)
	}
	if !strings.Contains(body, "No runs yet.") {
		t.Error("empty history message missing")
	}
}

func TestStartRun_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, cfg, true)

	if rec := do(t, s, http.MethodPost, "/api/runs", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/runs", nil); rec.Code != http.StatusOK {
		t.Errorf("listing runs should not need a key, status = %d", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/api/runs", map[string]string{"X-API-Key": "secret"})
	if rec.Code != http.StatusCreated {
		t.Errorf("status with key = %d, want 201", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"RUN001", http.StatusNotFound},
		{"RUN002", http.StatusConflict},
		{"SCH002", http.StatusUnprocessableEntity},
		{"DB002", http.StatusBadGateway},
		{"FILE004", http.StatusInternalServerError},
		{"ERR000", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(core.UserMessage{Code: tt.code}); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
