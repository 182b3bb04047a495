package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/logging"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// ErrRunNotFound is returned for an unknown or evicted run ID.
var ErrRunNotFound = errors.New("run not found")

// ErrNoOutput is returned when asking a failed run for its table.
var ErrNoOutput = errors.New("run has no output")

// DefaultHistoryLimit is how many finished runs the service remembers.
const DefaultHistoryLimit = 20

// Publisher copies a finished master list to a downstream store.
type Publisher interface {
	Publish(ctx context.Context, t *table.Table) (int64, error)
}

// RunStatus is the terminal state of a run.
type RunStatus string

const (
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
)

// Run describes one pipeline execution.
type Run struct {
	ID         string      `json:"id"`
	Status     RunStatus   `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Stages     []Stage     `json:"stages,omitempty"`
	Rows       int         `json:"rows"`
	OutputPath string      `json:"output_path,omitempty"`
	Published  int64       `json:"published"`
	Error      string      `json:"error,omitempty"`
	UserError  UserMessage `json:"user_error,omitempty"`

	// DuplicateUnits lists repeated bargaining units in the contract lookup.
	DuplicateUnits []string `json:"duplicate_units,omitempty"`

	output *table.Table
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Output returns the final table of a successful run.
func (r Run) Output() *table.Table { return r.output }

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Files      Files
	OutputPath string

	// Publisher is optional; nil disables publishing.
	Publisher Publisher

	HistoryLimit int
	RunWait      time.Duration

	// RunTimeout bounds each run; zero means no limit beyond ctx.
	RunTimeout time.Duration
}

// Service runs the pipeline over configured files and keeps a bounded,
// newest-first history of runs.
type Service struct {
	files     Files
	output    string
	publisher Publisher
	limit     int
	timeout   time.Duration
	limiter   *RunLimiter

	mu   sync.RWMutex
	runs []Run
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Service{
		files:     cfg.Files,
		output:    cfg.OutputPath,
		publisher: cfg.Publisher,
		limit:     limit,
		timeout:   cfg.RunTimeout,
		limiter:   NewRunLimiter(1, cfg.RunWait),
	}
}

// Execute performs one full run: load inputs, reconcile, stage the output
// file, publish when a publisher is configured, then move the output into
// place. The output file is only replaced when every earlier step, publishing
// included, succeeded. The run is recorded in the history whether or not it
// succeeds.
func (s *Service) Execute(ctx context.Context) (Run, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return Run{}, err
	}
	defer s.limiter.Release()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := Run{ID: uuid.New().String(), StartedAt: time.Now()}
	ctx = logging.ContextWithRun(ctx, run.ID)
	log := logging.FromContext(ctx)
	log.Info("run started", "output", s.output)

	err := s.execute(ctx, &run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		run.UserError = MapError(err)
		run.output = nil
		log.Error("run failed", "error", err, "code", run.UserError.Code)
	} else {
		run.Status = StatusSucceeded
		log.Info("run finished",
			"rows", run.Rows,
			"published", run.Published,
			"duration", run.Duration())
	}

	s.record(run)
	return run, err
}

func (s *Service) execute(ctx context.Context, run *Run) error {
	in, err := LoadInputs(s.files)
	if err != nil {
		return err
	}

	res, err := Reconcile(ctx, in)
	if err != nil {
		return err
	}
	run.Stages = res.Stages
	run.DuplicateUnits = res.DuplicateUnits
	run.Rows = res.Table.Len()
	run.output = res.Table

	var staged *csvio.Staged
	if s.output != "" {
		staged, err = csvio.Stage(s.output, res.Table)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		defer staged.Discard()
	}

	if s.publisher != nil {
		n, err := s.publisher.Publish(ctx, res.Table)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		run.Published = n
	}

	if staged != nil {
		if err := staged.Commit(); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		run.OutputPath = s.output
	}
	return nil
}

func (s *Service) record(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append([]Run{run}, s.runs...)
	if len(s.runs) > s.limit {
		s.runs = s.runs[:s.limit]
	}
}

// Runs returns the remembered runs, newest first.
func (s *Service) Runs() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Run(nil), s.runs...)
}

// GetRun returns a remembered run by ID.
func (s *Service) GetRun(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
}

// Files returns the input locations the service reads.
func (s *Service) Files() Files { return s.files }

// Limiter exposes the run limiter for shutdown draining.
func (s *Service) Limiter() *RunLimiter { return s.limiter }
