package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"noticeboard-backend/lib/timezone"
	"noticeboard-backend/services/noticeboard"
	"noticeboard-backend/services/noticeboard/runstore"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/noticeboard/scheduler")

var (
	ErrAlreadyRunning = errors.New("a scrape run is already in progress")
	ErrGated          = errors.New("run gated")
)

// Runner is the scrape entry point the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (noticeboard.RunReport, error)
}

type Config struct {
	// cron expression checked against the gate, default every 15
	// minutes; the windows decide whether a tick actually runs
	Cron    string   `json:"cron"`
	Windows []Window `json:"windows"`

	MaxAttempts          int    `json:"max_attempts"`
	RetryIntervalSeconds int    `json:"retry_interval_seconds"`
	LastRunFile          string `json:"last_run_file"`

	Alerts AlertConfig `json:"alerts"`
}

func DefaultConfig() Config {
	return Config{
		Cron: "*/15 * * * *",
		Windows: []Window{
			{Start: "06:00", End: "22:00", IntervalMinutes: 60},
		},
		MaxAttempts:          3,
		RetryIntervalSeconds: 10,
		LastRunFile:          "data/last-run",
	}
}

type Scheduler struct {
	config Config
	runner Runner
	gate   Gate
	runs   runstore.Store
	alerts Alerter
	cron   *cron.Cron

	// OnResult, when set before Start, is invoked after every
	// completed trigger (not for gated or skipped ones).
	OnResult func(RunResult)

	mu         sync.Mutex
	running    bool
	lastRun    time.Time
	lastResult *RunResult
	runCount   int
}

func NewScheduler(config Config, runner Runner, runs runstore.Store) *Scheduler {
	return &Scheduler{
		config: config,
		runner: runner,
		gate:   NewGate(config.Windows, config.LastRunFile),
		runs:   runs,
		alerts: NewAlerter(config.Alerts),
		cron:   cron.New(cron.WithLocation(timezone.Location)),
	}
}

// Start registers the cron tick and begins scheduling. Gated ticks
// are logged at debug level and dropped.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.Cron, func() {
		_, err := s.Trigger(ctx, false)
		if errors.Is(err, ErrAlreadyRunning) || errors.Is(err, ErrGated) {
			slog.DebugContext(ctx, "cron tick skipped", "reason", err)
		} else if err != nil {
			slog.ErrorContext(ctx, "cron tick failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.config.Cron, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling; an in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Trigger performs one gated scrape run with retries and records the
// outcome. force bypasses the window/interval gate but never the
// single-run lock. ErrAlreadyRunning and ErrGated mean no run took
// place.
func (s *Scheduler) Trigger(ctx context.Context, force bool) (RunResult, error) {
	ctx, span := tracer.Start(ctx, "Trigger")
	defer span.End()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return RunResult{}, ErrAlreadyRunning
	}
	if !force {
		if ok, reason := s.gate.ShouldRun(timezone.Now()); !ok {
			s.mu.Unlock()
			return RunResult{}, fmt.Errorf("%w: %s", ErrGated, reason)
		}
	}
	s.running = true
	s.mu.Unlock()

	started := timezone.Now()
	slog.InfoContext(ctx, "scrape run starting", "force", force)

	var report noticeboard.RunReport
	result := RunWithRetry(ctx, s.config.MaxAttempts,
		time.Duration(s.config.RetryIntervalSeconds)*time.Second,
		func(ctx context.Context) error {
			r, err := s.runner.Run(ctx)
			if err != nil {
				return err
			}
			report = r
			return nil
		})

	finished := timezone.Now()
	s.record(ctx, started, finished, report, result)

	s.mu.Lock()
	s.running = false
	s.lastRun = finished
	s.lastResult = &result
	s.runCount++
	s.mu.Unlock()

	if s.OnResult != nil {
		s.OnResult(result)
	}
	return result, nil
}

func (s *Scheduler) record(ctx context.Context, started, finished time.Time, report noticeboard.RunReport, result RunResult) {
	// stamped for failed runs too, otherwise every cron tick inside
	// the window would re-run full retries against a struggling
	// upstream until one succeeded
	if err := s.gate.RecordRun(finished); err != nil {
		slog.WarnContext(ctx, "failed to write last-run stamp", "err", err)
	}

	if result.Success {
		slog.InfoContext(ctx, "scrape run finished",
			"attempts", result.Attempts, "sections_ok", report.SectionsOK())
	} else {
		slog.ErrorContext(ctx, "scrape run failed",
			"attempts", result.Attempts, "err", result.Err)
		if s.alerts.Enabled() {
			if err := s.alerts.SendRunFailure(ctx, started, result); err != nil {
				slog.WarnContext(ctx, "failed to send failure alert", "err", err)
			}
		}
	}

	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}
	err := s.runs.Insert(ctx, runstore.Run{
		StartedAt:  started,
		FinishedAt: finished,
		Success:    result.Success,
		SectionsOK: report.SectionsOK(),
		Attempts:   result.Attempts,
		Error:      errText,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record run history", "err", err)
	}
}

type Status struct {
	IsRunning  bool
	RunCount   int
	LastRun    time.Time
	LastResult *RunResult
	NextRun    time.Time
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		IsRunning:  s.running,
		RunCount:   s.runCount,
		LastRun:    s.lastRun,
		LastResult: s.lastResult,
	}
	if entries := s.cron.Entries(); len(entries) > 0 {
		status.NextRun = entries[0].Next
	}
	return status
}
