package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"noticeboard-backend/lib/testutil"
	"noticeboard-backend/services/noticeboard"
	"noticeboard-backend/services/noticeboard/runstore"
	"noticeboard-backend/services/noticeboard/runstore/db"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls    int
	failures int
}

func (r *fakeRunner) Run(context.Context) (noticeboard.RunReport, error) {
	r.calls++
	if r.calls <= r.failures {
		return noticeboard.RunReport{}, errors.New("upstream down")
	}
	return noticeboard.RunReport{
		Sections: []noticeboard.SectionResult{
			{Section: "gallery"}, {Section: "events"},
			{Section: "news"}, {Section: "sponsors"},
		},
	}, nil
}

func testScheduler(t *testing.T, config Config, runner Runner) (*Scheduler, runstore.Store, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/noticeboard/scheduler",
		DbSchema: db.Schema,
	})
	runs := runstore.NewStore(setup.DB)
	if config.LastRunFile == "" {
		config.LastRunFile = filepath.Join(t.TempDir(), "last-run")
	}
	return NewScheduler(config, runner, runs), runs, cleanup
}

func TestDefaultConfigRetryBackoff(t *testing.T) {
	config := DefaultConfig()
	backoff := time.Duration(config.RetryIntervalSeconds) * time.Second
	require.Equal(t, 10*time.Second, backoff)
	require.Equal(t, 3, config.MaxAttempts)
}

func TestTriggerRecordsSuccessfulRun(t *testing.T) {
	config := DefaultConfig()
	config.RetryIntervalSeconds = 0

	runner := &fakeRunner{}
	sched, runs, cleanup := testScheduler(t, config, runner)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := sched.Trigger(ctx, true)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, result.Attempts)
	require.Equal(t, 1, runner.calls)

	latest, err := runs.Latest(ctx)
	require.NoError(t, err)
	require.True(t, latest.Success)
	require.Equal(t, 4, latest.SectionsOK)

	status := sched.Status()
	require.False(t, status.IsRunning)
	require.Equal(t, 1, status.RunCount)
	require.NotNil(t, status.LastResult)
	require.True(t, status.LastResult.Success)
}

func TestTriggerRetriesThenSucceeds(t *testing.T) {
	config := DefaultConfig()
	config.RetryIntervalSeconds = 0

	runner := &fakeRunner{failures: 2}
	sched, runs, cleanup := testScheduler(t, config, runner)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := sched.Trigger(ctx, true)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 3, result.Attempts)

	latest, err := runs.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, latest.Attempts)
}

func TestTriggerRecordsExhaustedRun(t *testing.T) {
	config := DefaultConfig()
	config.MaxAttempts = 2
	config.RetryIntervalSeconds = 0

	runner := &fakeRunner{failures: 10}
	sched, runs, cleanup := testScheduler(t, config, runner)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := sched.Trigger(ctx, true)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, 2, result.Attempts)

	latest, err := runs.Latest(ctx)
	require.NoError(t, err)
	require.False(t, latest.Success)
	require.Contains(t, latest.Error, "upstream down")
}

func TestFailedRunStillStampsGate(t *testing.T) {
	config := DefaultConfig()
	config.MaxAttempts = 1
	config.RetryIntervalSeconds = 0
	config.LastRunFile = filepath.Join(t.TempDir(), "last-run")

	runner := &fakeRunner{failures: 10}
	sched, _, cleanup := testScheduler(t, config, runner)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := sched.Trigger(ctx, true)
	require.NoError(t, err)
	require.False(t, result.Success)

	// the failed attempt counts against the window interval, a
	// struggling upstream shouldn't be re-hit on every tick
	_, ok := sched.gate.LastRun()
	require.True(t, ok)

	_, err = sched.Trigger(ctx, false)
	require.ErrorIs(t, err, ErrGated)
	require.Equal(t, 1, runner.calls)
}

func TestTriggerGateBlocksUnforcedRun(t *testing.T) {
	config := DefaultConfig()
	config.RetryIntervalSeconds = 0
	config.LastRunFile = filepath.Join(t.TempDir(), "last-run")

	runner := &fakeRunner{}
	sched, _, cleanup := testScheduler(t, config, runner)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	// a forced run stamps the last-run file, so an immediate unforced
	// trigger falls inside the window interval
	_, err := sched.Trigger(ctx, true)
	require.NoError(t, err)

	_, err = sched.Trigger(ctx, false)
	require.ErrorIs(t, err, ErrGated)
	require.Equal(t, 1, runner.calls)
}
