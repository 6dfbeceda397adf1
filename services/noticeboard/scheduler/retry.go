package scheduler

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type RunResult struct {
	Success  bool
	Attempts int
	Err      error
}

// RunWithRetry invokes run, retrying on error at a constant interval
// until it succeeds or maxAttempts is exhausted. Context cancellation
// stops the retry loop early.
func RunWithRetry(ctx context.Context, maxAttempts int, interval time.Duration, run func(context.Context) error) RunResult {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	operation := func() error {
		attempts++
		return run(ctx)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(maxAttempts-1)),
		ctx,
	)
	err := backoff.Retry(operation, policy)

	return RunResult{
		Success:  err == nil,
		Attempts: attempts,
		Err:      err,
	}
}
