package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/island/config"
)

// Regrower runs one regrowth pass.
type Regrower interface {
	Regrow(ctx context.Context) (int, error)
}

// RegrowthJob calls a Regrower on a fixed cadence, independently of the tick
// loop. The first pass fires after InitialDelay, then every Interval.
type RegrowthJob struct {
	target       Regrower
	initialDelay time.Duration
	interval     time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewRegrowthJob creates a job for target using the regrowth config.
func NewRegrowthJob(target Regrower, cfg config.RegrowthConfig) *RegrowthJob {
	return &RegrowthJob{
		target:       target,
		initialDelay: cfg.InitialDelay,
		interval:     cfg.Interval,
	}
}

// Start launches the job goroutine. It stops when ctx is cancelled, Stop is
// called, or a pass fails. Starting a running job is a no-op.
func (j *RegrowthJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done != nil {
		return
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.loop(ctx, j.done)
}

func (j *RegrowthJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(j.initialDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		if _, err := j.target.Regrow(ctx); err != nil {
			slog.Error("regrowth failed", "error", err)
			j.mu.Lock()
			j.err = err
			j.mu.Unlock()
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the job and waits up to timeout for an in-flight pass to
// finish. It returns the error of a failed pass, or a timeout error.
func (j *RegrowthJob) Stop(timeout time.Duration) error {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		return fmt.Errorf("regrowth job did not stop within %s", timeout)
	}
	return j.Err()
}

// Err returns the error that stopped the job, if any.
func (j *RegrowthJob) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
