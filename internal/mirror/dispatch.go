// internal/mirror/dispatch.go
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs webhook-triggered work in the background so the transport
// can acknowledge deliveries immediately. Each task gets its own context
// with a hard timeout, a panic boundary, and a completion log; in-flight
// tasks are tracked so shutdown can drain them.
type Dispatcher struct {
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher whose tasks are cancelled after timeout.
func NewDispatcher(logger *slog.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{logger: logger, timeout: timeout}
}

// Submit schedules fn on its own goroutine. The task context is detached
// from the caller's: the webhook request that triggered the work completes
// long before the work does.
func (d *Dispatcher) Submit(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		err := runRecovered(ctx, fn)
		if err != nil {
			d.logger.Error("Background task failed", "task", name, "duration", time.Since(start).String(), "error", err)
			return
		}
		d.logger.Info("Background task completed", "task", name, "duration", time.Since(start).String())
	}()
}

// Drain blocks until all in-flight tasks finish or ctx expires.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runRecovered(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
