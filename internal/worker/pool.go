package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Result carries a background run's outcome.
type Result[R any] struct {
	Value R
	Err   error
}

// RunFunc is the unit of work executed in the background.
type RunFunc[R any] func(ctx context.Context) (R, error)

// Runner executes a single run on its own goroutine so the caller can
// keep rendering progress. A panic inside the run is recovered into the
// result error instead of taking the process down.
type Runner[R any] struct {
	log zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner[R any](log zerolog.Logger) *Runner[R] {
	return &Runner[R]{log: log}
}

// Go starts fn and returns a channel delivering exactly one Result. The
// channel is buffered, so a late reader never blocks the run goroutine.
func (r *Runner[R]) Go(ctx context.Context, fn RunFunc[R]) <-chan Result[R] {
	ch := make(chan Result[R], 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Interface("panic", rec).Msg("background run panicked")
				var zero R
				ch <- Result[R]{Value: zero, Err: fmt.Errorf("background run panicked: %v", rec)}
			}
		}()
		value, err := fn(ctx)
		ch <- Result[R]{Value: value, Err: err}
	}()
	return ch
}
