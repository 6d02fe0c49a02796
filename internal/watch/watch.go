// Package watch re-runs a callback whenever a source file changes.
package watch

import (
	"context"
	"os"
	"time"
)

// Run calls onChange once immediately and then after every change to path,
// until ctx is cancelled. Bursts of events within interval collapse into
// a single call.
func Run(ctx context.Context, path string, interval time.Duration, onChange func()) error {
	onChange()
	events, err := subscribe(ctx, path, interval)
	if err != nil {
		return err
	}
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			pending = time.After(interval)
		case <-pending:
			pending = nil
			onChange()
		}
	}
}

// poll reports a change whenever the modification time or size of path
// differs from the last observation.
func poll(ctx context.Context, path string, interval time.Duration) (<-chan struct{}, error) {
	last, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	events := make(chan struct{}, 1)
	go func() {
		defer close(events)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(last.ModTime()) && info.Size() == last.Size() {
				continue
			}
			last = info
			select {
			case events <- struct{}{}:
			default:
			}
		}
	}()
	return events, nil
}
