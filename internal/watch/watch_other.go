//go:build !linux

package watch

import (
	"context"
	"time"
)

func subscribe(ctx context.Context, path string, interval time.Duration) (<-chan struct{}, error) {
	return poll(ctx, path, interval)
}
