//go:build linux

package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// subscribe watches the file's directory so editors that replace the file
// on save still produce events.
func subscribe(ctx context.Context, path string, interval time.Duration) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return poll(ctx, path, interval)
	}
	mask := uint32(unix.IN_MODIFY | unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO | unix.IN_CREATE)
	if _, err := unix.InotifyAddWatch(fd, filepath.Dir(abs), mask); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to watch %s: %v", abs, err)
	}
	name := filepath.Base(abs)

	events := make(chan struct{}, 1)
	go func() {
		defer close(events)
		defer unix.Close(fd)
		buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*8)
		for {
			if ctx.Err() != nil {
				return
			}
			n, err := unix.Read(fd, buf)
			if err != nil {
				if err == unix.EAGAIN || err == unix.EINTR {
					sleep(ctx, interval)
					continue
				}
				return
			}
			offset := 0
			for offset+unix.SizeofInotifyEvent <= n {
				event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
				raw := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+int(event.Len)]
				offset += unix.SizeofInotifyEvent + int(event.Len)
				if event.Mask&mask == 0 || cString(raw) != name {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			}
		}
	}()
	return events, nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
