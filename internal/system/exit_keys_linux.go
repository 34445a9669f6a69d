//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// WatchExitKeys watches Linux evdev devices under /dev/input/event* and
// invokes onExit once when one of keys is pressed. With no keys,
// DefaultExitKeys are used.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchExitKeys(ctx context.Context, l logger, onExit func(), keys ...uint16) {
	if onExit == nil {
		return
	}
	if len(keys) == 0 {
		keys = DefaultExitKeys
	}

	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found, exit keys disabled")
		}
		return
	}

	var once sync.Once
	triggerExit := func(code uint16) {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "key %d pressed: exiting", code)
			}
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, keys, triggerExit)
	}
}

func watchDevice(ctx context.Context, path string, tvSize int, keys []uint16, onPress func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		if code, ok := keyPressed(buf[:n], tvSize, keys); ok {
			onPress(code)
			return
		}
	}
}
