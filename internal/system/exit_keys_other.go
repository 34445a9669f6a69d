//go:build !linux

package system

import "context"

// WatchExitKeys needs evdev and does nothing outside of linux.
func WatchExitKeys(ctx context.Context, l logger, onExit func(), keys ...uint16) {
	if l != nil {
		l.Infof("input", "exit keys are only supported on linux")
	}
}
