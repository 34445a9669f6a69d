//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("console graphics mode is only available on linux")

func setConsoleMode(mode int) error { return errNoConsole }
func writeConsole(s string) error   { return errNoConsole }

const (
	kdText     = 0x00
	kdGraphics = 0x01
)
