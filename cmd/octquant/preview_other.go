//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || zos)
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris,!zos

package main

import (
	"errors"
	"os"
)

func terminalPixels(f *os.File) (int, int, error) {
	return 0, 0, errors.New("terminal pixel size not supported on this platform")
}
