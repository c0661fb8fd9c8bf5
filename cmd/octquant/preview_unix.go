//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || zos
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris zos

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// terminalPixels reports the drawable pixel size of the terminal on f. One
// row is left free for the shell prompt.
func terminalPixels(f *os.File) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	if ws.Xpixel == 0 || ws.Ypixel == 0 || ws.Row == 0 {
		return 0, 0, fmt.Errorf("terminal does not report its pixel size")
	}
	h := int(ws.Ypixel) - int(ws.Ypixel)/int(ws.Row)
	return int(ws.Xpixel), h, nil
}
