//go:build unix

package platform

import (
	"golang.org/x/sys/unix"
)

// Machine returns the hardware name reported by uname(2), e.g. "x86_64".
// It falls back to GOARCH-derived naming when the syscall fails.
func Machine() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return fallbackMachine()
	}
	if m := unix.ByteSliceToString(uts.Machine[:]); m != "" {
		return m
	}
	return fallbackMachine()
}
