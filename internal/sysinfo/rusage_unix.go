//go:build linux || darwin || freebsd || netbsd || openbsd

package sysinfo

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func peakResidentBytes() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	// ru_maxrss is bytes on darwin and kilobytes elsewhere.
	if runtime.GOOS == "darwin" {
		return uint64(ru.Maxrss), nil
	}
	return uint64(ru.Maxrss) * 1024, nil
}
