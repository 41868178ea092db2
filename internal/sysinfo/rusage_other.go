//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package sysinfo

func peakResidentBytes() (uint64, error) {
	return 0, errUnsupported
}
