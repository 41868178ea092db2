//go:build !linux

package sysinfo

type kernelCounters struct {
	contextSwitches uint64
	interrupts      uint64
}

func readKernelCounters() (kernelCounters, error) {
	return kernelCounters{}, errUnsupported
}
