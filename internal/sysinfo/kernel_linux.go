//go:build linux

package sysinfo

import (
	"github.com/prometheus/procfs"
)

type kernelCounters struct {
	contextSwitches uint64
	interrupts      uint64
}

func readKernelCounters() (kernelCounters, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return kernelCounters{}, err
	}
	stat, err := fs.Stat()
	if err != nil {
		return kernelCounters{}, err
	}
	return kernelCounters{
		contextSwitches: stat.ContextSwitches,
		interrupts:      stat.IRQTotal,
	}, nil
}
