package sysinfo

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMemory samples the resident memory of the current process.
type ProcessMemory struct {
	proc *process.Process
}

// NewProcessMemory attaches to the running process.
func NewProcessMemory() (*ProcessMemory, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open current process: %w", err)
	}
	return &ProcessMemory{proc: p}, nil
}

// ResidentMB returns the current resident set size in MB.
func (m *ProcessMemory) ResidentMB() (float64, error) {
	mi, err := m.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read process memory: %w", err)
	}
	return float64(mi.RSS) / mb, nil
}
