package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jaypipes/ghw"
	"github.com/klauspost/cpuid/v2"
	"github.com/pbnjay/memory"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

const mb = 1024 * 1024

// Collector gathers OS-reported statistics on a best-effort basis. Every
// metric is probed independently; failures become placeholders.
type Collector struct {
	logger    *zap.Logger
	diskPath  string
	cpuSample time.Duration
	topN      int
}

// Option configures a Collector.
type Option func(*Collector)

// WithDiskPath sets the mount point used for disk usage.
func WithDiskPath(path string) Option {
	return func(c *Collector) {
		if path != "" {
			c.diskPath = path
		}
	}
}

// WithCPUSample sets how long CPU utilization is sampled.
func WithCPUSample(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.cpuSample = d
		}
	}
}

// WithTopProcesses sets how many processes the memory ranking lists.
func WithTopProcesses(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.topN = n
		}
	}
}

// NewCollector creates a collector.
func NewCollector(logger *zap.Logger, opts ...Option) *Collector {
	c := &Collector{
		logger:    logger,
		diskPath:  defaultDiskPath(),
		cpuSample: time.Second,
		topN:      5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// probe runs fn and converts its outcome into a Reading. Panics inside
// third-party collectors are treated like any other failure.
func (c *Collector) probe(name, placeholder string, fn func() (string, error)) (r Reading) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Debug("Metric probe panicked", zap.String("metric", name), zap.Any("panic", p))
			r = Unavailable(placeholder)
		}
	}()

	v, err := fn()
	if err != nil {
		c.logger.Debug("Metric unavailable", zap.String("metric", name), zap.Error(err))
		return Unavailable(placeholderFor(err, placeholder))
	}
	return Available(v)
}

// SystemInfo returns the static description of the host.
func (c *Collector) SystemInfo(ctx context.Context) []Line {
	info, infoErr := host.InfoWithContext(ctx)
	hostField := func(name string, get func(*host.InfoStat) string) Reading {
		return c.probe(name, PlaceholderUnavailable, func() (string, error) {
			if infoErr != nil {
				return "", infoErr
			}
			v := get(info)
			if v == "" {
				return "", errors.New("empty value")
			}
			return v, nil
		})
	}

	return []Line{
		{"Platform", hostField("platform", func(i *host.InfoStat) string { return i.OS })},
		{"Release", hostField("release", func(i *host.InfoStat) string { return i.KernelVersion })},
		{"Version", hostField("version", func(i *host.InfoStat) string {
			return strings.TrimSpace(i.Platform + " " + i.PlatformVersion)
		})},
		{"Machine", hostField("machine", func(i *host.InfoStat) string { return i.KernelArch })},
		{"Processor", c.Processor()},
		{"CPU Count", Available(fmt.Sprintf("%d logical cores", runtime.NumCPU()))},
		{"Physical Cores", c.PhysicalCores()},
		{"Physical Memory", c.PhysicalMemory(ctx)},
		{"Go version", Available(runtime.Version())},
	}
}

// Additional returns the dynamic statistics block.
func (c *Collector) Additional(ctx context.Context) []Line {
	return []Line{
		{"CPU Usage", c.CPUUsage(ctx)},
		{"Disk Usage", c.DiskUsage(ctx)},
		{"Network I/O", c.NetworkIO(ctx)},
		{"Swap Memory", c.SwapMemory(ctx)},
		{"CPU Temperature", c.CPUTemperature(ctx)},
		{"System Uptime", c.Uptime(ctx)},
		{"Number of Processes", c.ProcessCount(ctx)},
		{"Top Memory Consuming Processes", c.TopMemoryProcesses(ctx)},
		{"Load Average", c.LoadAverage(ctx)},
		{"Filesystem Type", c.FilesystemTypes(ctx)},
		{"Total Number of Threads", c.TotalThreads(ctx)},
		{"Context Switches", c.ContextSwitches()},
		{"Interrupts", c.Interrupts()},
		{"Boot Time", c.BootTime(ctx)},
		{"Hostname", c.Hostname()},
	}
}

// Processor reports the CPU brand string.
func (c *Collector) Processor() Reading {
	return c.probe("processor", PlaceholderUnavailable, func() (string, error) {
		if cpuid.CPU.BrandName != "" {
			return cpuid.CPU.BrandName, nil
		}
		infos, err := cpu.Info()
		if err != nil {
			return "", err
		}
		if len(infos) == 0 || infos[0].ModelName == "" {
			return "", errors.New("no processor information")
		}
		return infos[0].ModelName, nil
	})
}

// PhysicalCores reports the number of physical cores.
func (c *Collector) PhysicalCores() Reading {
	return c.probe("physical_cores", PlaceholderUnavailable, func() (string, error) {
		info, err := ghw.CPU(ghw.WithDisableWarnings())
		if err == nil && info.TotalCores > 0 {
			return fmt.Sprintf("%d", info.TotalCores), nil
		}
		n, cerr := cpu.Counts(false)
		if cerr != nil {
			return "", errors.Join(err, cerr)
		}
		return fmt.Sprintf("%d", n), nil
	})
}

// PhysicalMemory reports total installed memory in MB.
func (c *Collector) PhysicalMemory(ctx context.Context) Reading {
	return c.probe("physical_memory", PlaceholderUnavailable, func() (string, error) {
		total := uint64(0)
		if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
			total = vm.Total
		} else {
			total = memory.TotalMemory()
		}
		if total == 0 {
			return "", errors.New("total memory unknown")
		}
		return fmt.Sprintf("%.2f MB", float64(total)/mb), nil
	})
}

// CPUUsage samples system-wide CPU utilization.
func (c *Collector) CPUUsage(ctx context.Context) Reading {
	return c.probe("cpu_usage", PlaceholderUnavailable, func() (string, error) {
		pct, err := cpu.PercentWithContext(ctx, c.cpuSample, false)
		if err != nil {
			return "", err
		}
		if len(pct) == 0 {
			return "", errors.New("no cpu samples")
		}
		return fmt.Sprintf("%.1f%%", pct[0]), nil
	})
}

// DiskUsage reports usage of the configured mount point.
func (c *Collector) DiskUsage(ctx context.Context) Reading {
	return c.probe("disk_usage", PlaceholderUnavailable, func() (string, error) {
		u, err := disk.UsageWithContext(ctx, c.diskPath)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.1f%% used, %.2f MB free", u.UsedPercent, float64(u.Free)/mb), nil
	})
}

// NetworkIO reports total bytes sent and received on all interfaces.
func (c *Collector) NetworkIO(ctx context.Context) Reading {
	return c.probe("network_io", PlaceholderUnavailable, func() (string, error) {
		counters, err := net.IOCountersWithContext(ctx, false)
		if err != nil {
			return "", err
		}
		if len(counters) == 0 {
			return "", errors.New("no network counters")
		}
		return fmt.Sprintf("Sent = %.2f MB, Received = %.2f MB",
			float64(counters[0].BytesSent)/mb, float64(counters[0].BytesRecv)/mb), nil
	})
}

// SwapMemory reports swap usage.
func (c *Collector) SwapMemory(ctx context.Context) Reading {
	return c.probe("swap_memory", PlaceholderUnavailable, func() (string, error) {
		s, err := mem.SwapMemoryWithContext(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.1f%% used, %.2f MB free", s.UsedPercent, float64(s.Free)/mb), nil
	})
}

var cpuSensorPrefixes = []string{"coretemp", "k10temp", "cpu_thermal", "cpu-thermal", "zenpower"}

// CPUTemperature reports the first CPU package/core sensor found.
func (c *Collector) CPUTemperature(ctx context.Context) Reading {
	return c.probe("cpu_temperature", PlaceholderNA, func() (string, error) {
		temps, err := host.SensorsTemperaturesWithContext(ctx)
		// Partial results come back together with a warnings error.
		if len(temps) == 0 {
			if err == nil {
				err = errors.New("no temperature sensors")
			}
			return "", err
		}
		for _, prefix := range cpuSensorPrefixes {
			for _, t := range temps {
				if strings.HasPrefix(strings.ToLower(t.SensorKey), prefix) && t.Temperature > 0 {
					return fmt.Sprintf("%.1f °C", t.Temperature), nil
				}
			}
		}
		return "", errors.New("no cpu temperature sensor")
	})
}

// Uptime reports how long the host has been running.
func (c *Collector) Uptime(ctx context.Context) Reading {
	return c.probe("uptime", PlaceholderUnavailable, func() (string, error) {
		secs, err := host.UptimeWithContext(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.2f hours", float64(secs)/3600), nil
	})
}

// ProcessCount reports the number of running processes.
func (c *Collector) ProcessCount(ctx context.Context) Reading {
	return c.probe("process_count", PlaceholderUnavailable, func() (string, error) {
		pids, err := process.PidsWithContext(ctx)
		if err != nil {
			return "", err
		}
		return humanize.Comma(int64(len(pids))), nil
	})
}

// TopMemoryProcesses lists the processes with the largest resident set.
// Processes that cannot be inspected are skipped.
func (c *Collector) TopMemoryProcesses(ctx context.Context) Reading {
	return c.probe("top_memory_processes", PlaceholderUnavailable, func() (string, error) {
		procs, err := process.ProcessesWithContext(ctx)
		if err != nil {
			return "", err
		}

		type entry struct {
			pid  int32
			name string
			rss  uint64
		}
		entries := make([]entry, 0, len(procs))
		for _, p := range procs {
			mi, err := p.MemoryInfoWithContext(ctx)
			if err != nil || mi == nil {
				continue
			}
			name, _ := p.NameWithContext(ctx)
			entries = append(entries, entry{pid: p.Pid, name: name, rss: mi.RSS})
		}
		if len(entries) == 0 {
			return "", errors.New("no inspectable processes")
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].rss > entries[j].rss })
		if len(entries) > c.topN {
			entries = entries[:c.topN]
		}

		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = fmt.Sprintf("%s (pid %d, %s)", e.name, e.pid, humanize.IBytes(e.rss))
		}
		return strings.Join(parts, ", "), nil
	})
}

// LoadAverage reports the 1, 5 and 15 minute load averages.
func (c *Collector) LoadAverage(ctx context.Context) Reading {
	return c.probe("load_average", PlaceholderUnavailable, func() (string, error) {
		if runtime.GOOS == "windows" {
			return "", errUnsupported
		}
		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.2f, %.2f, %.2f", avg.Load1, avg.Load5, avg.Load15), nil
	})
}

// FilesystemTypes lists the distinct filesystem types of mounted partitions.
func (c *Collector) FilesystemTypes(ctx context.Context) Reading {
	return c.probe("filesystem_types", PlaceholderUnavailable, func() (string, error) {
		parts, err := disk.PartitionsWithContext(ctx, false)
		if err != nil {
			return "", err
		}
		seen := make(map[string]bool)
		var types []string
		for _, p := range parts {
			if p.Fstype == "" || seen[p.Fstype] {
				continue
			}
			seen[p.Fstype] = true
			types = append(types, p.Fstype)
		}
		if len(types) == 0 {
			return "", errors.New("no partitions")
		}
		return strings.Join(types, ", "), nil
	})
}

// TotalThreads sums the thread counts of every inspectable process.
func (c *Collector) TotalThreads(ctx context.Context) Reading {
	return c.probe("total_threads", PlaceholderUnavailable, func() (string, error) {
		procs, err := process.ProcessesWithContext(ctx)
		if err != nil {
			return "", err
		}
		var total int64
		for _, p := range procs {
			n, err := p.NumThreadsWithContext(ctx)
			if err != nil {
				continue
			}
			total += int64(n)
		}
		return humanize.Comma(total), nil
	})
}

// ContextSwitches reports the kernel-wide context switch counter.
func (c *Collector) ContextSwitches() Reading {
	return c.probe("context_switches", PlaceholderUnavailable, func() (string, error) {
		k, err := readKernelCounters()
		if err != nil {
			return "", err
		}
		return humanize.Comma(int64(k.contextSwitches)), nil
	})
}

// Interrupts reports the kernel-wide interrupt counter.
func (c *Collector) Interrupts() Reading {
	return c.probe("interrupts", PlaceholderUnavailable, func() (string, error) {
		k, err := readKernelCounters()
		if err != nil {
			return "", err
		}
		return humanize.Comma(int64(k.interrupts)), nil
	})
}

// BootTime reports when the host booted, in local time.
func (c *Collector) BootTime(ctx context.Context) Reading {
	return c.probe("boot_time", PlaceholderUnavailable, func() (string, error) {
		bt, err := host.BootTimeWithContext(ctx)
		if err != nil {
			return "", err
		}
		return time.Unix(int64(bt), 0).Local().Format(time.DateTime), nil
	})
}

// Hostname reports the host name.
func (c *Collector) Hostname() Reading {
	return c.probe("hostname", PlaceholderUnavailable, os.Hostname)
}

// PeakResident reports the peak resident set size of this process.
func (c *Collector) PeakResident() Reading {
	return c.probe("peak_resident", PlaceholderUnavailable, func() (string, error) {
		bytes, err := peakResidentBytes()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb), nil
	})
}
