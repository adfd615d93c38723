package server

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/teranos/mangagraph/errors"
)

const bytesPerGB = 1024 * 1024 * 1024

// SystemMetrics reports host memory and this process's footprint on /health.
// A large dataset settles in memory, so RSS is the number to watch.
type SystemMetrics struct {
	MemoryUsedGB      float64 `json:"memory_used_gb"`      // Host memory in use
	MemoryTotalGB     float64 `json:"memory_total_gb"`     // Total host memory
	MemoryPercent     float64 `json:"memory_percent"`      // Host memory utilization percentage
	ProcessRSSMB      float64 `json:"process_rss_mb"`      // Resident set size of the server
	ProcessCPUPercent float64 `json:"process_cpu_percent"` // Average CPU since process start
	Goroutines        int     `json:"goroutines"`
}

// collectSystemMetrics gathers what it can; unavailable readings stay zero
func collectSystemMetrics() (SystemMetrics, error) {
	m := SystemMetrics{Goroutines: runtime.NumGoroutine()}
	var errs error

	if v, err := mem.VirtualMemory(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "failed to get memory stats"))
	} else if v.Total > 0 {
		m.MemoryTotalGB = float64(v.Total) / bytesPerGB
		m.MemoryUsedGB = float64(v.Total-v.Available) / bytesPerGB
		m.MemoryPercent = m.MemoryUsedGB / m.MemoryTotalGB * 100
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return m, errors.CombineErrors(errs, errors.Wrap(err, "failed to inspect own process"))
	}
	if info, err := p.MemoryInfo(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "failed to get process memory"))
	} else {
		m.ProcessRSSMB = float64(info.RSS) / 1024 / 1024
	}
	if cpu, err := p.CPUPercent(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "failed to get process cpu"))
	} else {
		m.ProcessCPUPercent = cpu
	}
	return m, errs
}
