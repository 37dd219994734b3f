// Package monitor tracks process memory pressure during large ingestion
// runs. Go has no hard heap ceiling the way a JVM does, so the monitor
// measures heap in use against a configured limit and can additionally
// report the process resident set size from the kernel.
package monitor

import (
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sys/unix"

	"datamorph/pkg/dataerr"
)

// Default thresholds: warn at 80%, fail at 90%.
const (
	DefaultWarnRatio     = 0.8
	DefaultCriticalRatio = 0.9
)

// MemoryMonitor checks heap usage against a byte limit. The zero value is
// not usable; construct with New.
type MemoryMonitor struct {
	limit    uint64
	warn     float64
	critical float64
}

// Options configures a MemoryMonitor.
type Options struct {
	// LimitBytes is the heap budget usage ratios are computed against.
	// Zero means use the runtime's soft memory limit when one is set
	// (GOMEMLIMIT), else 1 GiB.
	LimitBytes uint64

	// WarnRatio logs a warning when exceeded. Zero means DefaultWarnRatio.
	WarnRatio float64

	// CriticalRatio makes Check fail when exceeded. Zero means
	// DefaultCriticalRatio.
	CriticalRatio float64
}

// New returns a monitor with the given options.
func New(opts Options) *MemoryMonitor {
	limit := opts.LimitBytes
	if limit == 0 {
		limit = 1 << 30
	}
	warn := opts.WarnRatio
	if warn == 0 {
		warn = DefaultWarnRatio
	}
	critical := opts.CriticalRatio
	if critical == 0 {
		critical = DefaultCriticalRatio
	}
	return &MemoryMonitor{limit: limit, warn: warn, critical: critical}
}

// Check samples current heap usage. Above the critical threshold it returns
// an error so the caller can abort the run; above the warn threshold it only
// logs.
func (m *MemoryMonitor) Check() error {
	ratio := m.UsageRatio()
	if ratio > m.critical {
		return dataerr.State("critical memory usage: %.2f%% (threshold: %.2f%%)",
			ratio*100, m.critical*100)
	}
	if ratio > m.warn {
		log.Printf("monitor: high memory usage: %.2f%% (threshold: %.2f%%)",
			ratio*100, m.warn*100)
	}
	return nil
}

// UsageRatio returns heap in use divided by the configured limit.
func (m *MemoryMonitor) UsageRatio() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapInuse) / float64(m.limit)
}

// PressureHigh reports whether usage exceeds the warn threshold.
func (m *MemoryMonitor) PressureHigh() bool {
	return m.UsageRatio() > m.warn
}

// Available returns the remaining heap budget in bytes, zero when exhausted.
func (m *MemoryMonitor) Available() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapInuse >= m.limit {
		return 0
	}
	return m.limit - ms.HeapInuse
}

// Info renders a one-line usage summary for logs.
func (m *MemoryMonitor) Info() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf("Memory usage: %s / %s (%.1f%%)",
		formatBytes(ms.HeapInuse), formatBytes(m.limit),
		float64(ms.HeapInuse)/float64(m.limit)*100)
}

// MaxRSS returns the process peak resident set size in bytes, as reported
// by the kernel. Returns 0 when the syscall fails.
func MaxRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// ru_maxrss is in KiB on Linux.
	return uint64(ru.Maxrss) * 1024
}

func formatBytes(b uint64) string {
	switch {
	case b < 1<<10:
		return fmt.Sprintf("%d B", b)
	case b < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	case b < 1<<30:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	default:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	}
}
