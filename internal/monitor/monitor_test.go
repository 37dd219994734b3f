package monitor

import (
	"strings"
	"testing"

	"datamorph/pkg/dataerr"
)

func TestNewDefaults(t *testing.T) {
	m := New(Options{})
	if m.limit != 1<<30 {
		t.Fatalf("default limit = %d; want 1 GiB", m.limit)
	}
	if m.warn != DefaultWarnRatio || m.critical != DefaultCriticalRatio {
		t.Fatalf("default thresholds = %v/%v", m.warn, m.critical)
	}
}

func TestCheckThresholds(t *testing.T) {
	// A generous limit keeps a test process far below the warn threshold.
	roomy := New(Options{LimitBytes: 1 << 40})
	if err := roomy.Check(); err != nil {
		t.Fatalf("Check failed under a roomy limit: %v", err)
	}
	if roomy.PressureHigh() {
		t.Fatalf("pressure high under a roomy limit")
	}

	// A one-byte limit is always critical.
	tight := New(Options{LimitBytes: 1})
	err := tight.Check()
	if !dataerr.IsKind(err, dataerr.KindState) {
		t.Fatalf("Check under a tight limit = %v; want state error", err)
	}
	if !tight.PressureHigh() {
		t.Fatalf("pressure not high under a tight limit")
	}
	if tight.Available() != 0 {
		t.Fatalf("Available = %d under a tight limit; want 0", tight.Available())
	}
}

func TestUsageRatio(t *testing.T) {
	m := New(Options{LimitBytes: 1 << 40})
	r := m.UsageRatio()
	if r <= 0 || r >= 1 {
		t.Fatalf("UsageRatio = %v; want a small positive fraction", r)
	}
}

func TestInfoFormat(t *testing.T) {
	info := New(Options{}).Info()
	if !strings.HasPrefix(info, "Memory usage: ") || !strings.Contains(info, "/") {
		t.Fatalf("Info() = %q", info)
	}
}

func TestMaxRSS(t *testing.T) {
	if MaxRSS() == 0 {
		t.Fatalf("MaxRSS returned 0 on a running process")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2 << 10, "2.0 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Fatalf("formatBytes(%d) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
