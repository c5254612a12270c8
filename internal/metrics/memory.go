package metrics

import "runtime"

// MemoryUsage mirrors the Node-process memory envelope the original
// service reports (heapUsed/heapTotal/rss), sourced from runtime.MemStats
// instead of process.memoryUsage().
type MemoryUsage struct {
	RSS       uint64 `json:"rss"`
	HeapTotal uint64 `json:"heapTotal"`
	HeapUsed  uint64 `json:"heapUsed"`
}

// MemoryUsageMB is MemoryUsage expressed in megabytes, the unit the
// stress-test result envelope reports memory in.
type MemoryUsageMB struct {
	HeapUsed  float64 `json:"heapUsed"`
	HeapTotal float64 `json:"heapTotal"`
	RSS       float64 `json:"rss"`
}

// CurrentMemoryUsage reads the Go runtime's own memory stats. Sys
// approximates RSS; HeapAlloc/HeapSys approximate heapUsed/heapTotal.
func CurrentMemoryUsage() MemoryUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryUsage{
		RSS:       m.Sys,
		HeapTotal: m.HeapSys,
		HeapUsed:  m.HeapAlloc,
	}
}

// InMB converts a byte-denominated MemoryUsage into megabytes.
func (m MemoryUsage) InMB() MemoryUsageMB {
	const mb = 1024 * 1024

	return MemoryUsageMB{
		HeapUsed:  float64(m.HeapUsed) / mb,
		HeapTotal: float64(m.HeapTotal) / mb,
		RSS:       float64(m.RSS) / mb,
	}
}
