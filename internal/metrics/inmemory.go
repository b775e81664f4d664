package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Dispatches              map[string]uint64
	UnrecognizedPaths       uint64
	DispatchDurationCount   uint64
	DispatchDurationTotalNs int64
	AuthAllows              uint64
	AuthDenies              uint64
	AuthErrors              uint64
	AuthCacheHits           uint64
	AuthCacheMisses         uint64
	TrackerSuppressed       map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                      sync.Mutex
	dispatches              map[string]uint64
	trackerSuppressed       map[string]uint64
	unrecognizedPaths       uint64
	dispatchDurationCount   uint64
	dispatchDurationTotalNs int64
	authAllows              uint64
	authDenies              uint64
	authErrors              uint64
	authCacheHits           uint64
	authCacheMisses         uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		dispatches:        make(map[string]uint64),
		trackerSuppressed: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	dispatches := make(map[string]uint64, len(m.dispatches))
	for path, count := range m.dispatches {
		dispatches[path] = count
	}

	suppressed := make(map[string]uint64, len(m.trackerSuppressed))
	for operation, count := range m.trackerSuppressed {
		suppressed[operation] = count
	}

	return Snapshot{
		Dispatches:              dispatches,
		UnrecognizedPaths:       atomic.LoadUint64(&m.unrecognizedPaths),
		DispatchDurationCount:   atomic.LoadUint64(&m.dispatchDurationCount),
		DispatchDurationTotalNs: atomic.LoadInt64(&m.dispatchDurationTotalNs),
		AuthAllows:              atomic.LoadUint64(&m.authAllows),
		AuthDenies:              atomic.LoadUint64(&m.authDenies),
		AuthErrors:              atomic.LoadUint64(&m.authErrors),
		AuthCacheHits:           atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:         atomic.LoadUint64(&m.authCacheMisses),
		TrackerSuppressed:       suppressed,
	}
}

// IncDispatch increments the dispatch counter for a path.
func (m *InMemoryRecorder) IncDispatch(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches[path]++
}

// IncUnrecognizedPath increments the unrecognized path counter.
func (m *InMemoryRecorder) IncUnrecognizedPath() {
	atomic.AddUint64(&m.unrecognizedPaths, 1)
}

// ObserveDispatchDuration records dispatch duration.
func (m *InMemoryRecorder) ObserveDispatchDuration(duration time.Duration) {
	atomic.AddUint64(&m.dispatchDurationCount, 1)
	atomic.AddInt64(&m.dispatchDurationTotalNs, duration.Nanoseconds())
}

// IncAuthDecision increments the allow or deny counter.
func (m *InMemoryRecorder) IncAuthDecision(effect string) {
	if effect == "Allow" {
		atomic.AddUint64(&m.authAllows, 1)
		return
	}
	atomic.AddUint64(&m.authDenies, 1)
}

// IncAuthError increments the authorization backend error counter.
func (m *InMemoryRecorder) IncAuthError() {
	atomic.AddUint64(&m.authErrors, 1)
}

// IncAuthCacheHit increments the decision cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments the decision cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}

// IncTrackerSuppressed increments the suppressed counter for an operation.
func (m *InMemoryRecorder) IncTrackerSuppressed(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackerSuppressed[operation]++
}
