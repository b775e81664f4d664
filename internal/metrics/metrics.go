// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Dispatch metrics
	IncDispatch(path string)
	IncUnrecognizedPath()
	ObserveDispatchDuration(duration time.Duration)

	// Authorization metrics
	IncAuthDecision(effect string) // effect: "Allow" or "Deny"
	IncAuthError()
	IncAuthCacheHit()
	IncAuthCacheMiss()

	// Tracker metrics
	IncTrackerSuppressed(operation string) // operation: "search" or "update"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
