package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncDispatch is a no-op.
func (n *NoopRecorder) IncDispatch(path string) {}

// IncUnrecognizedPath is a no-op.
func (n *NoopRecorder) IncUnrecognizedPath() {}

// ObserveDispatchDuration is a no-op.
func (n *NoopRecorder) ObserveDispatchDuration(duration time.Duration) {}

// IncAuthDecision is a no-op.
func (n *NoopRecorder) IncAuthDecision(effect string) {}

// IncAuthError is a no-op.
func (n *NoopRecorder) IncAuthError() {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncTrackerSuppressed is a no-op.
func (n *NoopRecorder) IncTrackerSuppressed(operation string) {}
