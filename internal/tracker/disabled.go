package tracker

import (
	"context"
	"log/slog"
)

// Disabled is a tracker client stand-in used when credentials cannot be
// assembled at startup. Every call is suppressed, which keeps the composite
// API available while the tracker is misconfigured.
type Disabled struct {
	logger *slog.Logger
}

// NewDisabled creates a Disabled tracker.
func NewDisabled(logger *slog.Logger) *Disabled {
	return &Disabled{logger: logger}
}

// OpenIssues always returns a suppressed, empty result.
func (d *Disabled) OpenIssues(_ context.Context, projectID string) SearchResult {
	d.logger.Warn("tracker search suppressed",
		slog.String("project_id", projectID),
		slog.String("reason", "tracker not configured"),
	)

	return SearchResult{Suppressed: true}
}

// UpdateDueDate always returns a suppressed, empty result.
func (d *Disabled) UpdateDueDate(_ context.Context, issueKey string, _ int) UpdateResult {
	d.logger.Warn("tracker update suppressed",
		slog.String("issue_key", issueKey),
		slog.String("reason", "tracker not configured"),
	)

	return UpdateResult{Suppressed: true}
}
