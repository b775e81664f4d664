// Package handler provides the path-based request dispatcher and its
// operations.
//
// Routing is by exact path match only; the HTTP method is ignored. Every
// response, including client errors and unrecognized paths, is the same JSON
// envelope, so callers never see a raw fault.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/crmgate/crmgate/internal/metrics"
	"github.com/crmgate/crmgate/internal/model"
	"github.com/crmgate/crmgate/internal/tracker"
)

// CustomerReader is the read-only view of the customer store consumed by the
// dispatcher.
type CustomerReader interface {
	RecentInteractions(ctx context.Context, customerID string, limit int) ([]model.Interaction, error)
	CustomerOverview(ctx context.Context, customerID string) (map[string]any, error)
	CustomerPreferences(ctx context.Context, customerID string) (map[string]any, error)
}

// IssueTracker is the issue tracker surface consumed by the dispatcher.
type IssueTracker interface {
	OpenIssues(ctx context.Context, projectID string) tracker.SearchResult
	UpdateDueDate(ctx context.Context, issueKey string, timelineInWeeks int) tracker.UpdateResult
}

// Envelope is the JSON response shape for every dispatched request.
type Envelope struct {
	StatusCode int  `json:"statusCode"`
	Body       Body `json:"body"`
}

// Body wraps the operation-specific payload or error string.
type Body struct {
	Message any `json:"message"`
}

// writeEnvelope writes the response envelope with the HTTP status matching
// its statusCode field.
func writeEnvelope(w http.ResponseWriter, status int, message any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	envelope := Envelope{
		StatusCode: status,
		Body:       Body{Message: message},
	}
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		// Headers are already written; nothing sensible left to do.
		_ = err
	}
}

// noopRecorder guards against a nil metrics recorder.
func noopRecorder(r metrics.Recorder) metrics.Recorder {
	if r == nil {
		return metrics.NewNoop()
	}
	return r
}
