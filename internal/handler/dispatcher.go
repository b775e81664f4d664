package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crmgate/crmgate/internal/metrics"
)

// Dispatcher routes inbound requests to the customer store or the issue
// tracker and shapes every outcome into the response envelope.
type Dispatcher struct {
	customers CustomerReader
	issues    IssueTracker
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewDispatcher creates a Dispatcher. metricsRecorder may be nil.
func NewDispatcher(customers CustomerReader, issues IssueTracker, logger *slog.Logger, metricsRecorder metrics.Recorder) *Dispatcher {
	return &Dispatcher{
		customers: customers,
		issues:    issues,
		logger:    logger,
		metrics:   noopRecorder(metricsRecorder),
	}
}

// route binds a dispatch path to its required query parameters and handler.
// Keeping the table explicit makes adding an operation a one-line change and
// keeps required-parameter validation mechanical.
type route struct {
	path          string
	requiredQuery []string
	handle        func(d *Dispatcher, w http.ResponseWriter, r *http.Request)
}

// routes is the full dispatch table. Any path not listed here is answered
// with a 404 envelope naming the path.
var routes = []route{
	{
		path:          "/listRecentInteractions",
		requiredQuery: []string{"customerId", "count"},
		handle:        (*Dispatcher).listRecentInteractions,
	},
	{
		path:          "/getPreferences",
		requiredQuery: []string{"customerId"},
		handle:        (*Dispatcher).getPreferences,
	},
	{
		path:          "/companyOverview",
		requiredQuery: []string{"customerId"},
		handle:        (*Dispatcher).companyOverview,
	},
	{
		path:          "/getOpenJiraIssues",
		requiredQuery: []string{"projectId"},
		handle:        (*Dispatcher).getOpenJiraIssues,
	},
	{
		path:          "/updateJiraIssue",
		requiredQuery: []string{"issueKey"},
		handle:        (*Dispatcher).updateJiraIssue,
	},
}

// Register mounts the dispatch table and the catch-all on the router.
// The HTTP method is deliberately not part of the match.
func (d *Dispatcher) Register(r chi.Router) {
	for _, rt := range routes {
		r.HandleFunc(rt.path, d.wrap(rt))
	}

	r.NotFound(d.unrecognizedPath)
}

// wrap enforces the route's required query parameters before invoking its
// handler, and records dispatch metrics.
func (d *Dispatcher) wrap(rt route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		for _, name := range rt.requiredQuery {
			if r.URL.Query().Get(name) == "" {
				writeEnvelope(w, http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
				return
			}
		}

		d.metrics.IncDispatch(rt.path)
		rt.handle(d, w, r)
		d.metrics.ObserveDispatchDuration(time.Since(start))
	}
}

// unrecognizedPath answers any path outside the dispatch table.
func (d *Dispatcher) unrecognizedPath(w http.ResponseWriter, r *http.Request) {
	d.metrics.IncUnrecognizedPath()
	writeEnvelope(w, http.StatusNotFound, fmt.Sprintf("Unrecognized api path: %s", r.URL.Path))
}
