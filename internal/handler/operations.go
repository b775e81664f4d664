package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crmgate/crmgate/internal/middleware"
	"github.com/crmgate/crmgate/internal/model"
	"github.com/crmgate/crmgate/internal/repository"
)

// listRecentInteractions handles /listRecentInteractions.
// Required: customerId, count (positive integer).
func (d *Dispatcher) listRecentInteractions(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")

	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Parameter count must be an integer")
		return
	}

	interactions, err := d.customers.RecentInteractions(r.Context(), customerID, count)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeEnvelope(w, http.StatusBadRequest, "Parameter count must be a positive integer")
			return
		}

		d.storeError(w, r, "failed to list recent interactions", err)
		return
	}

	writeEnvelope(w, http.StatusOK, interactions)
}

// getPreferences handles /getPreferences. A customer without a record yields
// a null payload, mirroring the store's absent item.
func (d *Dispatcher) getPreferences(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")

	preferences, err := d.customers.CustomerPreferences(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			writeEnvelope(w, http.StatusOK, nil)
			return
		}

		d.storeError(w, r, "failed to get customer preferences", err)
		return
	}

	writeEnvelope(w, http.StatusOK, preferences)
}

// companyOverview handles /companyOverview. Absent customers and customers
// without an overview both answer with an empty object.
func (d *Dispatcher) companyOverview(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")

	overview, err := d.customers.CustomerOverview(r.Context(), customerID)
	if err != nil {
		d.storeError(w, r, "failed to get customer overview", err)
		return
	}

	writeEnvelope(w, http.StatusOK, overview)
}

// getOpenJiraIssues handles /getOpenJiraIssues. Tracker failures are
// suppressed upstream, so this always answers 200; a failed upstream looks
// like an empty issue list.
func (d *Dispatcher) getOpenJiraIssues(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")

	result := d.issues.OpenIssues(r.Context(), projectID)
	if result.Suppressed {
		d.metrics.IncTrackerSuppressed("search")
	}

	issues := result.Issues
	if issues == nil {
		issues = []model.JiraIssue{}
	}

	writeEnvelope(w, http.StatusOK, issues)
}

// updateRequest is the JSON body accepted by /updateJiraIssue.
type updateRequest struct {
	TimelineInWeeks *int `json:"timelineInWeeks"`
}

// updateJiraIssue handles /updateJiraIssue.
// Required: issueKey query parameter and an integer timelineInWeeks body
// field. Tracker failures are suppressed; the payload is then an empty
// object.
func (d *Dispatcher) updateJiraIssue(w http.ResponseWriter, r *http.Request) {
	issueKey := r.URL.Query().Get("issueKey")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TimelineInWeeks == nil {
		writeEnvelope(w, http.StatusBadRequest, "Body field timelineInWeeks must be an integer")
		return
	}

	result := d.issues.UpdateDueDate(r.Context(), issueKey, *req.TimelineInWeeks)
	if result.Suppressed {
		d.metrics.IncTrackerSuppressed("update")
		writeEnvelope(w, http.StatusOK, map[string]any{})
		return
	}

	writeEnvelope(w, http.StatusOK, result)
}

// storeError reports a repository failure. Unlike tracker failures these are
// never suppressed: a caller depending on customer data must know when it is
// unavailable. The envelope carries a generic message; detail goes to the
// log.
func (d *Dispatcher) storeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	d.logger.Error(message,
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	writeEnvelope(w, http.StatusInternalServerError, message)
}
