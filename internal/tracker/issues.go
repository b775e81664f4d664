package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/crmgate/crmgate/internal/model"
)

// dueDateLayout is the calendar-date format the tracker expects.
const dueDateLayout = "2006-01-02"

// SearchResult is the outcome of an issue search. Suppressed is true when
// the upstream call failed and the empty issue list stands in for an error.
type SearchResult struct {
	Issues     []model.JiraIssue
	Suppressed bool
}

// UpdateResult is the outcome of a due-date update. A suppressed result has
// an empty IssueKey and zero NewTimeline.
type UpdateResult struct {
	IssueKey    string `json:"issueKey,omitempty"`
	NewTimeline int    `json:"newTimeline,omitempty"`
	Suppressed  bool   `json:"-"`
}

// searchResponse mirrors the tracker's search payload.
type searchResponse struct {
	Issues []searchIssue `json:"issues"`
}

type searchIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		DueDate  string `json:"duedate"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

// OpenIssues searches the tracker for open tasks in the given project:
// issue type Task, status In Progress or To Do, ordered by due date.
// Unassigned issues render the [model.AssigneeNone] sentinel.
//
// Any failure is logged and suppressed; the returned result is then empty
// with Suppressed set.
func (c *Client) OpenIssues(ctx context.Context, projectID string) SearchResult {
	jql := fmt.Sprintf("project=%s AND issuetype=Task AND status='In Progress' OR status='To Do' order by duedate", projectID)
	searchURL := c.baseURL + "/search?" + url.Values{"jql": []string{jql}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return c.suppressSearch(projectID, "invalid tracker configuration", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.suppressSearch(projectID, "failed to reach tracker", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.suppressSearch(projectID, "tracker returned error status", fmt.Errorf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.suppressSearch(projectID, "failed to decode tracker response", err)
	}

	issues := make([]model.JiraIssue, 0, len(payload.Issues))

	for _, issue := range payload.Issues {
		assignee := model.AssigneeNone
		if issue.Fields.Assignee != nil {
			assignee = issue.Fields.Assignee.DisplayName
		}

		issues = append(issues, model.JiraIssue{
			IssueKey: issue.Key,
			Summary:  issue.Fields.Summary,
			Status:   issue.Fields.Status.Name,
			Project:  issue.Fields.Project.Name,
			DueDate:  issue.Fields.DueDate,
			Assignee: assignee,
		})
	}

	return SearchResult{Issues: issues}
}

// UpdateDueDate sets the issue's due date to now plus timelineInWeeks weeks
// and reports the new timeline. Re-invoking with the same inputs is
// idempotent upstream, so there is no multi-step state to reconcile.
//
// Any failure is logged and suppressed; the returned result is then empty
// with Suppressed set.
func (c *Client) UpdateDueDate(ctx context.Context, issueKey string, timelineInWeeks int) UpdateResult {
	updateURL := c.baseURL + "/issue/" + url.PathEscape(issueKey)
	dueDate := c.clock().Add(time.Duration(timelineInWeeks) * 7 * 24 * time.Hour).Format(dueDateLayout)

	body, err := json.Marshal(map[string]any{
		"fields": map[string]string{"duedate": dueDate},
	})
	if err != nil {
		return c.suppressUpdate(issueKey, "failed to encode update payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, updateURL, bytes.NewReader(body))
	if err != nil {
		return c.suppressUpdate(issueKey, "invalid tracker configuration", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.suppressUpdate(issueKey, "failed to reach tracker", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.suppressUpdate(issueKey, "tracker returned error status", fmt.Errorf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	return UpdateResult{IssueKey: issueKey, NewTimeline: timelineInWeeks}
}

func (c *Client) suppressSearch(projectID, reason string, err error) SearchResult {
	c.logger.Warn("tracker search suppressed",
		slog.String("project_id", projectID),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)

	return SearchResult{Suppressed: true}
}

func (c *Client) suppressUpdate(issueKey, reason string, err error) UpdateResult {
	c.logger.Warn("tracker update suppressed",
		slog.String("issue_key", issueKey),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)

	return UpdateResult{Suppressed: true}
}
