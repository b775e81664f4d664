package tracker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crmgate/crmgate/internal/model"
)

// mockResolver is a mock secrets.Resolver for testing.
type mockResolver struct {
	values map[string]string
}

func (m *mockResolver) Resolve(_ context.Context, name string) (string, error) {
	value, ok := m.values[name]
	if !ok {
		return "", errors.New("unknown secret " + name)
	}
	return value, nil
}

func testResolver(baseURL string) *mockResolver {
	return &mockResolver{values: map[string]string{
		SecretBaseURL:    baseURL,
		SecretUsername:   "bot@example.com",
		SecretAPIKeyName: "jira/api-key",
		"jira/api-key":   "literal-key",
	}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	client, err := NewClient(context.Background(), testResolver(baseURL), testLogger(), opts...)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	return client
}

func TestNewClientAssemblesCredentials(t *testing.T) {
	client := newTestClient(t, "https://tracker.example.com/rest/api/2")

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("bot@example.com:literal-key"))
	if client.authHeader != want {
		t.Errorf("unexpected auth header %s", client.authHeader)
	}
}

func TestNewClientMissingSecret(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"missing base URL", SecretBaseURL},
		{"missing username", SecretUsername},
		{"missing key name", SecretAPIKeyName},
		{"missing indirect key", "jira/api-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := testResolver("https://tracker.example.com")
			delete(resolver.values, tt.remove)

			if _, err := NewClient(context.Background(), resolver, testLogger()); err == nil {
				t.Fatal("expected error for missing secret")
			}
		})
	}
}

func TestOpenIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("expected Basic auth header")
		}

		jql := r.URL.Query().Get("jql")
		want := "project=CRM AND issuetype=Task AND status='In Progress' OR status='To Do' order by duedate"
		if jql != want {
			t.Errorf("unexpected jql %q", jql)
		}

		_, _ = w.Write([]byte(`{
			"issues": [
				{
					"key": "CRM-1",
					"fields": {
						"summary": "Renew contract",
						"status": {"name": "In Progress"},
						"project": {"name": "CRM"},
						"duedate": "2024-06-01",
						"assignee": {"displayName": "Dana Fox"}
					}
				},
				{
					"key": "CRM-2",
					"fields": {
						"summary": "Follow up",
						"status": {"name": "To Do"},
						"project": {"name": "CRM"},
						"duedate": "2024-06-15",
						"assignee": null
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	result := client.OpenIssues(context.Background(), "CRM")
	if result.Suppressed {
		t.Fatal("expected successful search")
	}
	if len(result.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(result.Issues))
	}

	first := result.Issues[0]
	want := model.JiraIssue{
		IssueKey: "CRM-1",
		Summary:  "Renew contract",
		Status:   "In Progress",
		Project:  "CRM",
		DueDate:  "2024-06-01",
		Assignee: "Dana Fox",
	}
	if first != want {
		t.Errorf("unexpected issue %+v", first)
	}

	if result.Issues[1].Assignee != model.AssigneeNone {
		t.Errorf("expected sentinel assignee, got %s", result.Issues[1].Assignee)
	}
}

func TestOpenIssuesSuppression(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bad credentials", http.StatusUnauthorized)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>service unavailable</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := newTestClient(t, srv.URL)

			result := client.OpenIssues(context.Background(), "CRM")
			if !result.Suppressed {
				t.Error("expected suppressed result")
			}
			if len(result.Issues) != 0 {
				t.Errorf("expected empty issue list, got %d", len(result.Issues))
			}
		})
	}
}

func TestOpenIssuesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // reject all connections

	client := newTestClient(t, srv.URL)

	result := client.OpenIssues(context.Background(), "CRM")
	if !result.Suppressed {
		t.Error("expected suppressed result when the tracker is unreachable")
	}
}

func TestUpdateDueDate(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	var gotBody map[string]map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/issue/CRM-3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, WithClock(func() time.Time { return now }))

	result := client.UpdateDueDate(context.Background(), "CRM-3", 1)
	if result.Suppressed {
		t.Fatal("expected successful update")
	}
	if result.IssueKey != "CRM-3" || result.NewTimeline != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	// One week out from the injected clock.
	if got := gotBody["fields"]["duedate"]; got != "2024-05-27" {
		t.Errorf("expected duedate 2024-05-27, got %s", got)
	}
}

func TestUpdateDueDateSuppression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such issue", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	result := client.UpdateDueDate(context.Background(), "CRM-404", 2)
	if !result.Suppressed {
		t.Error("expected suppressed result")
	}
	if result.IssueKey != "" || result.NewTimeline != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestDisabledTrackerSuppressesEverything(t *testing.T) {
	disabled := NewDisabled(testLogger())

	if result := disabled.OpenIssues(context.Background(), "CRM"); !result.Suppressed {
		t.Error("expected suppressed search")
	}
	if result := disabled.UpdateDueDate(context.Background(), "CRM-1", 1); !result.Suppressed {
		t.Error("expected suppressed update")
	}
}
