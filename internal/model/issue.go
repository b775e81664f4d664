package model

// AssigneeNone is the sentinel rendered when an issue has no assignee.
const AssigneeNone = "None"

// JiraIssue is the projection of a tracker issue returned to callers.
// It exists only within a single request/response cycle; nothing is
// persisted.
type JiraIssue struct {
	IssueKey string `json:"issueKey"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Project  string `json:"project"`
	DueDate  string `json:"duedate"`
	Assignee string `json:"assignee"`
}
