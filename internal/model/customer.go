// Package model defines domain entities for the application.
package model

// Customer attribute names stored in the customers table.
const (
	FieldOverview    = "overview"
	FieldMeetingType = "meetingType"
	FieldTimeOfDay   = "timeOfDay"
	FieldDayOfWeek   = "dayOfWeek"
)

// CustomerFieldNames contains every attribute a caller may project from a
// customer record. Projections are validated against this set at the
// repository boundary.
var CustomerFieldNames = []string{
	FieldOverview,
	FieldMeetingType,
	FieldTimeOfDay,
	FieldDayOfWeek,
}

// PreferenceFieldNames is the projection used for customer meeting
// preferences.
var PreferenceFieldNames = []string{
	FieldMeetingType,
	FieldTimeOfDay,
	FieldDayOfWeek,
}

// Customer represents a customer record. Records are created by an external
// bootstrap loader and are read-only at runtime; lookups are by exact
// customer ID only.
type Customer struct {
	CustomerID  string         `json:"customer_id" dynamodbav:"customer_id"`
	Overview    map[string]any `json:"overview,omitempty" dynamodbav:"overview,omitempty"`
	MeetingType string         `json:"meetingType,omitempty" dynamodbav:"meetingType,omitempty"`
	TimeOfDay   string         `json:"timeOfDay,omitempty" dynamodbav:"timeOfDay,omitempty"`
	DayOfWeek   string         `json:"dayOfWeek,omitempty" dynamodbav:"dayOfWeek,omitempty"`
}

// Interaction represents a single customer interaction. The composite key is
// (customer_id, date); the date string is sortable (ISO-8601), which makes it
// the range key for most-recent-first queries.
type Interaction struct {
	CustomerID string `json:"customer_id,omitempty" dynamodbav:"customer_id"`
	Date       string `json:"date" dynamodbav:"date"`
	Notes      string `json:"notes" dynamodbav:"notes"`
}
