package entities

import (
	"strings"
	"time"
)

// Report statuses
const (
	ReportStatusNew        = "NOUVEAU"
	ReportStatusInProgress = "EN_COURS"
	ReportStatusResolved   = "RESOLU"
)

// Priority levels shared by the AI triage and agent assignment fields
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Report is a citizen-filed issue with its assignment state. The core only
// ever reads a snapshot of these rows.
type Report struct {
	ID               string     `json:"id" db:"id"`
	Type             string     `json:"type" db:"type"`
	Status           string     `json:"status" db:"status"`
	Latitude         *float64   `json:"latitude" db:"latitude"`
	Longitude        *float64   `json:"longitude" db:"longitude"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"` // zero when missing or unparsable
	AIPriority       string     `json:"ai_priority" db:"ai_priority"`
	AssignedService  string     `json:"assigned_service,omitempty" db:"assigned_service"`
	AssignedUserID   string     `json:"assigned_user_id,omitempty" db:"assigned_user_id"`
	AssignedPriority string     `json:"assigned_priority,omitempty" db:"assigned_priority"`
	AssignedDueAt    *time.Time `json:"assigned_due_at,omitempty" db:"assigned_due_at"`
}

// HasTimestamp reports whether the creation time is usable for windowing.
func (r *Report) HasTimestamp() bool {
	return !r.CreatedAt.IsZero()
}

// IsAssigned reports whether a service owns the report.
func (r *Report) IsAssigned() bool {
	return strings.TrimSpace(r.AssignedService) != ""
}

// IsResolved reports whether the report is closed.
func (r *Report) IsResolved() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), ReportStatusResolved)
}

// IsOverdue reports whether the assignment deadline passed before now on an
// unresolved report.
func (r *Report) IsOverdue(now time.Time) bool {
	return r.AssignedDueAt != nil && r.AssignedDueAt.Before(now) && !r.IsResolved()
}

// EffectivePriority returns the agent-assigned priority when set, otherwise
// the AI triage priority. Always uppercase.
func (r *Report) EffectivePriority() string {
	if p := strings.TrimSpace(r.AssignedPriority); p != "" {
		return strings.ToUpper(p)
	}
	return strings.ToUpper(strings.TrimSpace(r.AIPriority))
}
