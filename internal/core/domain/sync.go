package domain

import (
	"encoding/json"
	"time"
)

// SyncKind names the document-store collection an event is mirrored into.
type SyncKind string

const (
	SyncKindUser        SyncKind = "users"
	SyncKindAssessment  SyncKind = "assessments"
	SyncKindContact     SyncKind = "contacts"
	SyncKindDiagnosis   SyncKind = "ai_diagnoses"
	SyncKindUserDeleted SyncKind = "users.deleted"
)

// Collection returns the document-store collection the event writes to.
func (k SyncKind) Collection() string {
	if k == SyncKindUserDeleted {
		return string(SyncKindUser)
	}
	return string(k)
}

type SyncEvent struct {
	ID        string          `json:"id"`
	Kind      SyncKind        `json:"kind"`
	EntityID  string          `json:"entity_id"`
	UserID    string          `json:"user_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type SyncStatistics struct {
	TotalUsers            int            `json:"total_users"`
	TotalAssessments      int            `json:"total_assessments"`
	TotalContacts         int            `json:"total_contacts"`
	TotalDiagnoses        int            `json:"total_diagnoses"`
	AssessmentsByPriority map[string]int `json:"assessments_by_priority"`
}
