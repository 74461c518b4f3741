package events

import (
	"time"

	"github.com/spec-kit/cms-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInstitutionCreated EventType = "institution_created"
	EventRolesAdded         EventType = "roles_added"
	EventInstitutionJoined  EventType = "institution_joined"
	EventReportSubmitted    EventType = "report_submitted"
	EventReportUpdated      EventType = "report_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InstitutionCreatedPayload payload.
type InstitutionCreatedPayload struct {
	InstitutionID   string   `json:"institution_id"`
	Name            string   `json:"name"`
	ManagerRoleName string   `json:"manager_role_name"`
	Roles           []string `json:"roles"`
	MembershipBound bool     `json:"membership_bound"`
}

// RolesAddedPayload payload.
type RolesAddedPayload struct {
	InstitutionID string   `json:"institution_id"`
	Added         []string `json:"added"`
	Duplicates    []string `json:"duplicates,omitempty"`
}

// InstitutionJoinedPayload payload.
type InstitutionJoinedPayload struct {
	InstitutionID string `json:"institution_id"`
	Role          string `json:"role"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	ReportID      string `json:"report_id"`
	InstitutionID string `json:"institution_id"`
	Title         string `json:"title"`
}

// ReportUpdatedPayload payload.
type ReportUpdatedPayload struct {
	ReportID  string              `json:"report_id"`
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
	Responded bool                `json:"responded"`
}
