package domain

import "strings"

// ReportStatus enumerates the triage lifecycle. Pending is the sole
// initial state; managers may move a report between any of the four.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusVerified      ReportStatus = "verified"
	ReportStatusRejected      ReportStatus = "rejected"
)

// ReportStatuses lists the status domain in display order.
var ReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusInvestigating,
	ReportStatusVerified,
	ReportStatusRejected,
}

// Valid reports whether the value is within the status domain.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInvestigating, ReportStatusVerified, ReportStatusRejected:
		return true
	}
	return false
}

// ParseReportStatus normalizes caller input into the status domain.
func ParseReportStatus(raw string) (ReportStatus, bool) {
	s := ReportStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Report is a complaint submitted by a member and triaged by managers.
// InstitutionName and UserRole are snapshots taken at submission.
type Report struct {
	ID              string
	UserID          string
	InstitutionID   string
	InstitutionName string
	UserRole        string
	Title           string
	Description     string
	Status          ReportStatus
	ManagerResponse string
	CreatedAt       int64
	UpdatedAt       int64
}

// ReportStatistics aggregates per-status counts for one institution.
type ReportStatistics struct {
	Total         int
	Pending       int
	Investigating int
	Verified      int
	Rejected      int
}
