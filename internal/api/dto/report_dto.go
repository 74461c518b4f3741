package dto

// SubmitReportRequest payload for report creation.
type SubmitReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateReportRequest payload for triage. Response is optional; when
// absent the stored manager response stays as is.
type UpdateReportRequest struct {
	Status   string  `json:"status"`
	Response *string `json:"response"`
}

// ReportSummary is the public view of a report.
type ReportSummary struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
	UserRole        string `json:"user_role"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	ManagerResponse string `json:"manager_response,omitempty"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

// ReportStatisticsResponse aggregates per-status counts.
type ReportStatisticsResponse struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	Investigating int `json:"investigating"`
	Verified      int `json:"verified"`
	Rejected      int `json:"rejected"`
}
