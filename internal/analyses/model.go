package analyses

import "time"

// Analysis represents one resume evaluation job against a job description.
type Analysis struct {
	ID             string
	DocumentID     string
	UserID         string
	JobDescription string
	Provider       string
	Model          string
	Status         string
	Result         *AnalysisResult
	ErrorCode      *string
	ErrorMessage   *string
	ErrorRetryable *bool
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
