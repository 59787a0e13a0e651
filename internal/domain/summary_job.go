package domain

import (
	"fmt"
	"time"
)

// SummaryJobStatus represents the status of a summary job
type SummaryJobStatus string

const (
	SummaryJobStatusPending    SummaryJobStatus = "pending"
	SummaryJobStatusProcessing SummaryJobStatus = "processing"
	SummaryJobStatusCompleted  SummaryJobStatus = "completed"
	SummaryJobStatusFailed     SummaryJobStatus = "failed"
)

// SummaryJob represents an async document summarization job. Summaries are
// generated in the background so document ingestion does not block on the
// summarizer model.
type SummaryJob struct {
	ID          string
	ChatID      string
	Status      SummaryJobStatus
	Retries     int32
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewSummaryJob creates a new SummaryJob instance
func NewSummaryJob(
	id, chatID string,
	status SummaryJobStatus,
	retries int32,
	errMsg string,
	createdAt time.Time,
	processedAt *time.Time,
) *SummaryJob {
	return &SummaryJob{
		ID:          id,
		ChatID:      chatID,
		Status:      status,
		Retries:     retries,
		Error:       errMsg,
		CreatedAt:   createdAt,
		ProcessedAt: processedAt,
	}
}

// ValidateSummaryJob validates a SummaryJob instance
func ValidateSummaryJob(j *SummaryJob) error {
	if j == nil {
		return fmt.Errorf("summary job cannot be nil")
	}

	if j.ID == "" {
		return fmt.Errorf("summary job ID is required")
	}

	if j.ChatID == "" {
		return fmt.Errorf("summary job ChatID is required")
	}

	if !isValidSummaryJobStatus(j.Status) {
		return fmt.Errorf("summary job Status is invalid: %s", j.Status)
	}

	if j.Retries < 0 {
		return fmt.Errorf("summary job Retries cannot be negative")
	}

	return nil
}

// isValidSummaryJobStatus checks if a SummaryJobStatus is valid
func isValidSummaryJobStatus(s SummaryJobStatus) bool {
	switch s {
	case SummaryJobStatusPending, SummaryJobStatusProcessing,
		SummaryJobStatusCompleted, SummaryJobStatusFailed:
		return true
	}
	return false
}
