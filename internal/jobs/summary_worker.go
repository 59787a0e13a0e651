package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

const (
	// MaxRetries is the maximum number of retries for a failed job
	MaxRetries = 3

	// claimBatchSize bounds how many jobs one poll claims.
	claimBatchSize = 100
)

// SummaryJobRepository defines the interface for summary job persistence
type SummaryJobRepository interface {
	// ClaimPending retrieves and claims pending summary jobs
	ClaimPending(ctx context.Context, limit int) ([]*domain.SummaryJob, error)

	// UpdateStatus updates the status of a summary job
	UpdateStatus(ctx context.Context, id string, status domain.SummaryJobStatus, errMsg string) error

	// IncrementRetries increments the retry count for a job
	IncrementRetries(ctx context.Context, id string) error
}

// SummaryGenerator produces and stores a chat's document summary.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, chatID string) (string, error)
}

// SummaryWorker processes document summary jobs
type SummaryWorker struct {
	repo    SummaryJobRepository
	service SummaryGenerator
}

// NewSummaryWorker creates a new SummaryWorker instance
func NewSummaryWorker(repo SummaryJobRepository, service SummaryGenerator) *SummaryWorker {
	return &SummaryWorker{
		repo:    repo,
		service: service,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *SummaryWorker) ProcessJobs(ctx context.Context) error {
	jobs, err := w.repo.ClaimPending(ctx, claimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending summary jobs", len(jobs))

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}

	return nil
}

func (w *SummaryWorker) processJob(ctx context.Context, job *domain.SummaryJob) error {
	log.Printf("Processing job %s for chat %s", job.ID, job.ChatID)

	if _, err := w.service.GenerateSummary(ctx, job.ChatID); err != nil {
		return w.handleJobFailure(ctx, job, err)
	}

	if err := w.repo.UpdateStatus(ctx, job.ID, domain.SummaryJobStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	log.Printf("Job %s completed successfully", job.ID)
	return nil
}

// handleJobFailure handles a failed job with retry logic
func (w *SummaryWorker) handleJobFailure(ctx context.Context, job *domain.SummaryJob, jobErr error) error {
	log.Printf("Job %s failed: %v", job.ID, jobErr)

	if err := w.repo.IncrementRetries(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to increment retries: %w", err)
	}

	if job.Retries+1 >= MaxRetries {
		log.Printf("Job %s exceeded max retries (%d), marking as failed", job.ID, MaxRetries)
		errMsg := fmt.Sprintf("max retries exceeded: %v", jobErr)
		if err := w.repo.UpdateStatus(ctx, job.ID, domain.SummaryJobStatusFailed, errMsg); err != nil {
			return fmt.Errorf("failed to update job status to failed: %w", err)
		}
		return nil
	}

	// Reset to pending so the next poll picks it up again
	log.Printf("Job %s will be retried (attempt %d/%d)", job.ID, job.Retries+1, MaxRetries)
	errMsg := fmt.Sprintf("retry %d: %v", job.Retries+1, jobErr)
	if err := w.repo.UpdateStatus(ctx, job.ID, domain.SummaryJobStatusPending, errMsg); err != nil {
		return fmt.Errorf("failed to reset job status to pending: %w", err)
	}

	return nil
}
