package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

var ErrSummaryJobNotFound = errors.New("summary job not found")

type SummaryJobRepository struct {
	db dbtx
}

func NewSummaryJobRepository(pool *pgxpool.Pool) *SummaryJobRepository {
	return &SummaryJobRepository{db: pool}
}

func NewSummaryJobRepositoryWithTx(tx pgx.Tx) *SummaryJobRepository {
	return &SummaryJobRepository{db: tx}
}

func (r *SummaryJobRepository) Create(ctx context.Context, job *domain.SummaryJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO summary_jobs (id, chat_id, status, retries, error, created_at, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.ChatID, job.Status, job.Retries, nullableString(job.Error), job.CreatedAt, job.ProcessedAt,
	)
	return err
}

func (r *SummaryJobRepository) GetByID(ctx context.Context, id string) (*domain.SummaryJob, error) {
	var job domain.SummaryJob
	var errMsg pgtype.Text
	err := r.db.QueryRow(ctx,
		`SELECT id, chat_id, status, retries, error, created_at, processed_at
		 FROM summary_jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.ChatID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSummaryJobNotFound
		}
		return nil, err
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	return &job, nil
}

// ClaimPending atomically moves up to limit pending jobs to processing and
// returns them. SKIP LOCKED keeps concurrent workers from claiming the same
// job twice.
func (r *SummaryJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.SummaryJob, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`WITH cte AS (
			 SELECT id
			 FROM summary_jobs
			 WHERE status = $1
			 ORDER BY created_at ASC
			 FOR UPDATE SKIP LOCKED
			 LIMIT $2
		 )
		 UPDATE summary_jobs
		 SET status = $3,
		     error = NULL,
		     processed_at = NULL
		 FROM cte
		 WHERE summary_jobs.id = cte.id
		 RETURNING summary_jobs.id, summary_jobs.chat_id, summary_jobs.status,
		           summary_jobs.retries, summary_jobs.error, summary_jobs.created_at, summary_jobs.processed_at`,
		domain.SummaryJobStatusPending, limit, domain.SummaryJobStatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.SummaryJob
	for rows.Next() {
		var job domain.SummaryJob
		var errMsg pgtype.Text
		if err := rows.Scan(&job.ID, &job.ChatID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			job.Error = errMsg.String
		}
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

func (r *SummaryJobRepository) UpdateStatus(ctx context.Context, id string, status domain.SummaryJobStatus, errMsg string) error {
	var processedAt *time.Time
	if status == domain.SummaryJobStatusCompleted || status == domain.SummaryJobStatusFailed {
		now := time.Now().UTC()
		processedAt = &now
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE summary_jobs SET status = $1, error = $2, processed_at = $3 WHERE id = $4`,
		status, nullableString(errMsg), processedAt, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSummaryJobNotFound
	}
	return nil
}

func (r *SummaryJobRepository) IncrementRetries(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE summary_jobs SET retries = retries + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSummaryJobNotFound
	}
	return nil
}
