//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/docgenius-ai/docgenius/internal/testutil"
)

func newTestSummaryJob(chatID string) *domain.SummaryJob {
	return &domain.SummaryJob{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Status:    domain.SummaryJobStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestSummaryJobRepository_Create(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	job := newTestSummaryJob(chat.ID)
	require.NoError(t, jobRepo.Create(ctx, job))

	retrieved, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryJobStatusPending, retrieved.Status)
	assert.Equal(t, int32(0), retrieved.Retries)
	assert.Empty(t, retrieved.Error)
	assert.Nil(t, retrieved.ProcessedAt)
}

func TestSummaryJobRepository_ClaimPending(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	job := newTestSummaryJob(chat.ID)
	require.NoError(t, jobRepo.Create(ctx, job))

	claimed, err := jobRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, job.ID, claimed[0].ID)
	assert.Equal(t, domain.SummaryJobStatusProcessing, claimed[0].Status)

	// already claimed, nothing pending
	again, err := jobRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestSummaryJobRepository_ClaimPending_RespectsLimit(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	for i := 0; i < 3; i++ {
		require.NoError(t, jobRepo.Create(ctx, newTestSummaryJob(chat.ID)))
	}

	claimed, err := jobRepo.ClaimPending(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	rest, err := jobRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSummaryJobRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	job := newTestSummaryJob(chat.ID)
	require.NoError(t, jobRepo.Create(ctx, job))

	require.NoError(t, jobRepo.UpdateStatus(ctx, job.ID, domain.SummaryJobStatusCompleted, ""))

	retrieved, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryJobStatusCompleted, retrieved.Status)
	assert.NotNil(t, retrieved.ProcessedAt)
}

func TestSummaryJobRepository_UpdateStatus_Failed(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	job := newTestSummaryJob(chat.ID)
	require.NoError(t, jobRepo.Create(ctx, job))

	require.NoError(t, jobRepo.UpdateStatus(ctx, job.ID, domain.SummaryJobStatusFailed, "max retries exceeded"))

	retrieved, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryJobStatusFailed, retrieved.Status)
	assert.Equal(t, "max retries exceeded", retrieved.Error)
	assert.NotNil(t, retrieved.ProcessedAt)
}

func TestSummaryJobRepository_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	jobRepo := NewSummaryJobRepository(pool)

	err := jobRepo.UpdateStatus(ctx, uuid.NewString(), domain.SummaryJobStatusCompleted, "")
	assert.ErrorIs(t, err, ErrSummaryJobNotFound)
}

func TestSummaryJobRepository_IncrementRetries(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	userRepo := NewUserRepository(pool)
	chatRepo := NewChatRepository(pool)
	jobRepo := NewSummaryJobRepository(pool)

	user := setupUserForChat(ctx, t, userRepo)
	chat := newTestChatRow(user.ID)
	require.NoError(t, chatRepo.Create(ctx, chat))

	job := newTestSummaryJob(chat.ID)
	require.NoError(t, jobRepo.Create(ctx, job))

	require.NoError(t, jobRepo.IncrementRetries(ctx, job.ID))
	require.NoError(t, jobRepo.IncrementRetries(ctx, job.ID))

	retrieved, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), retrieved.Retries)
}
