package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

type MessageRepository struct {
	db dbtx
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

func NewMessageRepositoryWithTx(tx pgx.Tx) *MessageRepository {
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, chat_id, text, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.ChatID, message.Text, message.Answer, message.CreatedAt,
	)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.QueryRow(ctx,
		`SELECT id, chat_id, text, answer, created_at
		 FROM messages WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.ChatID, &m.Text, &m.Answer, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByChat returns the full history, oldest first.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, chat_id, text, answer, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY created_at ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessageRows(rows)
}

// ListRecent returns up to limit of the latest messages, newest first.
func (r *MessageRepository) ListRecent(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, chat_id, text, answer, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessageRows(rows)
}

func scanMessageRows(rows pgx.Rows) ([]*domain.Message, error) {
	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Text, &m.Answer, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
