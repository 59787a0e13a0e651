package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

type ChatRepository struct {
	db dbtx
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: pool}
}

func NewChatRepositoryWithTx(tx pgx.Tx) *ChatRepository {
	return &ChatRepository{db: tx}
}

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chats (id, user_id, document_path, doc_type, size_kb, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		chat.ID, chat.UserID, nullableString(chat.DocumentPath), nullableString(chat.DocType),
		chat.SizeKB, nullableString(chat.Summary), chat.CreatedAt,
	)
	return err
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	var c domain.Chat
	var documentPath, docType, summary pgtype.Text
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, document_path, doc_type, size_kb, summary, created_at
		 FROM chats WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &documentPath, &docType, &c.SizeKB, &summary, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	if documentPath.Valid {
		c.DocumentPath = documentPath.String
	}
	if docType.Valid {
		c.DocType = docType.String
	}
	if summary.Valid {
		c.Summary = summary.String
	}
	return &c, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Chat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, document_path, doc_type, size_kb, summary, created_at
		 FROM chats WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		var c domain.Chat
		var documentPath, docType, summary pgtype.Text
		if err := rows.Scan(&c.ID, &c.UserID, &documentPath, &docType, &c.SizeKB, &summary, &c.CreatedAt); err != nil {
			return nil, err
		}
		if documentPath.Valid {
			c.DocumentPath = documentPath.String
		}
		if docType.Valid {
			c.DocType = docType.String
		}
		if summary.Valid {
			c.Summary = summary.String
		}
		chats = append(chats, &c)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) UpdateSummary(ctx context.Context, id, summary string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE chats SET summary = $1 WHERE id = $2`,
		summary, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

// Delete removes a chat; sentences, messages, and summary jobs cascade via
// foreign keys.
func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}
