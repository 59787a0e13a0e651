package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// SentenceRepository persists a chat's corpus: the ordered sentences and
// their embeddings computed at ingestion time.
type SentenceRepository struct {
	db dbtx
}

func NewSentenceRepository(pool *pgxpool.Pool) *SentenceRepository {
	return &SentenceRepository{db: pool}
}

func NewSentenceRepositoryWithTx(tx dbtx) *SentenceRepository {
	return &SentenceRepository{db: tx}
}

// ReplaceForChat deletes the chat's existing corpus and inserts the new one.
func (r *SentenceRepository) ReplaceForChat(ctx context.Context, chatID string, sentences []*domain.Sentence) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_sentences WHERE chat_id = $1`, chatID)
	if err != nil {
		return err
	}

	for _, s := range sentences {
		_, err := r.db.Exec(ctx,
			`INSERT INTO chat_sentences (chat_id, position, content, embedding)
			 VALUES ($1, $2, $3, $4)`,
			s.ChatID, s.Position, s.Content, pgvector.NewVector(s.Embedding),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByChat returns the corpus in document order.
func (r *SentenceRepository) ListByChat(ctx context.Context, chatID string) ([]*domain.Sentence, error) {
	rows, err := r.db.Query(ctx,
		`SELECT chat_id, position, content, embedding
		 FROM chat_sentences WHERE chat_id = $1 ORDER BY position ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sentences []*domain.Sentence
	for rows.Next() {
		var s domain.Sentence
		var embedding pgvector.Vector
		if err := rows.Scan(&s.ChatID, &s.Position, &s.Content, &embedding); err != nil {
			return nil, err
		}
		s.Embedding = embedding.Slice()
		sentences = append(sentences, &s)
	}
	return sentences, rows.Err()
}
