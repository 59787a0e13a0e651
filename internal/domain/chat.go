package domain

import (
	"fmt"
	"time"
)

// Chat represents one conversation, created when a user attaches a document.
// The extracted corpus (sentences plus embeddings) is owned by the chat and
// is immutable after ingestion.
type Chat struct {
	ID           string
	UserID       string
	DocumentPath string
	DocType      string
	SizeKB       int64
	Summary      string
	CreatedAt    time.Time
}

// NewChat creates a new Chat instance
func NewChat(id, userID, documentPath, docType string, sizeKB int64, summary string, createdAt time.Time) *Chat {
	return &Chat{
		ID:           id,
		UserID:       userID,
		DocumentPath: documentPath,
		DocType:      docType,
		SizeKB:       sizeKB,
		Summary:      summary,
		CreatedAt:    createdAt,
	}
}

// ValidateChat validates a Chat instance
func ValidateChat(c *Chat) error {
	if c == nil {
		return fmt.Errorf("chat cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("chat ID is required")
	}

	if c.UserID == "" {
		return fmt.Errorf("chat UserID is required")
	}

	if c.SizeKB < 0 {
		return fmt.Errorf("chat SizeKB cannot be negative")
	}

	return nil
}

// Sentence is one retrieval unit of a chat's corpus: a non-empty trimmed
// fragment of the ingested document, positioned by its 0-based index, with
// the embedding computed at ingestion time.
type Sentence struct {
	ChatID    string
	Position  int
	Content   string
	Embedding []float32
}

// ValidateSentence validates a Sentence instance
func ValidateSentence(s *Sentence) error {
	if s == nil {
		return fmt.Errorf("sentence cannot be nil")
	}

	if s.ChatID == "" {
		return fmt.Errorf("sentence ChatID is required")
	}

	if s.Position < 0 {
		return fmt.Errorf("sentence Position cannot be negative")
	}

	if s.Content == "" {
		return fmt.Errorf("sentence Content is required")
	}

	if len(s.Embedding) == 0 {
		return fmt.Errorf("sentence Embedding is required")
	}

	return nil
}
