package domain

import (
	"fmt"
	"time"
)

// Message represents one question/answer turn in a chat. Text is the user's
// query; Answer is assembled from retrieved corpus sentences.
type Message struct {
	ID        string
	ChatID    string
	Text      string
	Answer    string
	CreatedAt time.Time
}

// NewMessage creates a new Message instance
func NewMessage(id, chatID, text, answer string, createdAt time.Time) *Message {
	return &Message{
		ID:        id,
		ChatID:    chatID,
		Text:      text,
		Answer:    answer,
		CreatedAt: createdAt,
	}
}

// ValidateMessage validates a Message instance
func ValidateMessage(m *Message) error {
	if m == nil {
		return fmt.Errorf("message cannot be nil")
	}

	if m.ID == "" {
		return fmt.Errorf("message ID is required")
	}

	if m.ChatID == "" {
		return fmt.Errorf("message ChatID is required")
	}

	if m.Text == "" {
		return fmt.Errorf("message Text is required")
	}

	return nil
}
