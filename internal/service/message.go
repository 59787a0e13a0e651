package service

import (
	"context"
	"strings"
	"time"

	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/docgenius-ai/docgenius/internal/retrieval"
)

type MessageRepositoryInterface interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByChat(ctx context.Context, chatID string) ([]*domain.Message, error)
	ListRecent(ctx context.Context, chatID string, limit int) ([]*domain.Message, error)
}

// MessageService answers questions against a chat's document corpus.
type MessageService struct {
	chatRepo     ChatRepositoryInterface
	sentenceRepo SentenceRepositoryInterface
	msgRepo      MessageRepositoryInterface
	engine       *retrieval.Engine
	uuidGen      UUIDGenerator
}

func NewMessageService(
	chatRepo ChatRepositoryInterface,
	sentenceRepo SentenceRepositoryInterface,
	msgRepo MessageRepositoryInterface,
	engine *retrieval.Engine,
) *MessageService {
	return &MessageService{
		chatRepo:     chatRepo,
		sentenceRepo: sentenceRepo,
		msgRepo:      msgRepo,
		engine:       engine,
		uuidGen:      &DefaultUUIDGenerator{},
	}
}

// SendMessage answers a question about the chat's document. The last turns
// of the conversation are folded into the query before embedding, the corpus
// is searched, and both the question and the assembled answer are persisted
// as a single message.
func (s *MessageService) SendMessage(ctx context.Context, userID, chatID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, domain.ErrChatNotOwned
	}

	corpus, err := s.sentenceRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	sentences := make([]string, len(corpus))
	embeddings := make([][]float32, len(corpus))
	for i, sentence := range corpus {
		sentences[i] = sentence.Content
		embeddings[i] = sentence.Embedding
	}

	recent, err := s.msgRepo.ListRecent(ctx, chatID, retrieval.DefaultContextWindow)
	if err != nil {
		return nil, err
	}

	// ListRecent returns newest first; turns are fed oldest first.
	turns := make([]retrieval.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, retrieval.Turn{Text: recent[i].Text, Answer: recent[i].Answer})
	}

	answer, err := s.engine.AnswerQuery(ctx, text, sentences, embeddings, turns)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:        s.uuidGen.NewString(),
		ChatID:    chatID,
		Text:      strings.TrimSpace(text),
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateMessage(message); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid message", err)
	}

	if err := s.msgRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ListMessages returns a chat's full message history, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, userID, chatID string) ([]*domain.Message, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, domain.ErrChatNotOwned
	}
	return s.msgRepo.ListByChat(ctx, chatID)
}
