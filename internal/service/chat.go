package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/docgenius-ai/docgenius/internal/retrieval"
)

type ChatRepositoryInterface interface {
	Create(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Chat, error)
	UpdateSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error
}

type SentenceRepositoryInterface interface {
	ReplaceForChat(ctx context.Context, chatID string, sentences []*domain.Sentence) error
	ListByChat(ctx context.Context, chatID string) ([]*domain.Sentence, error)
}

type SummaryJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.SummaryJob) error
	ClaimPending(ctx context.Context, limit int) ([]*domain.SummaryJob, error)
	UpdateStatus(ctx context.Context, id string, status domain.SummaryJobStatus, errMsg string) error
	IncrementRetries(ctx context.Context, id string) error
}

// DocumentStore persists uploaded document files. Object storage is
// optional; a nil store means documents are kept as extracted text only.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// ChatService manages chats and their sentence corpora.
type ChatService struct {
	chatRepo     ChatRepositoryInterface
	sentenceRepo SentenceRepositoryInterface
	txRunner     TxRunnerInterface
	engine       *retrieval.Engine
	store        DocumentStore
	uuidGen      UUIDGenerator
}

func NewChatService(
	chatRepo ChatRepositoryInterface,
	sentenceRepo SentenceRepositoryInterface,
	txRunner TxRunnerInterface,
	engine *retrieval.Engine,
	store DocumentStore,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		sentenceRepo: sentenceRepo,
		txRunner:     txRunner,
		engine:       engine,
		store:        store,
		uuidGen:      &DefaultUUIDGenerator{},
	}
}

type CreateChatInput struct {
	UserID   string
	FileName string
	DocType  string
	SizeKB   int64
	Text     string
	// Document holds the raw uploaded file, stored to object storage when
	// a store is configured.
	Document []byte
}

// CreateChat ingests a document: the extracted text is segmented into
// sentences, each sentence is embedded, and the corpus is stored alongside
// the chat in one transaction. A summary job is enqueued for background
// processing.
func (s *ChatService) CreateChat(ctx context.Context, input CreateChatInput) (*domain.Chat, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document text is required")
	}

	sentences, embeddings, err := s.engine.Ingest(ctx, input.Text)
	if err != nil {
		return nil, err
	}

	chatID := s.uuidGen.NewString()
	documentPath := ""
	if s.store != nil && len(input.Document) > 0 {
		key := chatID + "/" + input.FileName
		if err := s.store.Put(ctx, key, input.Document, contentTypeFor(input.DocType)); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to store document", err)
		}
		documentPath = key
	}

	chat := &domain.Chat{
		ID:           chatID,
		UserID:       input.UserID,
		DocumentPath: documentPath,
		DocType:      input.DocType,
		SizeKB:       input.SizeKB,
		CreatedAt:    time.Now().UTC(),
	}
	if err := domain.ValidateChat(chat); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chat", err)
	}

	corpus := make([]*domain.Sentence, len(sentences))
	for i, text := range sentences {
		corpus[i] = &domain.Sentence{
			ChatID:    chatID,
			Position:  i,
			Content:   text,
			Embedding: embeddings[i],
		}
	}

	job := &domain.SummaryJob{
		ID:        s.uuidGen.NewString(),
		ChatID:    chatID,
		Status:    domain.SummaryJobStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Chats().Create(ctx, chat); err != nil {
			return err
		}
		if err := repos.Sentences().ReplaceForChat(ctx, chatID, corpus); err != nil {
			return err
		}
		return repos.SummaryJobs().Create(ctx, job)
	})
	if err != nil {
		if s.store != nil && documentPath != "" {
			_ = s.store.Delete(ctx, documentPath)
		}
		return nil, err
	}

	return chat, nil
}

// GetChat returns a chat owned by the given user.
func (s *ChatService) GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, domain.ErrChatNotOwned
	}
	return chat, nil
}

// ListChats returns all chats owned by the user, newest first.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]*domain.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}

// DeleteChat removes a chat and everything attached to it. Sentences,
// messages, and summary jobs cascade at the database level; the stored
// document is removed afterwards.
func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID string) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrChatNotFound) {
			return domain.ErrChatNotFound
		}
		return err
	}
	if chat.UserID != userID {
		return domain.ErrChatNotOwned
	}

	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return err
	}

	if s.store != nil && chat.DocumentPath != "" {
		_ = s.store.Delete(ctx, chat.DocumentPath)
	}

	return nil
}

func contentTypeFor(docType string) string {
	switch strings.ToLower(strings.TrimPrefix(docType, ".")) {
	case "pdf":
		return "application/pdf"
	case "txt":
		return "text/plain"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
