package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChatRepository is a mock implementation of ChatRepositoryInterface
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Chat), args.Error(1)
}

func (m *MockChatRepository) UpdateSummary(ctx context.Context, id, summary string) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockChatRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSentenceRepository is a mock implementation of SentenceRepositoryInterface
type MockSentenceRepository struct {
	mock.Mock
}

func (m *MockSentenceRepository) ReplaceForChat(ctx context.Context, chatID string, sentences []*domain.Sentence) error {
	args := m.Called(ctx, chatID, sentences)
	return args.Error(0)
}

func (m *MockSentenceRepository) ListByChat(ctx context.Context, chatID string) ([]*domain.Sentence, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Sentence), args.Error(1)
}

// MockMessageRepository is a mock implementation of MessageRepositoryInterface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByChat(ctx context.Context, chatID string) ([]*domain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListRecent(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	args := m.Called(ctx, chatID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

// MockSummaryJobRepository is a mock implementation of SummaryJobRepositoryInterface
type MockSummaryJobRepository struct {
	mock.Mock
}

func (m *MockSummaryJobRepository) Create(ctx context.Context, job *domain.SummaryJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSummaryJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.SummaryJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SummaryJob), args.Error(1)
}

func (m *MockSummaryJobRepository) UpdateStatus(ctx context.Context, id string, status domain.SummaryJobStatus, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockSummaryJobRepository) IncrementRetries(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerification(ctx context.Context, toEmail, toName, token string) error {
	args := m.Called(ctx, toEmail, toName, token)
	return args.Error(0)
}

// MockDocumentStore is a mock implementation of DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockSummarizer is a mock implementation of Summarizer
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

// stubEmbedder returns a fixed-dimension vector whose first component counts
// the words shared with a small vocabulary, enough to make nearest-neighbor
// results predictable in tests.
type stubEmbedder struct {
	embedFn func(text string) []float32
	err     error
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.embedFn(text), nil
}

func (s *stubEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = s.embedFn(text)
	}
	return vectors, nil
}

// fakeTxRunner executes the transaction function directly against the mocks.
type fakeTxRunner struct {
	chats       ChatRepositoryInterface
	sentences   SentenceRepositoryInterface
	summaryJobs SummaryJobRepositoryInterface
	err         error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(f)
}

func (f *fakeTxRunner) Chats() ChatRepositoryInterface             { return f.chats }
func (f *fakeTxRunner) Sentences() SentenceRepositoryInterface     { return f.sentences }
func (f *fakeTxRunner) SummaryJobs() SummaryJobRepositoryInterface { return f.summaryJobs }
