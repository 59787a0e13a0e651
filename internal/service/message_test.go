package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/docgenius-ai/docgenius/internal/retrieval"
)

// keywordEmbedder maps text onto a 3-dimensional space where each axis
// counts one keyword, making nearest sentences predictable.
func keywordEmbedder() *stubEmbedder {
	keywords := []string{"sky", "water", "fire"}
	return &stubEmbedder{embedFn: func(text string) []float32 {
		vector := make([]float32, len(keywords))
		lower := strings.ToLower(text)
		for i, kw := range keywords {
			vector[i] = float32(strings.Count(lower, kw))
		}
		return vector
	}}
}

func newTestMessageService(
	chatRepo *MockChatRepository,
	sentenceRepo *MockSentenceRepository,
	msgRepo *MockMessageRepository,
) *MessageService {
	engine := retrieval.NewEngine(keywordEmbedder(), retrieval.Config{
		TopK:          1,
		ContextWindow: retrieval.DefaultContextWindow,
	})
	return NewMessageService(chatRepo, sentenceRepo, msgRepo, engine)
}

func testCorpus(chatID string) []*domain.Sentence {
	return []*domain.Sentence{
		{ChatID: chatID, Position: 0, Content: "The sky is blue", Embedding: []float32{1, 0, 0}},
		{ChatID: chatID, Position: 1, Content: "Water is wet", Embedding: []float32{0, 1, 0}},
		{ChatID: chatID, Position: 2, Content: "Fire is hot", Embedding: []float32{0, 0, 1}},
	}
}

func TestMessageService_SendMessage(t *testing.T) {
	ctx := context.Background()
	ownedChat := &domain.Chat{ID: "c1", UserID: "u1", CreatedAt: time.Now()}

	t.Run("retrieves the matching sentence and persists the exchange", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		sentenceRepo := new(MockSentenceRepository)
		msgRepo := new(MockMessageRepository)
		svc := newTestMessageService(chatRepo, sentenceRepo, msgRepo)

		chatRepo.On("GetByID", ctx, "c1").Return(ownedChat, nil)
		sentenceRepo.On("ListByChat", ctx, "c1").Return(testCorpus("c1"), nil)
		msgRepo.On("ListRecent", ctx, "c1", retrieval.DefaultContextWindow).Return([]*domain.Message{}, nil)
		msgRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.ChatID == "c1" && m.Text == "What color is the sky?" && m.Answer == "The sky is blue"
		})).Return(nil)

		message, err := svc.SendMessage(ctx, "u1", "c1", "What color is the sky?")
		require.NoError(t, err)
		assert.Equal(t, "The sky is blue", message.Answer)
		msgRepo.AssertExpectations(t)
	})

	t.Run("prior turns steer retrieval", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		sentenceRepo := new(MockSentenceRepository)
		msgRepo := new(MockMessageRepository)
		svc := newTestMessageService(chatRepo, sentenceRepo, msgRepo)

		// The question alone is ambiguous; the previous turn about water
		// pulls the query vector toward the water sentence.
		recent := []*domain.Message{
			{ID: "m1", ChatID: "c1", Text: "Tell me about water", Answer: "Water is wet", CreatedAt: time.Now()},
		}

		chatRepo.On("GetByID", ctx, "c1").Return(ownedChat, nil)
		sentenceRepo.On("ListByChat", ctx, "c1").Return(testCorpus("c1"), nil)
		msgRepo.On("ListRecent", ctx, "c1", retrieval.DefaultContextWindow).Return(recent, nil)
		msgRepo.On("Create", ctx, mock.Anything).Return(nil)

		message, err := svc.SendMessage(ctx, "u1", "c1", "What is it like?")
		require.NoError(t, err)
		assert.Equal(t, "Water is wet", message.Answer)
	})

	t.Run("blank question", func(t *testing.T) {
		svc := newTestMessageService(new(MockChatRepository), new(MockSentenceRepository), new(MockMessageRepository))

		_, err := svc.SendMessage(ctx, "u1", "c1", "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("chat owned by someone else", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		svc := newTestMessageService(chatRepo, new(MockSentenceRepository), new(MockMessageRepository))

		chatRepo.On("GetByID", ctx, "c1").Return(ownedChat, nil)

		_, err := svc.SendMessage(ctx, "intruder", "c1", "What color is the sky?")
		assert.ErrorIs(t, err, domain.ErrChatNotOwned)
	})

	t.Run("chat with no corpus", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		sentenceRepo := new(MockSentenceRepository)
		msgRepo := new(MockMessageRepository)
		svc := newTestMessageService(chatRepo, sentenceRepo, msgRepo)

		chatRepo.On("GetByID", ctx, "c1").Return(ownedChat, nil)
		sentenceRepo.On("ListByChat", ctx, "c1").Return([]*domain.Sentence{}, nil)
		msgRepo.On("ListRecent", ctx, "c1", retrieval.DefaultContextWindow).Return([]*domain.Message{}, nil)

		_, err := svc.SendMessage(ctx, "u1", "c1", "What color is the sky?")
		assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
		msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestMessageService_ListMessages(t *testing.T) {
	ctx := context.Background()
	chatRepo := new(MockChatRepository)
	msgRepo := new(MockMessageRepository)
	svc := newTestMessageService(chatRepo, new(MockSentenceRepository), msgRepo)

	chat := &domain.Chat{ID: "c1", UserID: "u1", CreatedAt: time.Now()}
	messages := []*domain.Message{{ID: "m1", ChatID: "c1", Text: "q", Answer: "a", CreatedAt: time.Now()}}

	chatRepo.On("GetByID", ctx, "c1").Return(chat, nil)
	msgRepo.On("ListByChat", ctx, "c1").Return(messages, nil)

	got, err := svc.ListMessages(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListMessages(ctx, "intruder", "c1")
	assert.ErrorIs(t, err, domain.ErrChatNotOwned)
}
