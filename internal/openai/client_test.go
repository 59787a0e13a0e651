package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI mocks the OpenAI API surface
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockAPI) CreateSummary(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func newTestClient(api API, dimensions int) *Client {
	return &Client{api: api, dimensions: dimensions}
}

func TestClient_GenerateEmbedding_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 3)

	mockAPI.On("CreateEmbeddings", mock.Anything, []string{"hello"}).
		Return([][]float32{{0.1, 0.2, 0.3}}, nil)

	vector, err := client.GenerateEmbedding(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 3)

	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
	mockAPI.AssertNotCalled(t, "CreateEmbeddings")
}

func TestClient_GenerateEmbeddings_OrderPreserving(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 2)

	texts := []string{"first", "second", "third"}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	mockAPI.On("CreateEmbeddings", mock.Anything, texts).Return(vectors, nil)

	got, err := client.GenerateEmbeddings(context.Background(), texts)

	require.NoError(t, err)
	assert.Equal(t, vectors, got)
}

func TestClient_GenerateEmbeddings_APIFailure(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 3)

	apiErr := errors.New("rate limit exceeded")
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(nil, apiErr)

	_, err := client.GenerateEmbeddings(context.Background(), []string{"text"})

	assert.ErrorIs(t, err, domain.ErrEmbedding)
	assert.ErrorIs(t, err, apiErr)
}

func TestClient_GenerateEmbeddings_WrongDimensions(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 1536)

	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).
		Return([][]float32{{0.1, 0.2}}, nil)

	_, err := client.GenerateEmbeddings(context.Background(), []string{"text"})

	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

func TestClient_Summarize_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 3)

	mockAPI.On("CreateSummary", mock.Anything, "long document").
		Return("short summary", nil)

	summary, err := client.Summarize(context.Background(), "long document")

	require.NoError(t, err)
	assert.Equal(t, "short summary", summary)
}

func TestClient_Summarize_EmptyText(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newTestClient(mockAPI, 3)

	_, err := client.Summarize(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyText)
	mockAPI.AssertNotCalled(t, "CreateSummary")
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClientWithConfig_DefaultDimensions(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "test-key"})

	assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
}
