package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docgenius-ai/docgenius/internal/api"
	"github.com/docgenius-ai/docgenius/internal/api/middleware"
	"github.com/docgenius-ai/docgenius/internal/domain"
)

type MessageService interface {
	SendMessage(ctx context.Context, userID, chatID, text string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID, chatID string) ([]*domain.Message, error)
}

type MessageHandler struct {
	svc MessageService
}

func NewMessageHandler(svc MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

func messageToResponse(m *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Text:      m.Text,
		Answer:    m.Answer,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	chatID := chi.URLParam(r, "chatID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.svc.SendMessage(r.Context(), userID, chatID, req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, messageToResponse(message))
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	chatID := chi.URLParam(r, "chatID")

	messages, err := h.svc.ListMessages(r.Context(), userID, chatID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, messageToResponse(m))
	}

	api.Success(w, http.StatusOK, resp)
}
