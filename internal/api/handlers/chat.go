package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docgenius-ai/docgenius/internal/api"
	"github.com/docgenius-ai/docgenius/internal/api/middleware"
	"github.com/docgenius-ai/docgenius/internal/domain"
	"github.com/docgenius-ai/docgenius/internal/service"
)

type ChatService interface {
	CreateChat(ctx context.Context, input service.CreateChatInput) (*domain.Chat, error)
	GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	ListChats(ctx context.Context, userID string) ([]*domain.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type CreateChatRequest struct {
	FileName string `json:"file_name"`
	DocType  string `json:"doc_type"`
	SizeKB   int64  `json:"size_kb"`
	// Text is the extracted document text to ingest.
	Text string `json:"text"`
	// Document optionally carries the raw file, base64-encoded.
	Document string `json:"document,omitempty"`
}

type ChatResponse struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	DocumentPath string             `json:"document_path,omitempty"`
	DocType      string             `json:"doc_type,omitempty"`
	SizeKB       int64              `json:"size_kb"`
	Summary      string             `json:"summary,omitempty"`
	CreatedAt    string             `json:"created_at"`
	Messages     []*MessageResponse `json:"messages,omitempty"`
}

func chatToResponse(c *domain.Chat) *ChatResponse {
	return &ChatResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		DocumentPath: c.DocumentPath,
		DocType:      c.DocType,
		SizeKB:       c.SizeKB,
		Summary:      c.Summary,
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func chatWithMessagesToResponse(c *service.ChatWithMessages) *ChatResponse {
	resp := chatToResponse(c.Chat)
	resp.Messages = make([]*MessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		resp.Messages = append(resp.Messages, messageToResponse(m))
	}
	return resp
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	var document []byte
	if req.Document != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Document)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "document must be base64-encoded")
			return
		}
		document = decoded
	}

	chat, err := h.svc.CreateChat(r.Context(), service.CreateChatInput{
		UserID:   userID,
		FileName: req.FileName,
		DocType:  req.DocType,
		SizeKB:   req.SizeKB,
		Text:     req.Text,
		Document: document,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, chatToResponse(chat))
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	chatID := chi.URLParam(r, "chatID")

	chat, err := h.svc.GetChat(r.Context(), userID, chatID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, chatToResponse(chat))
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	chats, err := h.svc.ListChats(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*ChatResponse, 0, len(chats))
	for _, c := range chats {
		resp = append(resp, chatToResponse(c))
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	chatID := chi.URLParam(r, "chatID")

	if err := h.svc.DeleteChat(r.Context(), userID, chatID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
