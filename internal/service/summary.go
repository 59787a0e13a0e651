package service

import (
	"context"
	"strings"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// Summarizer produces a short summary of document text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SummaryService generates document summaries for background jobs.
type SummaryService struct {
	chatRepo     ChatRepositoryInterface
	sentenceRepo SentenceRepositoryInterface
	summarizer   Summarizer
}

func NewSummaryService(
	chatRepo ChatRepositoryInterface,
	sentenceRepo SentenceRepositoryInterface,
	summarizer Summarizer,
) *SummaryService {
	return &SummaryService{
		chatRepo:     chatRepo,
		sentenceRepo: sentenceRepo,
		summarizer:   summarizer,
	}
}

// GenerateSummary reconstructs the document text from the chat's stored
// sentences, summarizes it, and writes the summary back onto the chat.
func (s *SummaryService) GenerateSummary(ctx context.Context, chatID string) (string, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return "", err
	}

	sentences, err := s.sentenceRepo.ListByChat(ctx, chatID)
	if err != nil {
		return "", err
	}
	if len(sentences) == 0 {
		return "", domain.ErrEmptyCorpus
	}

	parts := make([]string, len(sentences))
	for i, sentence := range sentences {
		parts[i] = sentence.Content
	}
	text := strings.Join(parts, ". ") + "."

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", err
	}

	if err := s.chatRepo.UpdateSummary(ctx, chatID, summary); err != nil {
		return "", err
	}

	return summary, nil
}
