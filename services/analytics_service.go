package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/repository"
)

// AnalyticsSummary holds the usage counts for a chatbot over a trailing
// window of days.
type AnalyticsSummary struct {
	ConversationCount              int     `json:"total_conversations"`
	MessageCount                   int64   `json:"total_messages"`
	AverageMessagesPerConversation float64 `json:"average_messages_per_conversation"`
	PeriodDays                     int     `json:"period_days"`
}

// AnalyticsService computes usage summaries. It works from the
// conversation and message tables directly, not from the analytics event
// log.
type AnalyticsService interface {
	Summarize(chatbotID uint, days int) (*AnalyticsSummary, error)
}

type analyticsService struct {
	chatbotRepo      repository.ChatbotRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	chatbotRepo repository.ChatbotRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
) AnalyticsService {
	return &analyticsService{
		chatbotRepo:      chatbotRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// Summarize counts the chatbot's conversations created within the trailing
// days-day window and their messages. With no conversations in-window the
// average is 0, never a division error.
func (s *analyticsService) Summarize(chatbotID uint, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		days = 30
	}

	if _, err := s.chatbotRepo.GetByID(chatbotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chatbot %d: %w", chatbotID, ErrNotFound)
		}
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	conversations, err := s.conversationRepo.ListByChatbotSince(chatbotID, since)
	if err != nil {
		return nil, err
	}

	var totalMessages int64
	for _, conversation := range conversations {
		count, err := s.messageRepo.CountByConversation(conversation.ID)
		if err != nil {
			return nil, err
		}
		totalMessages += count
	}

	divisor := len(conversations)
	if divisor < 1 {
		divisor = 1
	}
	return &AnalyticsSummary{
		ConversationCount:              len(conversations),
		MessageCount:                   totalMessages,
		AverageMessagesPerConversation: float64(totalMessages) / float64(divisor),
		PeriodDays:                     days,
	}, nil
}
