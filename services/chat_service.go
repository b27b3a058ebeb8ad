package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
	"github.com/BigManDrewskii/greekgpt/repository"
)

// ChatRequest carries one inbound chat turn. UserID is zero for guests;
// SessionID is empty for a brand-new conversation.
type ChatRequest struct {
	ChatbotID uint
	UserID    uint
	Message   string
	SessionID string
}

// ChatResult is the outcome of a processed turn. Fallback and Err mirror
// the completion result so the HTTP layer can decide what to expose.
type ChatResult struct {
	Response  string
	SessionID string
	ChatbotID uint
	Fallback  bool
	Err       string
}

// ChatService orchestrates a chat turn: resolve the session, assemble the
// prompt, call the completion API, persist the new turns and record usage.
type ChatService interface {
	ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResult, error)
}

type chatService struct {
	chatbotService      ChatbotService
	conversationService ConversationService
	completionClient    CompletionClient
	messageRepo         repository.MessageRepository
	conversationRepo    repository.ConversationRepository
	userRepo            repository.UserRepository
	analyticsRepo       repository.AnalyticsRepository
}

// NewChatService creates a new ChatService.
func NewChatService(
	chatbotService ChatbotService,
	conversationService ConversationService,
	completionClient CompletionClient,
	messageRepo repository.MessageRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	analyticsRepo repository.AnalyticsRepository,
) ChatService {
	return &chatService{
		chatbotService:      chatbotService,
		conversationService: conversationService,
		completionClient:    completionClient,
		messageRepo:         messageRepo,
		conversationRepo:    conversationRepo,
		userRepo:            userRepo,
		analyticsRepo:       analyticsRepo,
	}
}

// ProcessMessage handles one turn end to end. A failed completion still
// persists the user message and the fallback text as a normal message pair,
// so the turn shows up in history and the user never sees a hard failure.
func (s *chatService) ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("message is required: %w", ErrValidation)
	}

	chatbot, err := s.chatbotService.Get(ctx, req.ChatbotID)
	if err != nil {
		return nil, err
	}

	// Quota check for registered users. Guests (UserID 0) pass through.
	var user *models.User
	if req.UserID != 0 {
		user, err = s.userRepo.GetByID(req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user %d: %w", req.UserID, ErrNotFound)
			}
			return nil, err
		}
		if user.MonthlyMessageLimit > 0 && user.CurrentMonthMessages >= user.MonthlyMessageLimit {
			return nil, fmt.Errorf("user %d has used %d of %d messages: %w",
				user.ID, user.CurrentMonthMessages, user.MonthlyMessageLimit, ErrQuotaExceeded)
		}
	}

	conversation, err := s.conversationService.ResolveOrCreate(req.ChatbotID, req.SessionID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.conversationService.BuildPrompt(chatbot, conversation, req.Message)
	if err != nil {
		return nil, err
	}

	result := s.completionClient.Complete(ctx, chatbot.ModelConfig.Model, prompt,
		chatbot.ModelConfig.Temperature, chatbot.ModelConfig.MaxTokens)
	if result.Fallback {
		log.Printf("WARN: [ChatService] Completion fell back for chatbot %d, conversation %d: %s",
			chatbot.ID, conversation.ID, result.Err)
	}

	userMessage := &models.Message{
		ConversationID: conversation.ID,
		Content:        req.Message,
		Role:           "user",
	}
	if err := s.messageRepo.Save(userMessage); err != nil {
		return nil, err
	}
	assistantMessage := &models.Message{
		ConversationID: conversation.ID,
		Content:        result.Text,
		Role:           "assistant",
	}
	if err := s.messageRepo.Save(assistantMessage); err != nil {
		return nil, err
	}

	if err := s.conversationRepo.Touch(conversation.ID); err != nil {
		log.Printf("WARN: [ChatService] Failed to bump conversation %d timestamp: %v", conversation.ID, err)
	}

	if user != nil {
		if err := s.userRepo.IncrementMonthlyUsage(user.ID); err != nil {
			log.Printf("WARN: [ChatService] Failed to increment usage for user %d: %v", user.ID, err)
		}
	}

	event := &models.AnalyticsEvent{
		ChatbotID: chatbot.ID,
		EventType: "message_sent",
		EventData: map[string]interface{}{
			"conversation_id": conversation.ID,
			"fallback":        result.Fallback,
		},
	}
	if user != nil {
		event.UserID = &user.ID
	}
	if err := s.analyticsRepo.RecordEvent(event); err != nil {
		log.Printf("WARN: [ChatService] Failed to record analytics event for chatbot %d: %v", chatbot.ID, err)
	}

	return &ChatResult{
		Response:  result.Text,
		SessionID: conversation.SessionID,
		ChatbotID: chatbot.ID,
		Fallback:  result.Fallback,
		Err:       result.Err,
	}, nil
}
