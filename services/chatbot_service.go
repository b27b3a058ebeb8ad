package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/cache"
	"github.com/BigManDrewskii/greekgpt/models"
	"github.com/BigManDrewskii/greekgpt/repository"
)

// Chatbot type presets. Each maps to a Greek default system prompt; the
// prompt stored on the chatbot is derived from the preset once at creation
// time and never re-derived.
const (
	ChatbotTypeCustomerService   = "customer_service"
	ChatbotTypeBusinessAssistant = "business_assistant"
	ChatbotTypeGeneral           = "general"
)

var greekSystemPrompts = map[string]string{
	ChatbotTypeCustomerService: "Είστε ένας φιλικός Ελληνικός βοηθός εξυπηρέτησης πελατών.\n" +
		"Μιλάτε απλά και κατανοητά, χωρίς τεχνικούς όρους.\n" +
		"Είστε υπομονετικός και βοηθάτε τους χρήστες βήμα-βήμα.\n" +
		"Απαντάτε πάντα στα Ελληνικά.",
	ChatbotTypeBusinessAssistant: "Είστε ένας επαγγελματικός βοηθός για Ελληνικές επιχειρήσεις.\n" +
		"Παρέχετε σαφείς και χρήσιμες πληροφορίες για επιχειρηματικά θέματα.\n" +
		"Είστε ευγενικός και επαγγελματικός.",
	ChatbotTypeGeneral: "Είστε ένας φιλικός Ελληνικός βοηθός.\n" +
		"Μιλάτε απλά και κατανοητά για όλους.\n" +
		"Είστε υπομονετικός και βοηθάτε με κάθε ερώτηση.",
}

// Defaults applied when the creation spec leaves fields empty.
const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultTemperature    = float32(0.7)
	DefaultMaxTokens      = 500
	DefaultWelcomeMessage = "Γεια σας! Πώς μπορώ να σας βοηθήσω σήμερα;"
)

// ChatbotSpec is the caller-supplied configuration for a new chatbot.
// Pointer fields distinguish "absent" from zero values.
type ChatbotSpec struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	CustomInstructions string   `json:"custom_instructions"`
	WelcomeMessage     string   `json:"welcome_message"`
	AvatarURL          string   `json:"avatar_url"`
	Model              string   `json:"model"`
	Temperature        *float32 `json:"temperature"`
	MaxTokens          *int     `json:"max_tokens"`
}

// ChatbotUpdate is the partial-update patch for an existing chatbot. Only
// non-nil fields are applied; the set of updatable fields is a fixed
// allow-list, so caller-supplied keys can never reach internal columns.
type ChatbotUpdate struct {
	Name               *string             `json:"name"`
	Description        *string             `json:"description"`
	SystemPrompt       *string             `json:"system_prompt"`
	WelcomeMessage     *string             `json:"welcome_message"`
	AvatarURL          *string             `json:"avatar_url"`
	IsActive           *bool               `json:"is_active"`
	CustomInstructions *string             `json:"custom_instructions"`
	ModelConfig        *models.ModelConfig `json:"model_config"`
}

// ChatbotService manages chatbot configuration.
type ChatbotService interface {
	Create(ctx context.Context, ownerID uint, spec ChatbotSpec) (*models.Chatbot, error)
	Get(ctx context.Context, chatbotID uint) (*models.Chatbot, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Chatbot, error)
	Update(ctx context.Context, chatbotID uint, patch ChatbotUpdate) (*models.Chatbot, error)
}

type chatbotService struct {
	chatbotRepo repository.ChatbotRepository
	botCache    *cache.ChatbotCache // may be nil
}

// NewChatbotService creates a new ChatbotService. botCache may be nil, in
// which case every read goes to the database.
func NewChatbotService(chatbotRepo repository.ChatbotRepository, botCache *cache.ChatbotCache) ChatbotService {
	return &chatbotService{chatbotRepo: chatbotRepo, botCache: botCache}
}

// Create builds a chatbot from a type preset plus optional overrides. The
// stored system prompt is preset text, then a blank line, then the custom
// instructions verbatim (if any).
func (s *chatbotService) Create(ctx context.Context, ownerID uint, spec ChatbotSpec) (*models.Chatbot, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("chatbot name is required: %w", ErrValidation)
	}

	botType := spec.Type
	if botType == "" {
		botType = ChatbotTypeGeneral
	}
	systemPrompt, ok := greekSystemPrompts[botType]
	if !ok {
		log.Printf("WARN: [ChatbotService] Unknown chatbot type '%s', falling back to '%s'.", botType, ChatbotTypeGeneral)
		systemPrompt = greekSystemPrompts[ChatbotTypeGeneral]
	}
	if spec.CustomInstructions != "" {
		systemPrompt += "\n\n" + spec.CustomInstructions
	}

	modelConfig := models.ModelConfig{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if spec.Model != "" {
		modelConfig.Model = spec.Model
	}
	if spec.Temperature != nil {
		modelConfig.Temperature = *spec.Temperature
	}
	if spec.MaxTokens != nil {
		modelConfig.MaxTokens = *spec.MaxTokens
	}

	welcome := spec.WelcomeMessage
	if welcome == "" {
		welcome = DefaultWelcomeMessage
	}

	chatbot := &models.Chatbot{
		Name:               spec.Name,
		Description:        spec.Description,
		SystemPrompt:       systemPrompt,
		WelcomeMessage:     welcome,
		AvatarURL:          spec.AvatarURL,
		IsActive:           true,
		OwnerID:            ownerID,
		ModelConfig:        modelConfig,
		KnowledgeBase:      models.KnowledgeBase{Documents: []string{}, URLs: []string{}},
		CustomInstructions: spec.CustomInstructions,
	}
	if err := s.chatbotRepo.Create(chatbot); err != nil {
		return nil, err
	}
	s.botCache.SetChatbot(ctx, chatbot)
	return chatbot, nil
}

// Get resolves a chatbot, preferring the cache when one is configured.
func (s *chatbotService) Get(ctx context.Context, chatbotID uint) (*models.Chatbot, error) {
	if chatbot, ok := s.botCache.GetChatbot(ctx, chatbotID); ok {
		return chatbot, nil
	}
	chatbot, err := s.chatbotRepo.GetByID(chatbotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chatbot %d: %w", chatbotID, ErrNotFound)
		}
		return nil, err
	}
	s.botCache.SetChatbot(ctx, chatbot)
	return chatbot, nil
}

func (s *chatbotService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Chatbot, error) {
	return s.chatbotRepo.GetByOwner(ownerID)
}

// Update applies the non-nil fields of the patch and refreshes the
// modification timestamp. Fields outside the patch struct do not exist as
// far as callers are concerned.
func (s *chatbotService) Update(ctx context.Context, chatbotID uint, patch ChatbotUpdate) (*models.Chatbot, error) {
	chatbot, err := s.chatbotRepo.GetByID(chatbotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chatbot %d: %w", chatbotID, ErrNotFound)
		}
		return nil, err
	}

	if patch.Name != nil {
		chatbot.Name = *patch.Name
	}
	if patch.Description != nil {
		chatbot.Description = *patch.Description
	}
	if patch.SystemPrompt != nil {
		chatbot.SystemPrompt = *patch.SystemPrompt
	}
	if patch.WelcomeMessage != nil {
		chatbot.WelcomeMessage = *patch.WelcomeMessage
	}
	if patch.AvatarURL != nil {
		chatbot.AvatarURL = *patch.AvatarURL
	}
	if patch.IsActive != nil {
		chatbot.IsActive = *patch.IsActive
	}
	if patch.CustomInstructions != nil {
		chatbot.CustomInstructions = *patch.CustomInstructions
	}
	if patch.ModelConfig != nil {
		chatbot.ModelConfig = *patch.ModelConfig
	}

	if err := s.chatbotRepo.Update(chatbot); err != nil {
		return nil, err
	}
	s.botCache.InvalidateChatbot(ctx, chatbotID)
	log.Printf("INFO: [ChatbotService] Updated chatbot %d.", chatbotID)
	return chatbot, nil
}
