package services

import (
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
	"github.com/BigManDrewskii/greekgpt/repository"
	"github.com/BigManDrewskii/greekgpt/utils"
)

// historyLimit caps how many prior turns are loaded into the prompt.
const historyLimit = 10

// DefaultConversationTitle is given to conversations created lazily on the
// first message.
const DefaultConversationTitle = "Νέα Συζήτηση"

// ConversationService resolves chat sessions and assembles prompts for the
// completion client. It is read-only with respect to messages; writing the
// new turns is the caller's job after a completion.
type ConversationService interface {
	ResolveOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error)
	BuildPrompt(chatbot *models.Chatbot, conversation *models.Conversation, userText string) ([]openai.ChatCompletionMessage, error)
}

type conversationService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
}

// NewConversationService creates a new ConversationService.
func NewConversationService(conversationRepo repository.ConversationRepository, messageRepo repository.MessageRepository) ConversationService {
	return &conversationService{conversationRepo: conversationRepo, messageRepo: messageRepo}
}

// ResolveOrCreate returns the conversation addressed by sessionID if it
// exists and belongs to the chatbot; otherwise it creates a fresh one with
// a new session token. Two concurrent callers supplying the same unknown
// sessionID may each get their own conversation; there is no cross-request
// lock here.
func (s *conversationService) ResolveOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error) {
	if sessionID != "" {
		conversation, err := s.conversationRepo.GetBySessionID(sessionID)
		if err == nil {
			if conversation.ChatbotID == chatbotID {
				return conversation, nil
			}
			log.Printf("WARN: [ConversationService] Session '%s' belongs to chatbot %d, not %d. Starting a new conversation.", sessionID, conversation.ChatbotID, chatbotID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	conversation := &models.Conversation{
		SessionID: utils.NewSessionID(),
		Title:     DefaultConversationTitle,
		IsActive:  true,
		ChatbotID: chatbotID,
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// BuildPrompt produces the ordered prompt for a chat turn: the chatbot's
// system prompt first, then up to historyLimit prior turns oldest-first,
// then the new user text. It never includes turns from other conversations.
func (s *conversationService) BuildPrompt(chatbot *models.Chatbot, conversation *models.Conversation, userText string) ([]openai.ChatCompletionMessage, error) {
	recent, err := s.messageRepo.GetRecent(conversation.ID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for conversation %d: %w", conversation.ID, err)
	}

	prompt := make([]openai.ChatCompletionMessage, 0, len(recent)+2)
	prompt = append(prompt, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatbot.SystemPrompt,
	})

	// recent is newest-first; walk it backwards for chronological order.
	for i := len(recent) - 1; i >= 0; i-- {
		role := openai.ChatMessageRoleUser
		if recent[i].Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		prompt = append(prompt, openai.ChatCompletionMessage{
			Role:    role,
			Content: recent[i].Content,
		})
	}

	prompt = append(prompt, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})
	return prompt, nil
}
