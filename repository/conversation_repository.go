package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// ConversationRepository defines the interface for interacting with chat
// sessions. Conversations are addressed internally by primary key and
// externally by their opaque session identifier.
type ConversationRepository interface {
	Create(conversation *models.Conversation) error
	GetBySessionID(sessionID string) (*models.Conversation, error)
	Touch(conversationID uint) error
	ListByChatbotSince(chatbotID uint, since time.Time) ([]models.Conversation, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new instance of ConversationRepository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(conversation *models.Conversation) error {
	if conversation.SessionID == "" {
		return errors.New("conversation session ID cannot be empty")
	}
	if err := r.db.Create(conversation).Error; err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to create conversation for chatbot %d: %v", conversation.ChatbotID, err)
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	log.Printf("INFO: [ConversationRepository] Created conversation %d (session '%s') for chatbot %d.", conversation.ID, conversation.SessionID, conversation.ChatbotID)
	return nil
}

func (r *conversationRepository) GetBySessionID(sessionID string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.First(&conversation, "session_id = ?", sessionID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR: [ConversationRepository] Failed to fetch conversation by session '%s': %v", sessionID, err)
		}
		return nil, fmt.Errorf("failed to fetch conversation by session '%s': %w", sessionID, err)
	}
	return &conversation, nil
}

// Touch bumps the conversation's UpdatedAt after a completed chat turn.
func (r *conversationRepository) Touch(conversationID uint) error {
	err := r.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn("updated_at", time.Now()).Error
	if err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to touch conversation %d: %v", conversationID, err)
		return fmt.Errorf("failed to touch conversation %d: %w", conversationID, err)
	}
	return nil
}

// ListByChatbotSince returns the chatbot's conversations created at or after
// the given time. The window has no upper bound.
func (r *conversationRepository) ListByChatbotSince(chatbotID uint, since time.Time) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("chatbot_id = ? AND created_at >= ?", chatbotID, since).
		Find(&conversations).Error
	if err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to list conversations for chatbot %d: %v", chatbotID, err)
		return nil, fmt.Errorf("failed to list conversations for chatbot %d: %w", chatbotID, err)
	}
	return conversations, nil
}
