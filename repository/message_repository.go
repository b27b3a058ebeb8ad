package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// MessageRepository defines the interface for interacting with conversation
// turns. Messages are append-only; there is no update or delete.
type MessageRepository interface {
	Save(message *models.Message) error
	GetRecent(conversationID uint, limit int) ([]models.Message, error)
	ListByConversation(conversationID uint) ([]models.Message, error)
	CountByConversation(conversationID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Save(message *models.Message) error {
	if message.ConversationID == 0 {
		return errors.New("message conversation ID cannot be empty")
	}
	if err := r.db.Create(message).Error; err != nil {
		log.Printf("ERROR: [MessageRepository] Failed to save %s message for conversation %d: %v", message.Role, message.ConversationID, err)
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetRecent returns up to limit messages for the conversation, newest first.
// Callers wanting chronological order reverse the slice themselves.
func (r *messageRepository) GetRecent(conversationID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: [MessageRepository] Failed to fetch recent messages for conversation %d: %v", conversationID, err)
		return nil, fmt.Errorf("failed to fetch recent messages for conversation %d: %w", conversationID, err)
	}
	return messages, nil
}

// ListByConversation returns every message of the conversation in
// chronological order, ties broken by insertion order.
func (r *messageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: [MessageRepository] Failed to list messages for conversation %d: %v", conversationID, err)
		return nil, fmt.Errorf("failed to list messages for conversation %d: %w", conversationID, err)
	}
	return messages, nil
}

func (r *messageRepository) CountByConversation(conversationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [MessageRepository] Failed to count messages for conversation %d: %v", conversationID, err)
		return 0, fmt.Errorf("failed to count messages for conversation %d: %w", conversationID, err)
	}
	return count, nil
}
