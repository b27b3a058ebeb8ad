package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// ChatbotRepository defines the interface for interacting with chatbot records.
type ChatbotRepository interface {
	Create(chatbot *models.Chatbot) error
	GetByID(id uint) (*models.Chatbot, error)
	GetByOwner(ownerID uint) ([]models.Chatbot, error)
	Update(chatbot *models.Chatbot) error
}

type chatbotRepository struct {
	db *gorm.DB
}

// NewChatbotRepository creates a new instance of ChatbotRepository.
func NewChatbotRepository(db *gorm.DB) ChatbotRepository {
	return &chatbotRepository{db: db}
}

func (r *chatbotRepository) Create(chatbot *models.Chatbot) error {
	if err := r.db.Create(chatbot).Error; err != nil {
		log.Printf("ERROR: [ChatbotRepository] Failed to create chatbot '%s': %v", chatbot.Name, err)
		return fmt.Errorf("failed to create chatbot: %w", err)
	}
	log.Printf("INFO: [ChatbotRepository] Created chatbot %d ('%s') for owner %d.", chatbot.ID, chatbot.Name, chatbot.OwnerID)
	return nil
}

func (r *chatbotRepository) GetByID(id uint) (*models.Chatbot, error) {
	var chatbot models.Chatbot
	if err := r.db.First(&chatbot, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR: [ChatbotRepository] Failed to fetch chatbot %d: %v", id, err)
		}
		return nil, fmt.Errorf("failed to fetch chatbot %d: %w", id, err)
	}
	return &chatbot, nil
}

func (r *chatbotRepository) GetByOwner(ownerID uint) ([]models.Chatbot, error) {
	var chatbots []models.Chatbot
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&chatbots).Error; err != nil {
		log.Printf("ERROR: [ChatbotRepository] Failed to list chatbots for owner %d: %v", ownerID, err)
		return nil, fmt.Errorf("failed to list chatbots for owner %d: %w", ownerID, err)
	}
	return chatbots, nil
}

// Update persists every field of the chatbot, refreshing UpdatedAt.
func (r *chatbotRepository) Update(chatbot *models.Chatbot) error {
	if err := r.db.Save(chatbot).Error; err != nil {
		log.Printf("ERROR: [ChatbotRepository] Failed to update chatbot %d: %v", chatbot.ID, err)
		return fmt.Errorf("failed to update chatbot %d: %w", chatbot.ID, err)
	}
	return nil
}
