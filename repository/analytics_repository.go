package repository

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// AnalyticsRepository defines the interface for the append-only usage event
// log. The summary endpoint does not read from here; it recomputes from the
// conversation and message tables.
type AnalyticsRepository interface {
	RecordEvent(event *models.AnalyticsEvent) error
	ListByChatbot(chatbotID uint, limit int) ([]models.AnalyticsEvent, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) RecordEvent(event *models.AnalyticsEvent) error {
	if event.EventType == "" {
		return fmt.Errorf("analytics event type cannot be empty")
	}
	if err := r.db.Create(event).Error; err != nil {
		log.Printf("ERROR: [AnalyticsRepository] Failed to record '%s' event for chatbot %d: %v", event.EventType, event.ChatbotID, err)
		return fmt.Errorf("failed to record analytics event: %w", err)
	}
	return nil
}

func (r *analyticsRepository) ListByChatbot(chatbotID uint, limit int) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := r.db.Where("chatbot_id = ?", chatbotID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		log.Printf("ERROR: [AnalyticsRepository] Failed to list events for chatbot %d: %v", chatbotID, err)
		return nil, fmt.Errorf("failed to list analytics events for chatbot %d: %w", chatbotID, err)
	}
	return events, nil
}
