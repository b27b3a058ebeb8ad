package models

import "time"

// AnalyticsEvent is an append-only usage event ("message_sent" and the
// like). The analytics summary endpoint recomputes its numbers from the
// conversations and messages tables directly and never reads this log; the
// two paths are intentionally independent.
type AnalyticsEvent struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	UserID    *uint                  `gorm:"index" json:"user_id,omitempty"`
	ChatbotID uint                   `gorm:"index" json:"chatbot_id"`
	EventType string                 `gorm:"size:50;not null" json:"event_type"`
	EventData map[string]interface{} `gorm:"serializer:json" json:"event_data,omitempty"`
	Metadata  map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// TableName specifies the table name for the AnalyticsEvent model.
func (AnalyticsEvent) TableName() string {
	return "analytics"
}
