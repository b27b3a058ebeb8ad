package models

import "time"

// ModelConfig holds the completion parameters stored per chatbot.
type ModelConfig struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// KnowledgeBase is a placeholder for per-chatbot reference material.
// Nothing reads it yet; the chat flow works from SystemPrompt alone.
type KnowledgeBase struct {
	Documents []string `json:"documents"`
	URLs      []string `json:"urls"`
}

// Chatbot is a user-configured Greek-language assistant. SystemPrompt is
// derived once at creation time from a preset plus optional custom
// instructions and is not re-derived afterwards.
type Chatbot struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"index" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	SystemPrompt   string    `gorm:"type:text" json:"system_prompt"`
	WelcomeMessage string    `json:"welcome_message"`
	AvatarURL      string    `json:"avatar_url"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	OwnerID uint `gorm:"index" json:"owner_id"`

	ModelConfig        ModelConfig   `gorm:"serializer:json" json:"model_config"`
	KnowledgeBase      KnowledgeBase `gorm:"serializer:json" json:"knowledge_base"`
	CustomInstructions string        `gorm:"type:text" json:"custom_instructions"`
}

// TableName specifies the table name for the Chatbot model.
func (Chatbot) TableName() string {
	return "chatbots"
}
