package models

import "time"

// Conversation is a chat session between an end user and a chatbot.
// SessionID is the opaque token external callers address it by; the integer
// primary key never leaves the backend.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"uniqueIndex" json:"session_id"`
	Title     string    `json:"title"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    *uint `gorm:"index" json:"user_id,omitempty"`
	ChatbotID uint  `gorm:"index" json:"chatbot_id"`
}

// TableName specifies the table name for the Conversation model.
func (Conversation) TableName() string {
	return "conversations"
}

// Message is one turn within a conversation. Immutable once written;
// ordering within a conversation is CreatedAt, ties broken by ID.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	Role      string    `json:"role"` // "user" or "assistant"
	CreatedAt time.Time `json:"created_at"`

	ConversationID uint `gorm:"index" json:"conversation_id"`
}

// TableName specifies the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}
