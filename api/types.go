package api

import (
	"github.com/BigManDrewskii/greekgpt/services"
)

// ClientChatRequest is the body of POST /api/chat. SessionID is optional;
// when absent or stale a new conversation is started. UserID is optional
// and identifies a registered user for quota accounting.
type ClientChatRequest struct {
	ChatbotID uint   `json:"chatbot_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
	UserID    uint   `json:"user_id,omitempty"`
}

// ChatResponse is returned for every chat turn, fallback turns included.
// Error carries diagnostic detail when the completion fell back; it is
// informational, never a failure signal.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	ChatbotID uint   `json:"chatbot_id"`
	Error     string `json:"error,omitempty"`
}

// MessageResponse is one turn in a session history listing.
type MessageResponse struct {
	Content   string `json:"content"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

// CreateChatbotRequest is the body of POST /api/chatbots.
type CreateChatbotRequest struct {
	OwnerID uint `json:"owner_id" binding:"required"`
	services.ChatbotSpec
}

// RegisterUserRequest is the body of POST /api/users. Authentication lives
// in front of this API; this only creates the account row.
type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
}

// CreatePaymentRequest is the body of POST /api/payments. The charge itself
// is made at the payment provider; this records the resulting intent.
type CreatePaymentRequest struct {
	UserID                uint    `json:"user_id" binding:"required"`
	Amount                float64 `json:"amount" binding:"required"`
	Currency              string  `json:"currency"`
	PaymentMethod         string  `json:"payment_method"`
	StripePaymentIntentID string  `json:"stripe_payment_intent_id"`
}

// UpdatePaymentStatusRequest is the body of POST /api/payments/:paymentID/status.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
