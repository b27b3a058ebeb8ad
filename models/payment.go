package models

import "time"

// Payment statuses mirror the states reported by the payment provider.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment records a subscription charge. Charging itself happens at the
// payment provider; this row only tracks the resulting intent and status.
type Payment struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"index" json:"user_id"`
	Amount                float64   `json:"amount"`
	Currency              string    `gorm:"default:EUR" json:"currency"`
	PaymentMethod         string    `json:"payment_method"`
	PaymentStatus         string    `json:"payment_status"` // pending, completed, failed
	StripePaymentIntentID string    `json:"stripe_payment_intent_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Payment model.
func (Payment) TableName() string {
	return "payments"
}
