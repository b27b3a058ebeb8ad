package models

import "time"

// User represents a registered account. Guests chat without a User record;
// registered users carry a monthly message quota that the chat flow
// increments on every turn.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex" json:"email"`
	Username       string     `gorm:"uniqueIndex" json:"username"`
	FullName       string     `json:"full_name"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsVerified     bool       `gorm:"default:false" json:"is_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Subscription details
	SubscriptionTier     string     `gorm:"default:free" json:"subscription_tier"`
	SubscriptionEndDate  *time.Time `json:"subscription_end_date,omitempty"`
	MonthlyMessageLimit  int        `gorm:"default:100" json:"monthly_message_limit"`
	CurrentMonthMessages int        `gorm:"default:0" json:"current_month_messages"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
