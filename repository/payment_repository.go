package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// PaymentRepository defines the interface for subscription payment records.
// The actual charge happens at the payment provider; this only tracks status.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	ListByUser(userID uint) ([]models.Payment, error)
	UpdateStatus(paymentID uint, status string) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	if payment.UserID == 0 {
		return errors.New("payment user ID cannot be empty")
	}
	if payment.PaymentStatus == "" {
		payment.PaymentStatus = models.PaymentStatusPending
	}
	if err := r.db.Create(payment).Error; err != nil {
		log.Printf("ERROR: [PaymentRepository] Failed to create payment for user %d: %v", payment.UserID, err)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) ListByUser(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		log.Printf("ERROR: [PaymentRepository] Failed to list payments for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to list payments for user %d: %w", userID, err)
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatus(paymentID uint, status string) error {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted, models.PaymentStatusFailed:
	default:
		return fmt.Errorf("invalid payment status '%s'", status)
	}
	result := r.db.Model(&models.Payment{}).Where("id = ?", paymentID).Update("payment_status", status)
	if result.Error != nil {
		log.Printf("ERROR: [PaymentRepository] Failed to update payment %d status: %v", paymentID, result.Error)
		return fmt.Errorf("failed to update payment %d status: %w", paymentID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update payment %d status: %w", paymentID, gorm.ErrRecordNotFound)
	}
	return nil
}
