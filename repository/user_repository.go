package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// UserRepository defines the interface for interacting with user accounts
// and their monthly message quota counters.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	IncrementMonthlyUsage(userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if user.Email == "" {
		return errors.New("user email cannot be empty")
	}
	if err := r.db.Create(user).Error; err != nil {
		log.Printf("ERROR: [UserRepository] Failed to create user '%s': %v", user.Email, err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR: [UserRepository] Failed to fetch user %d: %v", id, err)
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

// IncrementMonthlyUsage bumps the current-month message counter by one.
// The counter is reset elsewhere at the start of each billing period.
func (r *userRepository) IncrementMonthlyUsage(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("current_month_messages", gorm.Expr("current_month_messages + 1"))
	if result.Error != nil {
		log.Printf("ERROR: [UserRepository] Failed to increment usage for user %d: %v", userID, result.Error)
		return fmt.Errorf("failed to increment usage for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to increment usage for user %d: %w", userID, gorm.ErrRecordNotFound)
	}
	return nil
}
