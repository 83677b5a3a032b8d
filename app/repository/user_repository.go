package repository

import (
	"strings"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with pagination
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search finds users by name or email
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	like := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", like, like).
		Order("created_at DESC").
		Limit(100).
		Find(&users).Error
	return users, err
}

// CountActiveSupporters counts users with a live supporter or vip grant
func (r *userRepository) CountActiveSupporters(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("supporter_tier <> '' AND (supporter_expires_at IS NULL OR supporter_expires_at > ?)", now).
		Count(&count).Error
	return count, err
}
