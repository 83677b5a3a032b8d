package repository

import (
	"strings"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByReference retrieves a payment by its unique reference
func (r *paymentRepository) GetByReference(reference string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser retrieves a user's payments, newest first
func (r *paymentRepository) ListByUser(userID uint, offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("initiated_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error
	return payments, err
}

// List retrieves payments with an optional status filter and total count
func (r *paymentRepository) List(status string, offset, limit int) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Order("initiated_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, count, err
}

// Search finds payments by reference fragments
func (r *paymentRepository) Search(query string) ([]models.Payment, error) {
	var payments []models.Payment
	like := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("reference LIKE ? OR lenco_reference LIKE ?", like, like).
		Order("initiated_at DESC").
		Limit(100).
		Find(&payments).Error
	return payments, err
}

// CountByStatus returns the number of payments in the given status
func (r *paymentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumCompleted totals all completed payment amounts across the platform
func (r *paymentRepository) SumCompleted() (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
