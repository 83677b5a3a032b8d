package repository

import (
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the read-side user queries used by the admin
// back-office. Account creation and profile editing belong to the external
// identity flow; supporter-state writes go through the donation pipeline.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	CountActiveSupporters(now time.Time) (int64, error)
}

// PaymentRepository defines read-side payment queries used by the admin
// back-office and dashboards. All state transitions go through the
// supporter package's ledger operations instead.
type PaymentRepository interface {
	GetByReference(reference string) (*models.Payment, error)
	ListByUser(userID uint, offset, limit int) ([]models.Payment, error)
	List(status string, offset, limit int) ([]models.Payment, int64, error)
	Search(query string) ([]models.Payment, error)
	CountByStatus(status string) (int64, error)
	SumCompleted() (float64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Payment PaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Payment: NewPaymentRepository(db),
	}
}
