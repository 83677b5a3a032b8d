package supporter

import (
	"errors"
	"fmt"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/utils"
	"gorm.io/gorm"
)

// Repository provides the durable ledger and supporter-state operations used
// by the donation service. The pending->completed transition and the user
// credit happen inside one transaction so a crash can never leave a completed
// ledger row without its user-side effect.
type Repository interface {
	CreatePending(p *models.Payment) error
	GetByReference(reference string) (*models.Payment, error)
	GetByReferenceForUser(reference string, userID uint) (*models.Payment, error)
	CompletePending(reference, lencoReference, rawPayload string, grant TierGrant) (CompletionState, *models.Payment, error)
	MarkFailed(reference, reason string) (bool, error)
	GetUser(userID uint) (*models.User, error)
	TotalDonated(userID uint) (float64, error)
	ListCompletedByUser(userID uint, limit int) ([]models.Payment, error)
	ListPayments(status string, offset, limit int) ([]models.Payment, int64, error)
	RecentSupporters(limit int) ([]SupporterEntry, error)
	ExpireLapsedTiers(now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a donation repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreatePending(p *models.Payment) error {
	if err := r.db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *gormRepository) GetByReference(reference string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetByReferenceForUser(reference string, userID uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("reference = ? AND user_id = ?", reference, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CompletePending performs the linearization point of the whole subsystem:
// a single conditional UPDATE guarded on status='pending'. RowsAffected
// decides the race winner; only the winner applies the user credit, inside
// the same transaction.
func (r *gormRepository) CompletePending(reference, lencoReference, rawPayload string, grant TierGrant) (CompletionState, *models.Payment, error) {
	state := CompletionUnknown
	var payment models.Payment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Payment{}).
			Where("reference = ? AND status = ?", reference, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":           models.PaymentStatusCompleted,
				"lenco_reference":  lencoReference,
				"raw_payload_json": rawPayload,
				"completed_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Where("reference = ?", reference).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				state = CompletionNotFound
				return nil
			}
			return err
		}

		if res.RowsAffected == 0 {
			switch payment.Status {
			case models.PaymentStatusCompleted:
				state = CompletionAlreadyCompleted
			case models.PaymentStatusFailed:
				state = CompletionAlreadyFailed
			default:
				return fmt.Errorf("payment %s: conditional update matched no row but status is %q", reference, payment.Status)
			}
			return nil
		}

		if err := r.applyDonation(tx, &payment, grant, now); err != nil {
			return err
		}
		state = CompletionCredited
		return nil
	})
	if err != nil {
		return CompletionUnknown, nil, err
	}
	if state == CompletionNotFound {
		return state, nil, nil
	}
	return state, &payment, nil
}

// applyDonation credits a completed payment to the user row. Called exactly
// once per reference, by the transaction that won the pending->completed race.
func (r *gormRepository) applyDonation(tx *gorm.DB, payment *models.Payment, grant TierGrant, now time.Time) error {
	updates := map[string]interface{}{
		"total_donated": gorm.Expr("total_donated + ?", payment.Amount),
	}

	if grant.Tier != "" {
		applyTier := true
		if grant.Trial {
			var user models.User
			if err := tx.First(&user, payment.UserID).Error; err != nil {
				return err
			}
			applyTier = grantImproves(&user, grant, now)
		}
		if applyTier {
			updates["supporter_tier"] = grant.Tier
			updates["supporter_expires_at"] = grant.ExpiresAt
		}
		// supporter_since is first-write-wins, even for trials.
		updates["supporter_since"] = gorm.Expr("COALESCE(supporter_since, ?)", now)
	}

	res := tx.Model(&models.User{}).Where("id = ?", payment.UserID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment %s: user %d not found while crediting donation", payment.Reference, payment.UserID)
	}
	return nil
}

// MarkFailed transitions pending->failed. Terminal rows are left untouched
// and reported via the bool.
func (r *gormRepository) MarkFailed(reference, reason string) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("reference = ? AND status = ?", reference, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TotalDonated sums completed payments for a user. The users.total_donated
// accumulator must always reconcile against this.
func (r *gormRepository) TotalDonated(userID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *gormRepository) ListCompletedByUser(userID uint, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ? AND status = ?", userID, models.PaymentStatusCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *gormRepository) ListPayments(status string, offset, limit int) ([]models.Payment, int64, error) {
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

func (r *gormRepository) RecentSupporters(limit int) ([]SupporterEntry, error) {
	var rows []struct {
		Name         string
		Email        string
		Tier         string
		TotalDonated float64
		Since        *time.Time
	}
	err := r.db.Model(&models.User{}).
		Select("name, email, supporter_tier AS tier, total_donated, supporter_since AS since").
		Where("supporter_tier <> '' AND (supporter_expires_at IS NULL OR supporter_expires_at > ?)", time.Now()).
		Order("supporter_since DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]SupporterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, SupporterEntry{
			Name:         row.Name,
			Tier:         row.Tier,
			TotalDonated: row.TotalDonated,
			AvatarURL:    utils.GetGravatarURL(row.Email, 80),
			Since:        row.Since,
		})
	}
	return entries, nil
}

// ExpireLapsedTiers clears the tier of every user whose grant window has
// passed. Lifetime grants (NULL expiry) are never touched.
func (r *gormRepository) ExpireLapsedTiers(now time.Time) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("supporter_tier <> '' AND supporter_expires_at IS NOT NULL AND supporter_expires_at <= ?", now).
		Updates(map[string]interface{}{
			"supporter_tier":       "",
			"supporter_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}
