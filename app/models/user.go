package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is the profile subset owned by this service. Credential handling and
// session issuance live in the external identity provider; we only consume an
// authenticated user id and the admin flag.
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email              string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	Role               string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status             string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	SupporterTier      string         `gorm:"type:varchar(20);default:'';index" json:"supporter_tier"`
	SupporterSince     *time.Time     `gorm:"type:timestamp;default:null" json:"supporter_since,omitempty"`
	SupporterExpiresAt *time.Time     `gorm:"type:timestamp;default:null" json:"supporter_expires_at,omitempty"`
	TotalDonated       float64        `gorm:"type:decimal(10,2);not null;default:0" json:"total_donated"`
	LastLoginAt        *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsSupporterActive reports whether the user currently holds a supporter or
// vip grant. A nil expiry is a lifetime grant.
func (u *User) IsSupporterActive(now time.Time) bool {
	if u.SupporterTier == "" {
		return false
	}
	if u.SupporterExpiresAt == nil {
		return true
	}
	return u.SupporterExpiresAt.After(now)
}

// HasLifetimeGrant reports whether the user's tier never expires.
func (u *User) HasLifetimeGrant() bool {
	return u.SupporterTier != "" && u.SupporterExpiresAt == nil
}
