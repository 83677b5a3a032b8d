package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	DonationTierOneTime   = "one-time"
	DonationTierSupporter = "supporter"
	DonationTierVIP       = "vip"
)

// PaymentMethodLenco marks gateway collections; manual activations from the
// admin back-office use PaymentMethodManual.
const (
	PaymentMethodLenco  = "lenco"
	PaymentMethodManual = "manual"
)

// Payment is the durable ledger row for one donation attempt. Reference is
// the caller-generated idempotency key for the whole subsystem; rows are
// never deleted and status only moves forward (pending -> completed|failed).
type Payment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Reference      string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference"`
	LencoReference string     `gorm:"type:varchar(100);default:''" json:"lenco_reference"`
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string     `gorm:"type:varchar(3);not null;default:'ZMW'" json:"currency"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod  string     `gorm:"type:varchar(20);not null;default:'lenco'" json:"payment_method"`
	DonationTier   string     `gorm:"type:varchar(20);not null;index" json:"donation_tier"`
	IsRecurring    bool       `gorm:"not null;default:false" json:"is_recurring"`
	RawPayloadJSON string     `gorm:"type:longtext" json:"-"`
	FailureReason  string     `gorm:"type:varchar(255);default:''" json:"failure_reason,omitempty"`
	InitiatedAt    time.Time  `gorm:"autoCreateTime;index" json:"initiated_at"`
	CompletedAt    *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether the payment reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
