package supporter

import (
	"errors"
	"time"
)

// Donation policy. Amounts are in the platform base currency (ZMW).
const (
	MinDonation        = 5.0
	SupporterThreshold = 15.0
	VIPThreshold       = 50.0
	OneTimeMax         = 1000.0

	SupporterPrice = 15.0
	VIPPrice       = 50.0
)

const (
	// RecurringCycleDays is the grant window for supporter/vip payments.
	// Non-recurring supporter/vip gifts use the same capped window; lifetime
	// grants are only issued by admin manual activation.
	RecurringCycleDays = 30
	// TrialDays is the supporter-perk trial granted for one-time donations.
	TrialDays = 7
)

// Error taxonomy for the donation pipeline. Entry points translate these to
// HTTP responses; nothing below this layer writes responses.
var (
	ErrDuplicateReference = errors.New("duplicate payment reference")
	ErrUnknownReference   = errors.New("unknown payment reference")
	ErrSignatureMismatch  = errors.New("webhook signature mismatch")
	ErrGatewayUnconfirmed = errors.New("gateway has not confirmed the payment yet")
	ErrGatewayFailed      = errors.New("gateway reported the payment as failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrAlreadyFailed      = errors.New("payment reference is already marked failed")
	ErrInvalidDonation    = errors.New("invalid donation request")
)

// TierGrant is the Tier Resolver's output: what a completed payment does to
// the user's supporter state.
type TierGrant struct {
	// Tier written to the user row; empty means no tier change.
	Tier string
	// ExpiresAt is the grant expiry; nil means a lifetime grant.
	ExpiresAt *time.Time
	// Trial grants must never shorten or downgrade an existing active grant.
	Trial bool
}

// CompletionState is the outcome of the atomic pending->completed transition.
type CompletionState int

const (
	CompletionUnknown CompletionState = iota
	// CompletionCredited: this caller won the race and the user was credited.
	CompletionCredited
	// CompletionAlreadyCompleted: another caller completed first; no-op.
	CompletionAlreadyCompleted
	// CompletionAlreadyFailed: the row is failed; completing it now is an
	// inconsistency to log, never a resurrection.
	CompletionAlreadyFailed
	CompletionNotFound
)

// DonationRequest is the initiation input consumed from the UI.
type DonationRequest struct {
	Tier        string  `json:"tier" validate:"required,oneof=one-time supporter vip"`
	Amount      float64 `json:"amount" validate:"omitempty,gt=0"`
	IsRecurring bool    `json:"isRecurring"`
}

// DonationIntent is returned from initiation; Reference is the idempotency
// key for the rest of the payment's life.
type DonationIntent struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Tier      string  `json:"tier"`
}

// VerifyResult is the UI-facing outcome of the synchronous verify path.
type VerifyResult struct {
	Success          bool    `json:"success"`
	AlreadyProcessed bool    `json:"already_processed,omitempty"`
	Tier             string  `json:"tier"`
	Amount           float64 `json:"amount"`
	TotalDonated     float64 `json:"total_donated"`
}

// WebhookResult reports what the asynchronous path did with an event.
type WebhookResult struct {
	Ignored          bool `json:"ignored,omitempty"`
	AlreadyProcessed bool `json:"already_processed,omitempty"`
	Credited         bool `json:"credited,omitempty"`
	UserID           uint `json:"-"`
}

// SupporterEntry is one row of the public supporter wall.
type SupporterEntry struct {
	Name         string     `json:"name"`
	Tier         string     `json:"tier"`
	TotalDonated float64    `json:"total_donated"`
	AvatarURL    string     `json:"avatar_url"`
	Since        *time.Time `json:"since,omitempty"`
}
