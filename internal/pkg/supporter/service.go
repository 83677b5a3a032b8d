package supporter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/cache"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	supporterWallCacheKey = "supporters:wall"
	supporterWallCacheTTL = 5 * time.Minute
	supporterWallLimit    = 50
)

// Service runs the donation pipeline. Both entry points (the synchronous
// client-redirect verify and the asynchronous webhook) converge here, so the
// idempotency and race behavior live in exactly one place.
type Service struct {
	repo     Repository
	gateway  Gateway
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a donation service from injected collaborators.
func NewService(repo Repository, gateway Gateway) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		validate: validator.New(),
		now:      time.Now,
	}
}

// NewServiceFromDB creates a donation service from a GORM DB handle using the
// Lenco client configured in the environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewLencoClientFromEnv())
}

// NewReference generates a fresh donation reference. UUID entropy means a
// duplicate reference at insert time is a bug, not a legitimate retry.
func NewReference(tier string) string {
	slug := strings.ToUpper(strings.ReplaceAll(normalizeTier(tier), "-", ""))
	if slug == "" {
		slug = "DONATION"
	}
	return fmt.Sprintf("SK-%s-%s", slug, uuid.NewString())
}

// InitiateDonation validates the request and creates the pending ledger row.
func (s *Service) InitiateDonation(ctx context.Context, userID uint, req DonationRequest) (*DonationIntent, error) {
	_ = ctx
	if userID == 0 {
		return nil, errors.New("user id is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDonation, err)
	}

	amount, err := ValidateDonation(req.Tier, req.Amount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:        userID,
		Reference:     NewReference(req.Tier),
		Amount:        amount,
		Currency:      "ZMW",
		Status:        models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodLenco,
		DonationTier:  normalizeTier(req.Tier),
		IsRecurring:   req.IsRecurring,
	}
	if err := s.repo.CreatePending(payment); err != nil {
		return nil, err
	}

	return &DonationIntent{
		Reference: payment.Reference,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Tier:      payment.DonationTier,
	}, nil
}

// VerifyDonation is the synchronous entry point, called after the client-side
// payment popup reports success. Safe to call any number of times.
func (s *Service) VerifyDonation(ctx context.Context, userID uint, reference string) (*VerifyResult, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" || userID == 0 {
		return nil, ErrUnknownReference
	}

	payment, err := s.repo.GetByReferenceForUser(ref, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownReference
		}
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return s.verifyResult(payment, true)
	}
	if payment.Status == models.PaymentStatusFailed {
		return nil, ErrAlreadyFailed
	}

	status, err := s.gateway.VerifyCollection(ctx, ref)
	if err != nil {
		// Gateway outage is retryable; only a definitive "failed" answer may
		// mark the ledger failed.
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(status.Status)) {
	case CollectionStatusSuccessful:
		s.checkGatewayAmount(payment, status.Amount)
		credited, err := s.complete(payment, status.LencoReference, string(status.Raw))
		if err != nil {
			return nil, err
		}
		// credited == false means the webhook won the race in between.
		return s.verifyResult(payment, !credited)
	case CollectionStatusFailed:
		if _, err := s.repo.MarkFailed(ref, "gateway reported failed"); err != nil {
			return nil, err
		}
		return nil, ErrGatewayFailed
	default:
		// pending / otp-required / anything non-terminal: leave the row
		// pending and let the client retry.
		return nil, ErrGatewayUnconfirmed
	}
}

// ProcessWebhook is the asynchronous entry point. Signature verification
// happens at the HTTP boundary before this is called; by the time an event
// reaches here it is authentic.
func (s *Service) ProcessWebhook(ctx context.Context, event *WebhookEvent) (*WebhookResult, error) {
	_ = ctx
	if event == nil {
		return nil, errors.New("webhook event is required")
	}
	if !event.IsSuccessfulCollection() {
		return &WebhookResult{Ignored: true}, nil
	}

	payment, err := s.repo.GetByReference(event.Data.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Possibly an out-of-band payment: no authenticated ownership
			// context exists, so log the anomaly and write nothing.
			log.Warnf("[Supporter] Webhook for unknown reference %s (amount=%s)", event.Data.Reference, event.Data.Amount)
			return nil, ErrUnknownReference
		}
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return &WebhookResult{AlreadyProcessed: true, UserID: payment.UserID}, nil
	}

	s.checkGatewayAmount(payment, event.Data.Amount)
	credited, err := s.complete(payment, event.Data.LencoReference, string(event.Data.Raw))
	if err != nil {
		return nil, err
	}
	if !credited {
		return &WebhookResult{AlreadyProcessed: true, UserID: payment.UserID}, nil
	}
	return &WebhookResult{Credited: true, UserID: payment.UserID}, nil
}

// complete runs the shared completion pipeline. Returns whether this caller
// actually credited the user (false when the other entry point won the race).
func (s *Service) complete(payment *models.Payment, lencoReference, rawPayload string) (bool, error) {
	grant := GrantFor(payment.DonationTier, payment.IsRecurring, s.now())

	state, _, err := s.repo.CompletePending(payment.Reference, lencoReference, rawPayload, grant)
	if err != nil {
		return false, err
	}

	switch state {
	case CompletionCredited:
		log.Infof("[Supporter] Payment %s completed: user=%d tier=%s amount=%.2f", payment.Reference, payment.UserID, payment.DonationTier, payment.Amount)
		s.invalidateWall()
		return true, nil
	case CompletionAlreadyCompleted:
		return false, nil
	case CompletionAlreadyFailed:
		log.Errorf("[Supporter] Gateway confirmed %s but the ledger row is failed; refusing to resurrect", payment.Reference)
		return false, ErrAlreadyFailed
	case CompletionNotFound:
		return false, ErrUnknownReference
	default:
		return false, fmt.Errorf("payment %s: unexpected completion state %d", payment.Reference, state)
	}
}

// checkGatewayAmount re-validates the initiation-time classification against
// the amount the gateway actually collected. Mismatches are logged, not
// silently re-tiered; the ledger row is the contract the user accepted.
func (s *Service) checkGatewayAmount(payment *models.Payment, gatewayAmount string) {
	raw := strings.TrimSpace(gatewayAmount)
	if raw == "" {
		return
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	if amount != payment.Amount {
		log.Warnf("[Supporter] Amount mismatch for %s: ledger=%.2f gateway=%.2f", payment.Reference, payment.Amount, amount)
	}
	if tier, err := ResolveTier(amount); err == nil && tier != payment.DonationTier {
		log.Warnf("[Supporter] Tier drift for %s: initiated as %s, gateway amount resolves to %s", payment.Reference, payment.DonationTier, tier)
	}
}

func (s *Service) verifyResult(payment *models.Payment, alreadyProcessed bool) (*VerifyResult, error) {
	total, err := s.repo.TotalDonated(payment.UserID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Success:          true,
		AlreadyProcessed: alreadyProcessed,
		Tier:             payment.DonationTier,
		Amount:           payment.Amount,
		TotalDonated:     total,
	}, nil
}

// RecentSupporters returns the cached supporter wall, falling back to the
// database on a cache miss.
func (s *Service) RecentSupporters(ctx context.Context) ([]SupporterEntry, error) {
	_ = ctx
	var entries []SupporterEntry
	if err := cache.GetJSON(supporterWallCacheKey, &entries); err == nil {
		return entries, nil
	}

	entries, err := s.repo.RecentSupporters(supporterWallLimit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(supporterWallCacheKey, entries, supporterWallCacheTTL); err != nil {
		log.Debugf("[Supporter] Could not cache supporter wall: %v", err)
	}
	return entries, nil
}

func (s *Service) invalidateWall() {
	if err := cache.Delete(supporterWallCacheKey); err != nil {
		log.Debugf("[Supporter] Could not invalidate supporter wall cache: %v", err)
	}
}

// ExpireLapsedTiers clears lapsed supporter grants. Called by the background
// sweeper; supporter_expires_at is the contract between the two.
func (s *Service) ExpireLapsedTiers(ctx context.Context) (int64, error) {
	_ = ctx
	expired, err := s.repo.ExpireLapsedTiers(s.now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		log.Infof("[Supporter] Expired %d lapsed supporter tier(s)", expired)
		s.invalidateWall()
	}
	return expired, nil
}

// BillingSummary collects everything the billing dashboard needs for a user.
type BillingSummary struct {
	Tier           string           `json:"tier"`
	SupporterSince *time.Time       `json:"supporter_since,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Lifetime       bool             `json:"lifetime"`
	TotalDonated   float64          `json:"total_donated"`
	Payments       []models.Payment `json:"payments"`
}

func (s *Service) BillingSummary(ctx context.Context, userID uint) (*BillingSummary, error) {
	_ = ctx
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListCompletedByUser(userID, 20)
	if err != nil {
		return nil, err
	}

	tier := ""
	if user.IsSupporterActive(s.now()) {
		tier = user.SupporterTier
	}
	return &BillingSummary{
		Tier:           tier,
		SupporterSince: user.SupporterSince,
		ExpiresAt:      user.SupporterExpiresAt,
		Lifetime:       user.HasLifetimeGrant(),
		TotalDonated:   user.TotalDonated,
		Payments:       payments,
	}, nil
}

// ActivateManually completes a pending payment from the admin back-office
// without a gateway round-trip, through the same pipeline as both entry
// points. lifetime grants a non-expiring tier.
func (s *Service) ActivateManually(ctx context.Context, adminID uint, reference string, lifetime bool) (*WebhookResult, error) {
	_ = ctx
	payment, err := s.repo.GetByReference(strings.TrimSpace(reference))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownReference
		}
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return &WebhookResult{AlreadyProcessed: true, UserID: payment.UserID}, nil
	}

	grant := GrantFor(payment.DonationTier, payment.IsRecurring, s.now())
	if lifetime && grant.Tier != "" && !grant.Trial {
		grant.ExpiresAt = nil
	}

	manualRef := fmt.Sprintf("manual:%d", adminID)
	state, _, err := s.repo.CompletePending(payment.Reference, manualRef, "", grant)
	if err != nil {
		return nil, err
	}
	switch state {
	case CompletionCredited:
		log.Infof("[Supporter] Payment %s manually activated by admin %d", payment.Reference, adminID)
		s.invalidateWall()
		return &WebhookResult{Credited: true, UserID: payment.UserID}, nil
	case CompletionAlreadyCompleted:
		return &WebhookResult{AlreadyProcessed: true, UserID: payment.UserID}, nil
	case CompletionAlreadyFailed:
		return nil, ErrAlreadyFailed
	default:
		return nil, ErrUnknownReference
	}
}
