package supporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/entitlements"
)

func normalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case models.DonationTierVIP:
		return models.DonationTierVIP
	case models.DonationTierSupporter:
		return models.DonationTierSupporter
	case models.DonationTierOneTime:
		return models.DonationTierOneTime
	default:
		return ""
	}
}

func tierRank(tier string) int {
	return entitlements.Rank(entitlements.Tier(tier))
}

// ResolveTier classifies a payment amount. Amounts below MinDonation are
// invalid and rejected at initiation time.
func ResolveTier(amount float64) (string, error) {
	switch {
	case amount >= VIPThreshold:
		return models.DonationTierVIP, nil
	case amount >= SupporterThreshold:
		return models.DonationTierSupporter, nil
	case amount >= MinDonation:
		return models.DonationTierOneTime, nil
	default:
		return "", fmt.Errorf("%w: minimum donation is K%.0f", ErrInvalidDonation, MinDonation)
	}
}

// ValidateDonation checks an initiation request and returns the amount that
// will be charged. Supporter and vip are fixed-price; one-time donations are
// caller-chosen within [MinDonation, OneTimeMax].
func ValidateDonation(tier string, amount float64) (float64, error) {
	switch normalizeTier(tier) {
	case models.DonationTierSupporter:
		return SupporterPrice, nil
	case models.DonationTierVIP:
		return VIPPrice, nil
	case models.DonationTierOneTime:
		if amount < MinDonation || amount > OneTimeMax {
			return 0, fmt.Errorf("%w: one-time donations must be between K%.0f and K%.0f",
				ErrInvalidDonation, MinDonation, OneTimeMax)
		}
		return amount, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", ErrInvalidDonation, tier)
	}
}

// GrantFor computes the supporter-state change for a completed payment.
// Pure: callers supply the clock.
//
// Supporter and vip payments grant a 30-day window whether or not they are
// recurring; a one-time gift grants a 7-day trial of supporter perks.
func GrantFor(tier string, isRecurring bool, now time.Time) TierGrant {
	switch normalizeTier(tier) {
	case models.DonationTierSupporter, models.DonationTierVIP:
		expires := now.AddDate(0, 0, RecurringCycleDays)
		return TierGrant{Tier: normalizeTier(tier), ExpiresAt: &expires}
	case models.DonationTierOneTime:
		expires := now.AddDate(0, 0, TrialDays)
		return TierGrant{Tier: models.DonationTierSupporter, ExpiresAt: &expires, Trial: true}
	default:
		return TierGrant{}
	}
}

// grantImproves reports whether applying a trial grant would actually improve
// the user's current supporter state. Paid grants overwrite unconditionally;
// trials are strictly non-destructive.
func grantImproves(user *models.User, grant TierGrant, now time.Time) bool {
	if !user.IsSupporterActive(now) {
		return true
	}
	if user.HasLifetimeGrant() {
		return false
	}
	if tierRank(user.SupporterTier) > tierRank(grant.Tier) {
		return false
	}
	return grant.ExpiresAt != nil && user.SupporterExpiresAt != nil &&
		grant.ExpiresAt.After(*user.SupporterExpiresAt)
}
