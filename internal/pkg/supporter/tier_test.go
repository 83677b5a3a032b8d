package supporter

import (
	"errors"
	"testing"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
)

func TestResolveTier(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{amount: 5, want: models.DonationTierOneTime},
		{amount: 14.99, want: models.DonationTierOneTime},
		{amount: 15, want: models.DonationTierSupporter},
		{amount: 49.99, want: models.DonationTierSupporter},
		{amount: 50, want: models.DonationTierVIP},
		{amount: 1000, want: models.DonationTierVIP},
	}

	for _, tt := range tests {
		got, err := ResolveTier(tt.amount)
		if err != nil {
			t.Fatalf("ResolveTier(%.2f) returned unexpected error: %v", tt.amount, err)
		}
		if got != tt.want {
			t.Fatalf("ResolveTier(%.2f) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestResolveTier_BelowMinimum(t *testing.T) {
	if _, err := ResolveTier(4.99); !errors.Is(err, ErrInvalidDonation) {
		t.Fatalf("expected ErrInvalidDonation for amount below minimum, got %v", err)
	}
	if _, err := ResolveTier(0); !errors.Is(err, ErrInvalidDonation) {
		t.Fatalf("expected ErrInvalidDonation for zero amount, got %v", err)
	}
}

func TestValidateDonation_FixedPriceTiers(t *testing.T) {
	// Supporter and vip ignore the caller-supplied amount.
	for _, amount := range []float64{0, 1, 999} {
		got, err := ValidateDonation("supporter", amount)
		if err != nil || got != SupporterPrice {
			t.Fatalf("ValidateDonation(supporter, %.2f) = %.2f, %v; want %.2f", amount, got, err, SupporterPrice)
		}
		got, err = ValidateDonation("vip", amount)
		if err != nil || got != VIPPrice {
			t.Fatalf("ValidateDonation(vip, %.2f) = %.2f, %v; want %.2f", amount, got, err, VIPPrice)
		}
	}
}

func TestValidateDonation_OneTimeBounds(t *testing.T) {
	if got, err := ValidateDonation("one-time", 25); err != nil || got != 25 {
		t.Fatalf("expected one-time amount to pass through, got %.2f, %v", got, err)
	}
	if _, err := ValidateDonation("one-time", 4.99); !errors.Is(err, ErrInvalidDonation) {
		t.Fatalf("expected ErrInvalidDonation below minimum, got %v", err)
	}
	if _, err := ValidateDonation("one-time", 1000.01); !errors.Is(err, ErrInvalidDonation) {
		t.Fatalf("expected ErrInvalidDonation above maximum, got %v", err)
	}
}

func TestValidateDonation_UnknownTier(t *testing.T) {
	if _, err := ValidateDonation("platinum", 100); !errors.Is(err, ErrInvalidDonation) {
		t.Fatalf("expected ErrInvalidDonation for unknown tier, got %v", err)
	}
}

func TestTierRank(t *testing.T) {
	if tierRank("supporter") >= tierRank("vip") {
		t.Fatalf("expected vip to outrank supporter")
	}
	if tierRank("") >= tierRank("supporter") {
		t.Fatalf("expected supporter to outrank no tier")
	}
	if tierRank("VIP") != tierRank("vip") {
		t.Fatalf("expected tier rank to be case insensitive")
	}
}

func TestGrantFor_PaidTiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wantExpiry := now.AddDate(0, 0, RecurringCycleDays)

	for _, recurring := range []bool{true, false} {
		grant := GrantFor("supporter", recurring, now)
		if grant.Tier != models.DonationTierSupporter || grant.Trial {
			t.Fatalf("unexpected supporter grant: %+v", grant)
		}
		if grant.ExpiresAt == nil || !grant.ExpiresAt.Equal(wantExpiry) {
			t.Fatalf("expected supporter expiry %v, got %v", wantExpiry, grant.ExpiresAt)
		}
	}

	grant := GrantFor("vip", true, now)
	if grant.Tier != models.DonationTierVIP || grant.Trial {
		t.Fatalf("unexpected vip grant: %+v", grant)
	}
	if grant.ExpiresAt == nil || !grant.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected vip expiry %v, got %v", wantExpiry, grant.ExpiresAt)
	}
}

func TestGrantFor_OneTimeTrial(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	grant := GrantFor("one-time", false, now)

	if grant.Tier != models.DonationTierSupporter {
		t.Fatalf("expected one-time gift to grant a supporter trial, got %q", grant.Tier)
	}
	if !grant.Trial {
		t.Fatalf("expected one-time grant to be marked as a trial")
	}
	wantExpiry := now.AddDate(0, 0, TrialDays)
	if grant.ExpiresAt == nil || !grant.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected trial expiry %v, got %v", wantExpiry, grant.ExpiresAt)
	}
}

func TestGrantFor_UnknownTier(t *testing.T) {
	grant := GrantFor("platinum", false, time.Now())
	if grant.Tier != "" || grant.ExpiresAt != nil {
		t.Fatalf("expected empty grant for unknown tier, got %+v", grant)
	}
}

func TestGrantImproves(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trial := GrantFor("one-time", false, now)

	inactive := &models.User{}
	if !grantImproves(inactive, trial, now) {
		t.Fatalf("expected trial to improve a user without a tier")
	}

	past := now.AddDate(0, 0, -1)
	lapsed := &models.User{SupporterTier: models.DonationTierVIP, SupporterExpiresAt: &past}
	if !grantImproves(lapsed, trial, now) {
		t.Fatalf("expected trial to improve a user whose grant has lapsed")
	}

	lifetime := &models.User{SupporterTier: models.DonationTierSupporter}
	if grantImproves(lifetime, trial, now) {
		t.Fatalf("expected trial to never touch a lifetime grant")
	}

	soon := now.AddDate(0, 0, 2)
	vip := &models.User{SupporterTier: models.DonationTierVIP, SupporterExpiresAt: &soon}
	if grantImproves(vip, trial, now) {
		t.Fatalf("expected supporter trial to never downgrade an active vip")
	}

	shortSupporter := &models.User{SupporterTier: models.DonationTierSupporter, SupporterExpiresAt: &soon}
	if !grantImproves(shortSupporter, trial, now) {
		t.Fatalf("expected trial to extend a supporter grant that ends sooner")
	}

	later := now.AddDate(0, 0, 20)
	longSupporter := &models.User{SupporterTier: models.DonationTierSupporter, SupporterExpiresAt: &later}
	if grantImproves(longSupporter, trial, now) {
		t.Fatalf("expected trial to never shorten a longer supporter grant")
	}
}
