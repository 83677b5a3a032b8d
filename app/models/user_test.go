package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIsSupporterActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	none := &User{}
	assert.False(t, none.IsSupporterActive(now))

	lifetime := &User{SupporterTier: DonationTierVIP}
	assert.True(t, lifetime.IsSupporterActive(now))
	assert.True(t, lifetime.HasLifetimeGrant())

	future := now.AddDate(0, 0, 10)
	active := &User{SupporterTier: DonationTierSupporter, SupporterExpiresAt: &future}
	assert.True(t, active.IsSupporterActive(now))
	assert.False(t, active.HasLifetimeGrant())

	past := now.AddDate(0, 0, -1)
	lapsed := &User{SupporterTier: DonationTierSupporter, SupporterExpiresAt: &past}
	assert.False(t, lapsed.IsSupporterActive(now))
}

func TestUserValidate(t *testing.T) {
	user := &User{Name: "Chanda", Email: "chanda@example.com", Role: ROLE_USER, Status: STATUS_ACTIVE}
	assert.NoError(t, user.Validate())

	user.Email = "not-an-email"
	assert.Error(t, user.Validate())
}
