package entitlements

import (
	"strings"

	"github.com/MwizaSimbeye/StreamKick/app/models"
)

type Tier string

const (
	TierNone      Tier = ""
	TierSupporter Tier = Tier(models.DonationTierSupporter)
	TierVIP       Tier = Tier(models.DonationTierVIP)
)

// Perks are the stream-side privileges a supporter tier unlocks.
type Perks struct {
	AdFree     bool `json:"ad_free"`
	HDStreams  bool `json:"hd_streams"`
	VIPRooms   bool `json:"vip_rooms"`
	WallListed bool `json:"wall_listed"`
}

// PerksFor maps a supporter tier to its perk set.
func PerksFor(tier Tier) Perks {
	switch Tier(strings.ToLower(strings.TrimSpace(string(tier)))) {
	case TierVIP:
		return Perks{AdFree: true, HDStreams: true, VIPRooms: true, WallListed: true}
	case TierSupporter:
		return Perks{AdFree: true, HDStreams: true, WallListed: true}
	default:
		return Perks{}
	}
}

// Rank orders tiers for comparisons; higher is better.
func Rank(tier Tier) int {
	switch Tier(strings.ToLower(strings.TrimSpace(string(tier)))) {
	case TierVIP:
		return 2
	case TierSupporter:
		return 1
	default:
		return 0
	}
}
