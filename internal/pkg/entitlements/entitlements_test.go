package entitlements

import "testing"

func TestPerksFor(t *testing.T) {
	none := PerksFor(TierNone)
	if none.AdFree || none.HDStreams || none.VIPRooms || none.WallListed {
		t.Fatalf("expected no perks without a tier, got %+v", none)
	}

	supporter := PerksFor(TierSupporter)
	if !supporter.AdFree || !supporter.HDStreams || !supporter.WallListed {
		t.Fatalf("unexpected supporter perks: %+v", supporter)
	}
	if supporter.VIPRooms {
		t.Fatalf("expected vip rooms to stay vip-only")
	}

	vip := PerksFor(TierVIP)
	if !vip.AdFree || !vip.HDStreams || !vip.VIPRooms || !vip.WallListed {
		t.Fatalf("unexpected vip perks: %+v", vip)
	}

	// Tier values coming from the database may vary in case.
	if PerksFor(Tier("VIP")) != vip {
		t.Fatalf("expected tier matching to be case insensitive")
	}
}

func TestRank(t *testing.T) {
	if Rank(TierNone) >= Rank(TierSupporter) {
		t.Fatalf("expected supporter to outrank no tier")
	}
	if Rank(TierSupporter) >= Rank(TierVIP) {
		t.Fatalf("expected vip to outrank supporter")
	}
}
