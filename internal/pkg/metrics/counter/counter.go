package counter

import (
	"context"
	"strconv"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/cache"
)

const webhookEventsKey = "payments:counters:webhook_events"

// AddWebhookEvent increments the delivery counter for a webhook outcome
// ("credited", "duplicate", "ignored", "rejected"). Counters live in Redis so
// every app instance feeds the same numbers.
func AddWebhookEvent(outcome string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookEventsKey, outcome, 1).Err()
}

// WebhookEventCounts returns the webhook delivery counters per outcome.
func WebhookEventCounts() (map[string]int64, error) {
	ctx := context.Background()
	raw, err := cache.GetClient().HGetAll(ctx, webhookEventsKey).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(raw))
	for outcome, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[outcome] = n
	}
	return counts, nil
}
