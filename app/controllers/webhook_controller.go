package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/env"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/metrics/counter"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/supporter"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleLencoWebhook is the asynchronous entry point: Lenco's server calls it
// even if the user closed their browser, making it the ultimate source of
// truth for payments. Sender retries on any non-2xx.
// POST /api/webhooks/lenco
func HandleLencoWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Lenco-Signature"))
	secret := env.GetEnv("LENCO_WEBHOOK_SECRET", "")

	if !supporter.VerifyWebhookSignature(rawBody, signature, secret) {
		log.Warnf("[Webhook] Signature mismatch from %s", c.IP())
		countWebhookEvent("rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	event, err := supporter.ParseWebhookEvent(rawBody)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	svc := supporter.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := svc.ProcessWebhook(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, supporter.ErrUnknownReference):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reference_not_found"})
		case errors.Is(err, supporter.ErrAlreadyFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reference_already_failed"})
		default:
			log.Errorf("[Webhook] Processing failed for event %s: %v", event.Event, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
		}
	}

	if result.Ignored {
		countWebhookEvent("ignored")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}
	if result.AlreadyProcessed {
		countWebhookEvent("duplicate")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	countWebhookEvent("credited")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func countWebhookEvent(outcome string) {
	if err := counter.AddWebhookEvent(outcome); err != nil {
		log.Debugf("[Webhook] Counter update failed: %v", err)
	}
}
