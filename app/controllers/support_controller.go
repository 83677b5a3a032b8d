package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/supporter"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// HandleDonationInitiate creates a pending donation and hands the reference
// back to the client, which takes it to the Lenco payment popup.
// POST /api/support/donate
func HandleDonationInitiate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req supporter.DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}

	svc := supporter.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	intent, err := svc.InitiateDonation(ctx, userCtx.UserID, req)
	if err != nil {
		if errors.Is(err, supporter.ErrInvalidDonation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_donation", "message": err.Error()})
		}
		// Duplicate references mean the uuid generator misbehaved; nothing a
		// client retry can legitimately cause.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "donation_init_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"reference": intent.Reference,
		"amount":    intent.Amount,
		"currency":  intent.Currency,
		"tier":      intent.Tier,
	})
}

// HandleDonationVerify is the synchronous verify-after-redirect path. The
// client calls it after the payment popup reports success, and may retry it
// freely; completion is idempotent.
// POST /api/support/verify
func HandleDonationVerify(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Reference string `json:"reference"`
	}
	if err := c.BodyParser(&req); err != nil || req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference_required"})
	}

	svc := supporter.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	result, err := svc.VerifyDonation(ctx, userCtx.UserID, req.Reference)
	if err != nil {
		return donationVerifyError(c, err)
	}

	message := "Donation verified successfully"
	if result.AlreadyProcessed {
		message = "Payment already verified"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"message":       message,
		"tier":          result.Tier,
		"amount":        result.Amount,
		"total_donated": result.TotalDonated,
	})
}

// donationVerifyError maps pipeline errors to UI-facing responses without
// leaking gateway payloads or internal taxonomy.
func donationVerifyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, supporter.ErrUnknownReference):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment_not_found"})
	case errors.Is(err, supporter.ErrGatewayUnconfirmed):
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": false,
			"status":  "pending",
			"message": "Payment not yet confirmed. Try again in a moment.",
		})
	case errors.Is(err, supporter.ErrGatewayFailed), errors.Is(err, supporter.ErrAlreadyFailed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"status":  "failed",
			"message": "Payment could not be confirmed. Try again or contact support.",
		})
	case errors.Is(err, supporter.ErrGatewayUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"status":  "retry",
			"message": "Payment gateway is unreachable. Try again shortly.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "verification_failed"})
	}
}

// HandleSupporterWall returns the public list of recent supporters.
// GET /api/supporters
func HandleSupporterWall(c *fiber.Ctx) error {
	svc := supporter.NewServiceFromDB(database.GetDB())
	entries, err := svc.RecentSupporters(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "supporters_unavailable"})
	}
	return c.JSON(fiber.Map{"supporters": entries})
}
