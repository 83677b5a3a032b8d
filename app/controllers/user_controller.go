package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/entitlements"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/supporter"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleBillingSummary returns the signed-in user's supporter state, perk
// flags, and completed payment history for the billing dashboard.
// GET /api/user/billing
func HandleBillingSummary(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	svc := supporter.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := svc.BillingSummary(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "billing_unavailable"})
	}

	return c.JSON(fiber.Map{
		"tier":            summary.Tier,
		"supporter_since": formatTimePtr(summary.SupporterSince),
		"expires_at":      formatTimePtr(summary.ExpiresAt),
		"lifetime":        summary.Lifetime,
		"total_donated":   summary.TotalDonated,
		"perks":           entitlements.PerksFor(entitlements.Tier(summary.Tier)),
		"payments":        summary.Payments,
	})
}
