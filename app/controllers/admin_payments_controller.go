package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/repository"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/metrics/counter"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/supporter"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var (
	adminPaymentRepo repository.PaymentRepository
	adminUserRepo    repository.UserRepository
)

// InitializeAdminPaymentsController wires the controller's repositories.
func InitializeAdminPaymentsController() {
	adminPaymentRepo = repository.GetGlobalFactory().GetPaymentRepository()
	adminUserRepo = repository.GetGlobalFactory().GetUserRepository()
}

// HandleAdminPaymentList lists payments for the back-office, filterable by
// status and searchable by reference.
// GET /api/admin/payments
func HandleAdminPaymentList(c *fiber.Ctx) error {
	if adminPaymentRepo == nil {
		InitializeAdminPaymentsController()
	}

	if query := c.Query("q"); query != "" {
		payments, err := adminPaymentRepo.Search(query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search_failed"})
		}
		return c.JSON(fiber.Map{"payments": payments, "total": len(payments)})
	}

	offset, limit := parsePagination(c)
	payments, total, err := adminPaymentRepo.List(c.Query("status"), offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "list_failed"})
	}

	pendingCount, _ := adminPaymentRepo.CountByStatus("pending")
	collected, _ := adminPaymentRepo.SumCompleted()
	activeSupporters, _ := adminUserRepo.CountActiveSupporters(time.Now())

	webhookCounts, err := counter.WebhookEventCounts()
	if err != nil {
		log.Debugf("[Admin] Webhook counters unavailable: %v", err)
	}

	return c.JSON(fiber.Map{
		"payments":          payments,
		"total":             total,
		"pending_count":     pendingCount,
		"total_collected":   collected,
		"active_supporters": activeSupporters,
		"webhook_events":    webhookCounts,
	})
}

// HandleAdminPaymentDetail returns one payment by its reference.
// GET /api/admin/payments/:reference
func HandleAdminPaymentDetail(c *fiber.Ctx) error {
	if adminPaymentRepo == nil {
		InitializeAdminPaymentsController()
	}

	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference_required"})
	}

	payment, err := adminPaymentRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payment_lookup_failed"})
	}

	return c.JSON(fiber.Map{"payment": payment})
}

// HandleAdminManualActivation completes a pending payment without a gateway
// round-trip, for cases where a donation arrived out of band. It runs the
// same idempotent pipeline as the webhook and verify paths.
// POST /api/admin/payments/:reference/activate
func HandleAdminManualActivation(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference_required"})
	}

	var req struct {
		Lifetime bool `json:"lifetime"`
	}
	// Body is optional; absent means a standard grant window.
	_ = c.BodyParser(&req)

	svc := supporter.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := svc.ActivateManually(ctx, userCtx.UserID, reference, req.Lifetime)
	if err != nil {
		switch {
		case errors.Is(err, supporter.ErrUnknownReference):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment_not_found"})
		case errors.Is(err, supporter.ErrAlreadyFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "payment_already_failed"})
		default:
			log.Errorf("[Admin] Manual activation of %s failed: %v", reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "activation_failed"})
		}
	}

	if result.AlreadyProcessed {
		return c.JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	return c.JSON(fiber.Map{"ok": true, "user_id": result.UserID})
}
