package controllers

import (
	"errors"
	"strconv"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/entitlements"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleAdminUserList lists accounts for the back-office, searchable by name
// or email.
// GET /api/admin/users
func HandleAdminUserList(c *fiber.Ctx) error {
	if adminUserRepo == nil {
		InitializeAdminPaymentsController()
	}

	if query := c.Query("q"); query != "" {
		users, err := adminUserRepo.Search(query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search_failed"})
		}
		return c.JSON(fiber.Map{"users": users, "total": len(users)})
	}

	offset, limit := parsePagination(c)
	users, err := adminUserRepo.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "list_failed"})
	}
	total, _ := adminUserRepo.Count()

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

// HandleAdminUserDetail returns one account with its payment history and
// perk flags.
// GET /api/admin/users/:id
func HandleAdminUserDetail(c *fiber.Ctx) error {
	if adminUserRepo == nil {
		InitializeAdminPaymentsController()
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_user_id"})
	}

	user, err := adminUserRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "user_lookup_failed"})
	}

	offset, limit := parsePagination(c)
	payments, err := adminPaymentRepo.ListByUser(user.ID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payments_lookup_failed"})
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"perks":    entitlements.PerksFor(entitlements.Tier(user.SupporterTier)),
		"payments": payments,
	})
}
