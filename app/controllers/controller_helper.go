package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parsePagination reads page/per_page query params with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.Query("per_page", "25"))
	if err != nil || perPage < 1 {
		perPage = 25
	}
	if perPage > 100 {
		perPage = 100
	}
	return (page - 1) * perPage, perPage
}
