package controllers

import (
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/cache"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports DB and cache reachability.
// GET /api/health
func HandleHealth(c *fiber.Ctx) error {
	dbOK := false
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB.Ping() == nil {
			dbOK = true
		}
	}

	cacheOK := cache.GetClient().Ping(c.Context()).Err() == nil

	status := fiber.StatusOK
	if !dbOK {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"ok":       dbOK,
		"database": dbOK,
		"cache":    cacheOK,
	})
}
