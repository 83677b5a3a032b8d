package router

import (
	"github.com/MwizaSimbeye/StreamKick/app/controllers"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/constants"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		// Webhook retries from the gateway must never be rate limited away.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == constants.LencoWebhookRoute
		},
	}))

	api.Get("/health", controllers.HandleHealth)
	api.Get("/supporters", controllers.HandleSupporterWall)

	// Donation pipeline entry points
	support := api.Group("/support", middleware.RequireAuth)
	support.Post("/donate", controllers.HandleDonationInitiate)
	support.Post("/verify", controllers.HandleDonationVerify)

	// Gateway webhook: authenticated by HMAC signature, not by session
	api.Post("/webhooks/lenco", controllers.HandleLencoWebhook)

	user := api.Group("/user", middleware.RequireAuth)
	user.Get("/billing", controllers.HandleBillingSummary)

	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.Get("/payments", controllers.HandleAdminPaymentList)
	admin.Get("/payments/:reference", controllers.HandleAdminPaymentDetail)
	admin.Post("/payments/:reference/activate", controllers.HandleAdminManualActivation)
	admin.Get("/users", controllers.HandleAdminUserList)
	admin.Get("/users/:id", controllers.HandleAdminUserDetail)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
