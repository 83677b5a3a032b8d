package router

import (
	"github.com/MwizaSimbeye/StreamKick/app/controllers"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/middleware"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session store (read-only consumer of the identity provider's sessions)
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize admin controllers with repositories
	controllers.InitializeAdminPaymentsController()
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
