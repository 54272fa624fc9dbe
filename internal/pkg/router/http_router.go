package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loftlabs/loft/app/controllers"
	"github.com/loftlabs/loft/internal/pkg/middleware"
	"github.com/loftlabs/loft/internal/pkg/moderation"
	"github.com/loftlabs/loft/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// register comment moderation hooks (spam check, admin mail)
	moderation.SetupDefaults()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize admin controllers with repositories
	controllers.InitializeAdminEntryController()
	controllers.InitializeAdminCategoryController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
