package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/loftlabs/loft/app/controllers"
	"github.com/loftlabs/loft/internal/pkg/env"
	"github.com/loftlabs/loft/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Feeds carry no forms, keep them outside the CSRF group.
	app.Get("/feeds/rss", controllers.HandleFeedRSS)
	app.Get("/feeds/atom", controllers.HandleFeedAtom)

	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", controllers.HandleBlogIndex)
	group.Get("/entry/:slug", controllers.HandleEntryDetail)
	group.Post("/entry/:slug/comments", controllers.HandleCommentStore)
	group.Get("/draft/:id", controllers.HandleDraftPreview)
	group.Get("/category/:slug", controllers.HandleCategoryIndex)
	group.Get("/archives/:year", controllers.HandleArchiveYear)
	group.Get("/archives/:year/:month", controllers.HandleArchiveMonth)

	group.Get("/login", controllers.HandleAuthLogin)
	group.Post("/login", controllers.HandleAuthLogin)
	group.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
}
