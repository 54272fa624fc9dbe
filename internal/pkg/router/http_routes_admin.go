package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loftlabs/loft/app/controllers"
	"github.com/loftlabs/loft/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)

	// Entry management
	adminGroup.Get("/entries", controllers.HandleAdminEntries)
	adminGroup.Get("/entries/create", controllers.HandleAdminEntryCreate)
	adminGroup.Post("/entries/store", controllers.HandleAdminEntryStore)
	adminGroup.Get("/entries/edit/:id", controllers.HandleAdminEntryEdit)
	adminGroup.Post("/entries/update/:id", controllers.HandleAdminEntryUpdate)
	adminGroup.Post("/entries/delete/:id", controllers.HandleAdminEntryDelete)
	adminGroup.Post("/entries/bulk", controllers.HandleAdminEntryBulkStatus)

	// Category management
	adminGroup.Get("/categories", controllers.HandleAdminCategories)
	adminGroup.Get("/categories/create", controllers.HandleAdminCategoryCreate)
	adminGroup.Post("/categories/store", controllers.HandleAdminCategoryStore)
	adminGroup.Get("/categories/edit/:id", controllers.HandleAdminCategoryEdit)
	adminGroup.Post("/categories/update/:id", controllers.HandleAdminCategoryUpdate)
	adminGroup.Post("/categories/delete/:id", controllers.HandleAdminCategoryDelete)

	// Comment moderation
	adminGroup.Get("/comments", controllers.HandleAdminComments)
	adminGroup.Post("/comments/delete/:id", controllers.HandleAdminCommentDelete)
}
