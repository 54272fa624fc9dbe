package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// HandleAdminDashboard renders the admin landing page with store counts
// and the newest entries and comments.
func HandleAdminDashboard(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	now := time.Now()

	totalEntries, err := repos.Entry.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	publishedEntries, err := repos.Entry.CountPublished(now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	totalCategories, err := repos.Category.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	totalComments, err := repos.Comment.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}

	recentEntries, err := repos.Entry.GetAll(0, 5)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	recentComments, err := repos.Comment.GetRecent(5)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}

	return c.Render("admin/dashboard", fiber.Map{
		"Title":            "Dashboard",
		"TotalEntries":     totalEntries,
		"PublishedEntries": publishedEntries,
		"DraftEntries":     totalEntries - publishedEntries,
		"TotalCategories":  totalCategories,
		"TotalComments":    totalComments,
		"RecentEntries":    recentEntries,
		"RecentComments":   recentComments,
		"Flash":            flash.Get(c),
		"User":             usercontext.GetUserContext(c),
	}, "layouts/admin")
}
