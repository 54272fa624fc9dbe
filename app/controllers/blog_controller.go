package controllers

import (
	"errors"
	"html/template"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// HandleBlogIndex renders the published entry listing with lead-ins.
func HandleBlogIndex(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	now := time.Now()

	entries, err := repos.Entry.GetPublished(now, pageOffset(c), entriesPerPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entries")
	}

	featured, err := repos.Entry.GetFeatured(now, 3)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entries")
	}

	return c.Render("index", fiber.Map{
		"Title":    "Latest entries",
		"Entries":  entries,
		"Featured": featured,
		"User":     usercontext.GetUserContext(c),
	}, "layouts/main")
}

// HandleEntryDetail renders a single entry by slug. Anonymous visitors see
// only live entries; a missing slug and a hidden entry are the same 404.
// Staff get the entry regardless of status, which makes draft detail links
// work for their owners.
func HandleEntryDetail(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	now := time.Now()
	entrySlug := c.Params("slug")

	entry, err := repos.Entry.GetLiveBySlug(entrySlug, now)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entry")
		}
		if !usercontext.IsAdmin(c) {
			return c.Status(fiber.StatusNotFound).SendString("Entry not found")
		}
		entry, err = repos.Entry.GetBySlug(entrySlug)
		if err != nil {
			return c.Status(fiber.StatusNotFound).SendString("Entry not found")
		}
	}

	return renderEntryDetail(c, entry, now)
}

// HandleDraftPreview renders any entry by numeric ID for staff. Everyone
// else gets the same 404 an unknown URL would produce.
func HandleDraftPreview(c *fiber.Ctx) error {
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusNotFound).SendString("Entry not found")
	}

	id := parseID(c, "id")
	entry, err := repository.GetGlobalRepositories().Entry.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Entry not found")
	}

	return renderEntryDetail(c, entry, time.Now())
}

func renderEntryDetail(c *fiber.Ctx, entry *models.Entry, now time.Time) error {
	repos := repository.GetGlobalRepositories()

	comments, err := repos.Comment.GetPublicByEntry(entry.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch comments")
	}

	previous, err := repos.Entry.GetPrevious(entry, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entry")
	}
	next, err := repos.Entry.GetNext(entry, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entry")
	}

	pageTitle := entry.PageTitle
	if pageTitle == "" {
		pageTitle = entry.Title
	}

	return c.Render("entry_detail", fiber.Map{
		"Title":           pageTitle,
		"Entry":           entry,
		"BodyHTML":        template.HTML(entry.BodyHTML),
		"ExcerptHTML":     template.HTML(entry.ExcerptHTML),
		"HeadTags":        template.HTML(entry.HeadTags),
		"MetaKeywords":    entry.MetaKeywords,
		"MetaDescription": entry.MetaDescription,
		"Comments":        comments,
		"Previous":        previous,
		"Next":            next,
		"CSRFToken":       csrfToken(c),
		"User":            usercontext.GetUserContext(c),
	}, "layouts/main")
}

// HandleCategoryIndex lists the published entries of one category.
func HandleCategoryIndex(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	category, err := repos.Category.GetBySlug(c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Category not found")
	}

	entries, err := repos.Entry.GetPublishedByCategory(category.Slug, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entries")
	}

	return c.Render("archive", fiber.Map{
		"Title":   category.Name,
		"Lead":    category.Description,
		"Entries": entries,
		"User":    usercontext.GetUserContext(c),
	}, "layouts/main")
}

// HandleArchiveYear lists the published entries of one year.
func HandleArchiveYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}

	entries, err := repository.GetGlobalRepositories().Entry.GetPublishedByYear(year, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entries")
	}

	return c.Render("archive", fiber.Map{
		"Title":   "Entries from " + strconv.Itoa(year),
		"Entries": entries,
		"User":    usercontext.GetUserContext(c),
	}, "layouts/main")
}

// HandleArchiveMonth lists the published entries of one month.
func HandleArchiveMonth(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}

	entries, err := repository.GetGlobalRepositories().Entry.GetPublishedByMonth(year, time.Month(month), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch entries")
	}

	return c.Render("archive", fiber.Map{
		"Title":   time.Month(month).String() + " " + strconv.Itoa(year),
		"Entries": entries,
		"User":    usercontext.GetUserContext(c),
	}, "layouts/main")
}
