package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/markup"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// publishedAtForm is the layout of the publish-date form field
// (datetime-local input).
const publishedAtForm = "2006-01-02T15:04"

// AdminEntryController handles the admin entry management surface.
type AdminEntryController struct {
	entries    repository.EntryRepository
	categories repository.CategoryRepository
}

// NewAdminEntryController creates a new admin entry controller
func NewAdminEntryController(entries repository.EntryRepository, categories repository.CategoryRepository) *AdminEntryController {
	return &AdminEntryController{
		entries:    entries,
		categories: categories,
	}
}

var adminEntryController *AdminEntryController

// InitializeAdminEntryController sets up the controller against the
// global repositories. Must run before the admin routes are registered.
func InitializeAdminEntryController() {
	repos := repository.GetGlobalRepositories()
	adminEntryController = NewAdminEntryController(repos.Entry, repos.Category)
}

func HandleAdminEntries(c *fiber.Ctx) error         { return adminEntryController.HandleEntries(c) }
func HandleAdminEntryCreate(c *fiber.Ctx) error     { return adminEntryController.HandleEntryCreate(c) }
func HandleAdminEntryStore(c *fiber.Ctx) error      { return adminEntryController.HandleEntryStore(c) }
func HandleAdminEntryEdit(c *fiber.Ctx) error       { return adminEntryController.HandleEntryEdit(c) }
func HandleAdminEntryUpdate(c *fiber.Ctx) error     { return adminEntryController.HandleEntryUpdate(c) }
func HandleAdminEntryDelete(c *fiber.Ctx) error     { return adminEntryController.HandleEntryDelete(c) }
func HandleAdminEntryBulkStatus(c *fiber.Ctx) error { return adminEntryController.HandleEntryBulkStatus(c) }

func (aec *AdminEntryController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/entries")
}

// formValues returns all values of a repeated form field.
func formValues(c *fiber.Ctx, key string) []string {
	raw := c.Context().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, string(v))
	}
	return values
}

// HandleEntries renders the entry management list. Supports ?q title/body
// search plus status, category and creation-date filters.
func (aec *AdminEntryController) HandleEntries(c *fiber.Ctx) error {
	query := c.Query("q")
	statusFilter := c.Query("status")
	categoryFilter := c.Query("category")
	createdFilter := c.Query("created")

	var (
		entries []models.Entry
		err     error
	)
	if query != "" {
		entries, err = aec.entries.Search(query)
	} else {
		entries, err = aec.entries.GetAll(0, 500)
	}
	if err != nil {
		return aec.handleError(c, "Failed to load entries", err)
	}

	entries = filterEntries(entries, statusFilter, categoryFilter, createdFilter)

	categories, err := aec.categories.GetAll()
	if err != nil {
		return aec.handleError(c, "Failed to load categories", err)
	}

	return c.Render("admin/entries", fiber.Map{
		"Title":          "Entries",
		"Entries":        entries,
		"Categories":     categories,
		"Query":          query,
		"StatusFilter":   statusFilter,
		"CategoryFilter": categoryFilter,
		"CreatedFilter":  createdFilter,
		"CSRFToken":      csrfToken(c),
		"Flash":          flash.Get(c),
		"User":           usercontext.GetUserContext(c),
	}, "layouts/admin")
}

func filterEntries(entries []models.Entry, status, categorySlug, created string) []models.Entry {
	if status == "" && categorySlug == "" && created == "" {
		return entries
	}
	filtered := entries[:0]
	for _, e := range entries {
		if status != "" && e.Status != status {
			continue
		}
		if categorySlug != "" && !entryHasCategory(&e, categorySlug) {
			continue
		}
		if created != "" && !entryCreatedIn(&e, created) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// entryCreatedIn matches a creation-date filter of the form "2006" (whole
// year) or "2006-01" (one month).
func entryCreatedIn(e *models.Entry, created string) bool {
	return created == e.CreatedAt.Format("2006") || created == e.CreatedAt.Format("2006-01")
}

func entryHasCategory(e *models.Entry, slug string) bool {
	for _, cat := range e.Categories {
		if cat.Slug == slug {
			return true
		}
	}
	return false
}

// HandleEntryCreate renders the entry creation form.
func (aec *AdminEntryController) HandleEntryCreate(c *fiber.Ctx) error {
	categories, err := aec.categories.GetAll()
	if err != nil {
		return aec.handleError(c, "Failed to load categories", err)
	}

	return c.Render("admin/entry_form", fiber.Map{
		"Title":      "New entry",
		"Entry":      &models.Entry{Status: models.ENTRY_PUBLISHED, EnableComments: true, Markup: models.MARKUP_MARKDOWN},
		"Categories": categories,
		"Action":     "/admin/entries/store",
		"Markups":    markup.Kinds,
		"CSRFToken":  csrfToken(c),
		"Flash":      flash.Get(c),
		"User":       usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleEntryStore creates a new entry from the form. Slug and publish
// date stay empty here so the first-save defaults apply.
func (aec *AdminEntryController) HandleEntryStore(c *fiber.Ctx) error {
	entry := &models.Entry{
		AuthorID: usercontext.GetUserID(c),
	}
	aec.applyForm(c, entry)

	if err := entry.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and body are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/entries/create")
	}

	if err := aec.entries.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fm := fiber.Map{
				"type":    "error",
				"message": "That slug is already in use, pick a different title or slug",
			}
			return flash.WithError(c, fm).Redirect("/admin/entries/create")
		}
		return aec.handleError(c, "Failed to create entry", err)
	}

	if err := aec.entries.ReplaceCategories(entry, aec.selectedCategories(c)); err != nil {
		return aec.handleError(c, "Failed to assign categories", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Entry created",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/entries")
}

// HandleEntryEdit renders the entry edit form.
func (aec *AdminEntryController) HandleEntryEdit(c *fiber.Ctx) error {
	entry, err := aec.entries.GetByID(parseID(c, "id"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Entry not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/entries")
	}

	categories, err := aec.categories.GetAll()
	if err != nil {
		return aec.handleError(c, "Failed to load categories", err)
	}

	return c.Render("admin/entry_form", fiber.Map{
		"Title":      "Edit entry",
		"Entry":      entry,
		"Categories": categories,
		"Action":     fmt.Sprintf("/admin/entries/update/%d", entry.ID),
		"Markups":    markup.Kinds,
		"CSRFToken":  csrfToken(c),
		"Flash":      flash.Get(c),
		"User":       usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleEntryUpdate saves an edited entry. The save re-renders the HTML
// fields; slug changes only when the editor typed a new one.
func (aec *AdminEntryController) HandleEntryUpdate(c *fiber.Ctx) error {
	entry, err := aec.entries.GetByID(parseID(c, "id"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Entry not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/entries")
	}

	aec.applyForm(c, entry)
	if slug := c.FormValue("slug"); slug != "" {
		entry.Slug = slug
	}

	if err := entry.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and body are required",
		}
		return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/entries/edit/%d", entry.ID))
	}

	if err := aec.entries.Update(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fm := fiber.Map{
				"type":    "error",
				"message": "That slug is already in use, pick a different one",
			}
			return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/entries/edit/%d", entry.ID))
		}
		return aec.handleError(c, "Failed to update entry", err)
	}

	if err := aec.entries.ReplaceCategories(entry, aec.selectedCategories(c)); err != nil {
		return aec.handleError(c, "Failed to assign categories", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Entry updated",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/entries")
}

// HandleEntryDelete removes an entry.
func (aec *AdminEntryController) HandleEntryDelete(c *fiber.Ctx) error {
	if err := aec.entries.Delete(parseID(c, "id")); err != nil {
		return aec.handleError(c, "Failed to delete entry", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Entry deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/entries")
}

// HandleEntryBulkStatus applies "mark published" / "mark draft" to the
// selected entries and reports how many changed.
func (aec *AdminEntryController) HandleEntryBulkStatus(c *fiber.Ctx) error {
	status := c.FormValue("status")
	if status != models.ENTRY_PUBLISHED && status != models.ENTRY_DRAFT {
		fm := fiber.Map{
			"type":    "error",
			"message": "Unknown bulk action",
		}
		return flash.WithError(c, fm).Redirect("/admin/entries")
	}

	var ids []uint64
	for _, raw := range formValues(c, "ids") {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		fm := fiber.Map{
			"type":    "error",
			"message": "No entries selected",
		}
		return flash.WithError(c, fm).Redirect("/admin/entries")
	}

	count, err := aec.entries.UpdateStatus(ids, status)
	if err != nil {
		return aec.handleError(c, "Failed to update entries", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("%d entries marked %s", count, status),
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/entries")
}

// applyForm copies the editable form fields onto the entry. The form is
// grouped into "Post Details" (title, excerpt, body, categories) and
// "Metadata" (comments toggle, slug, status, markup, featured, SEO).
func (aec *AdminEntryController) applyForm(c *fiber.Ctx, entry *models.Entry) {
	entry.Title = c.FormValue("title")
	entry.Excerpt = c.FormValue("excerpt")
	entry.Body = c.FormValue("body")
	entry.Status = c.FormValue("status", models.ENTRY_PUBLISHED)
	entry.Markup = c.FormValue("markup", models.MARKUP_MARKDOWN)
	entry.EnableComments = c.FormValue("enable_comments") == "1"
	entry.Featured = c.FormValue("featured") == "1"
	entry.PageTitle = c.FormValue("page_title")
	entry.MetaKeywords = c.FormValue("meta_keywords")
	entry.MetaDescription = c.FormValue("meta_description")
	entry.HeadTags = c.FormValue("head_tags")

	// An emptied date field clears the publish date; on a fresh entry the
	// first save then defaults it to "now".
	entry.PublishedAt = nil
	if raw := c.FormValue("published_at"); raw != "" {
		if t, err := time.ParseInLocation(publishedAtForm, raw, time.Local); err == nil {
			entry.PublishedAt = &t
		}
	}
}

func (aec *AdminEntryController) selectedCategories(c *fiber.Ctx) []models.Category {
	var selected []models.Category
	for _, raw := range formValues(c, "categories") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		if cat, err := aec.categories.GetByID(id); err == nil {
			selected = append(selected, *cat)
		}
	}
	return selected
}
