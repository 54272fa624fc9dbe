package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
)

// entryJSON is the wire shape of a published entry, matching the fields
// the templates render.
type entryJSON struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	ExcerptHTML string     `json:"excerpt_html"`
	BodyHTML    string     `json:"body_html"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	Featured    bool       `json:"featured"`
	Categories  []string   `json:"categories"`
}

func toEntryJSON(e *models.Entry) entryJSON {
	categories := make([]string, 0, len(e.Categories))
	for _, cat := range e.Categories {
		categories = append(categories, cat.Slug)
	}
	return entryJSON{
		Title:       e.Title,
		Slug:        e.Slug,
		ExcerptHTML: e.ExcerptHTML,
		BodyHTML:    e.BodyHTML,
		Author:      e.Author.Name,
		PublishedAt: e.PublishedAt,
		Featured:    e.Featured,
		Categories:  categories,
	}
}

// HandleAPIEntryList returns the published entries as JSON.
func HandleAPIEntryList(c *fiber.Ctx) error {
	entries, err := repository.GetGlobalRepositories().Entry.GetPublished(time.Now(), pageOffset(c), entriesPerPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to fetch entries",
		})
	}

	payload := make([]entryJSON, 0, len(entries))
	for i := range entries {
		payload = append(payload, toEntryJSON(&entries[i]))
	}
	return c.JSON(fiber.Map{"entries": payload})
}

// HandleAPIEntryDetail returns one published entry as JSON. Drafts and
// scheduled entries are a plain 404 here, same as the HTML surface.
func HandleAPIEntryDetail(c *fiber.Ctx) error {
	entry, err := repository.GetGlobalRepositories().Entry.GetLiveBySlug(c.Params("slug"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Entry not found",
		})
	}
	return c.JSON(toEntryJSON(entry))
}
