package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/moderation"
)

// HandleCommentStore accepts a comment submission on a live entry. The
// pre-save moderation hooks may discard the comment as spam; the commenter
// is thanked either way so classification stays invisible. A classifier
// failure keeps the comment (fail open).
func HandleCommentStore(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	entry, err := repos.Entry.GetLiveBySlug(c.Params("slug"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Entry not found")
	}

	entryURL := "/entry/" + entry.Slug
	if !entry.EnableComments {
		fm := fiber.Map{
			"type":    "error",
			"message": "Comments are closed for this entry",
		}
		return flash.WithError(c, fm).Redirect(entryURL)
	}

	comment := &models.Comment{
		EntryID:   entry.ID,
		Name:      c.FormValue("name"),
		Email:     c.FormValue("email"),
		Website:   c.FormValue("website"),
		Content:   c.FormValue("content"),
		IsPublic:  true,
		IPAddress: clientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	if err := comment.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please fill in your name and a comment",
		}
		return flash.WithError(c, fm).Redirect(entryURL)
	}

	meta := moderation.RequestMeta{
		RemoteAddr: clientIP(c),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		Referrer:   c.Get(fiber.HeaderReferer),
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Thanks for your comment",
	}

	if moderation.Defaults().RunPreSave(comment, meta) {
		// Classified as spam: drop silently, same reply as a kept comment.
		return flash.WithSuccess(c, fm).Redirect(entryURL)
	}

	if err := repos.Comment.Create(comment); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Could not save your comment, please try again",
		}
		return flash.WithError(c, fm).Redirect(entryURL)
	}

	moderation.Defaults().RunPostSave(comment)

	return flash.WithSuccess(c, fm).Redirect(entryURL)
}
