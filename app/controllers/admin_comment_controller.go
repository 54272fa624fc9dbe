package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// HandleAdminComments renders the moderation queue, newest first.
func HandleAdminComments(c *fiber.Ctx) error {
	comments, err := repository.GetGlobalRepositories().Comment.GetRecent(100)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to load comments: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin")
	}

	return c.Render("admin/comments", fiber.Map{
		"Title":     "Comments",
		"Comments":  comments,
		"CSRFToken": csrfToken(c),
		"Flash":     flash.Get(c),
		"User":      usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleAdminCommentDelete removes a comment from the moderation queue.
func HandleAdminCommentDelete(c *fiber.Ctx) error {
	if err := repository.GetGlobalRepositories().Comment.Delete(parseID(c, "id")); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete comment: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/comments")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Comment deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/comments")
}
