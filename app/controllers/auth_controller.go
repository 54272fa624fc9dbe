package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/session"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// HandleAuthLogin renders the login form and processes submissions.
func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		// Same message for every failure mode, nothing to enumerate.
		user, err := repository.GetGlobalRepositories().User.GetByEmail(c.FormValue("email"))
		if err != nil {
			fm["message"] = "There is a problem with the login process"
			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"
			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status != models.STATUS_ACTIVE {
			fm["message"] = "There is a problem with the login process"
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUsername, user.Name)
		sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.IsAdmin() {
			return c.Redirect("/admin")
		}
		return c.Redirect("/")
	}

	return c.Render("login", fiber.Map{
		"Title":     "Log in",
		"CSRFToken": csrfToken(c),
		"Flash":     flash.Get(c),
		"User":      usercontext.GetUserContext(c),
	}, "layouts/main")
}

// HandleAuthLogout destroys the session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": "Logout failed",
			}
			return flash.WithError(c, fm).Redirect("/")
		}
	}
	return c.Redirect("/")
}
