package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loftlabs/loft/internal/pkg/session"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a UserContext for every
// request. This centralizes user session handling.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return anonymous(c)
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return anonymous(c)
	}

	uid, ok := userID.(uint64)
	if !ok {
		return anonymous(c)
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     uid,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyLoggedIn, true)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}

func anonymous(c *fiber.Ctx) error {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyLoggedIn, false)
	c.Locals(usercontext.KeyIsAdmin, false)
	return c.Next()
}
