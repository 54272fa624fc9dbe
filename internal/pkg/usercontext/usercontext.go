package usercontext

import "github.com/gofiber/fiber/v2"

const (
	KeyUserContext = "USER_CONTEXT"
	KeyLoggedIn    = "from_protected"
	KeyUserID      = "user_id"
	KeyUsername    = "username"
	KeyIsAdmin     = "is_admin"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// GetUserContext retrieves the user context from fiber context.
// Returns a default anonymous context if none is set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		if uc, ok := ctx.(UserContext); ok {
			return uc
		}
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint64 {
	return GetUserContext(c).UserID
}
