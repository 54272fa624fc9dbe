package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const entriesPerPage = 10

// pageOffset translates the ?page query param into an offset for listing
// queries. Pages are 1-based; garbage falls back to the first page.
func pageOffset(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return (page - 1) * entriesPerPage
}

// csrfToken returns the CSRF token for form rendering, or "" when the
// route is not CSRF-protected (tests, API).
func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

// clientIP extracts the submitting client's address, IPv4 or IPv6. A
// single colon marks a host:port pair, more than one an IPv6 literal.
func clientIP(c *fiber.Ctx) string {
	ip := c.IP()
	if i := strings.IndexByte(ip, ':'); i >= 0 && strings.Count(ip, ":") == 1 {
		ip = ip[:i]
	}
	return ip
}

// parseID parses a numeric route param, 0 when invalid.
func parseID(c *fiber.Ctx, name string) uint64 {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
