package controllers

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// setupAdminTestApp wires the admin entry routes behind a staff identity.
func setupAdminTestApp(t *testing.T) *fiber.App {
	t.Helper()
	setupTestDB(t)
	InitializeAdminEntryController()

	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Use(func(c *fiber.Ctx) error {
		ctx := usercontext.UserContext{UserID: 1, Username: "staff", IsLoggedIn: true, IsAdmin: true}
		c.Locals(usercontext.KeyUserContext, ctx)
		c.Locals(usercontext.KeyLoggedIn, true)
		c.Locals(usercontext.KeyIsAdmin, true)
		return c.Next()
	})

	app.Get("/admin/entries", HandleAdminEntries)
	app.Post("/admin/entries/update/:id", HandleAdminEntryUpdate)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) int {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestFilterEntriesByCreationDate(t *testing.T) {
	old := models.Entry{Title: "Old", Status: models.ENTRY_PUBLISHED,
		CreatedAt: time.Date(2019, 6, 15, 12, 0, 0, 0, time.UTC)}
	recent := models.Entry{Title: "Recent", Status: models.ENTRY_PUBLISHED,
		CreatedAt: time.Date(2020, 1, 2, 12, 0, 0, 0, time.UTC)}

	byYear := filterEntries([]models.Entry{old, recent}, "", "", "2019")
	require.Len(t, byYear, 1)
	assert.Equal(t, "Old", byYear[0].Title)

	byMonth := filterEntries([]models.Entry{old, recent}, "", "", "2020-01")
	require.Len(t, byMonth, 1)
	assert.Equal(t, "Recent", byMonth[0].Title)

	none := filterEntries([]models.Entry{old, recent}, "", "", "2021")
	assert.Empty(t, none)
}

func TestAdminEntriesCreatedFilter(t *testing.T) {
	app := setupAdminTestApp(t)

	entry := createTestEntry(t, "Fresh Entry", models.ENTRY_PUBLISHED, nil)

	thisMonth := entry.CreatedAt.Format("2006-01")
	status, body := fetch(t, app, "/admin/entries?created="+thisMonth)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Fresh Entry")

	status, body = fetch(t, app, "/admin/entries?created=1999")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "Fresh Entry")
}

func TestAdminEntriesListShowsCreationDate(t *testing.T) {
	app := setupAdminTestApp(t)

	entry := createTestEntry(t, "Dated Entry", models.ENTRY_PUBLISHED, nil)

	status, body := fetch(t, app, "/admin/entries")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Created")
	assert.Contains(t, body, entry.CreatedAt.Format("2006-01-02"))
}

func TestEntryUpdateClearsPublishDate(t *testing.T) {
	app := setupAdminTestApp(t)

	past := time.Now().Add(-time.Hour)
	entry := createTestEntry(t, "Scheduled Once", models.ENTRY_PUBLISHED, &past)
	require.NotNil(t, entry.PublishedAt)

	form := url.Values{}
	form.Set("title", "Scheduled Once")
	form.Set("body", "An entry")
	form.Set("status", models.ENTRY_PUBLISHED)
	form.Set("markup", models.MARKUP_MARKDOWN)
	// published_at left out: the emptied field clears the date.

	postForm(t, app, "/admin/entries/update/"+strconv.FormatUint(entry.ID, 10), form)

	updated, err := repository.GetGlobalRepositories().Entry.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.PublishedAt)
}

func TestEntryUpdateSetsPublishDate(t *testing.T) {
	app := setupAdminTestApp(t)

	entry := createTestEntry(t, "Dateless", models.ENTRY_PUBLISHED, nil)

	form := url.Values{}
	form.Set("title", "Dateless")
	form.Set("body", "An entry")
	form.Set("status", models.ENTRY_PUBLISHED)
	form.Set("markup", models.MARKUP_MARKDOWN)
	form.Set("published_at", "2026-03-01T09:30")

	postForm(t, app, "/admin/entries/update/"+strconv.FormatUint(entry.ID, 10), form)

	updated, err := repository.GetGlobalRepositories().Entry.GetByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, 2026, updated.PublishedAt.Year())
	assert.Equal(t, time.March, updated.PublishedAt.Month())
}
