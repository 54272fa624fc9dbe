package controllers

import (
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
)

// setupTestDB opens one shared in-memory database for the package and
// wires it into the global repository factory the handlers read from.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			panic(err)
		}

		// A fresh :memory: database exists per connection; pin the pool to one.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(
			&models.User{},
			&models.Category{},
			&models.Entry{},
			&models.Comment{},
		); err != nil {
			panic(err)
		}

		repository.InitializeFactory(db)
		testDB = db
	})

	// Isolate each test against the shared database.
	for _, table := range []string{"comments", "entry_categories", "entries", "categories", "users"} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
	return testDB
}

// setupTestApp builds a fiber app with the real views and the public
// routes, with the user context forced to the given identity.
func setupTestApp(t *testing.T, admin bool) *fiber.App {
	t.Helper()
	setupTestDB(t)

	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Use(func(c *fiber.Ctx) error {
		ctx := usercontext.UserContext{}
		if admin {
			ctx = usercontext.UserContext{UserID: 1, Username: "staff", IsLoggedIn: true, IsAdmin: true}
		}
		c.Locals(usercontext.KeyUserContext, ctx)
		c.Locals(usercontext.KeyLoggedIn, ctx.IsLoggedIn)
		c.Locals(usercontext.KeyIsAdmin, ctx.IsAdmin)
		return c.Next()
	})

	app.Get("/", HandleBlogIndex)
	app.Get("/entry/:slug", HandleEntryDetail)
	app.Get("/draft/:id", HandleDraftPreview)
	app.Get("/category/:slug", HandleCategoryIndex)
	app.Get("/archives/:year", HandleArchiveYear)
	app.Get("/archives/:year/:month", HandleArchiveMonth)
	app.Get("/api/v1/entries", HandleAPIEntryList)
	app.Get("/api/v1/entries/:slug", HandleAPIEntryDetail)

	return app
}

func createTestEntry(t *testing.T, title, status string, publishedAt *time.Time) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		Title:       title,
		Body:        "An entry",
		Status:      status,
		Markup:      models.MARKUP_MARKDOWN,
		PublishedAt: publishedAt,
	}
	require.NoError(t, repository.GetGlobalRepositories().Entry.Create(entry))
	return entry
}

func fetch(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestBlogIndexListsPublishedEntries(t *testing.T) {
	app := setupTestApp(t, false)

	past := time.Now().Add(-time.Hour)
	createTestEntry(t, "Visible Post", models.ENTRY_PUBLISHED, &past)
	createTestEntry(t, "Hidden Draft", models.ENTRY_DRAFT, nil)

	status, body := fetch(t, app, "/")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Visible Post")
	assert.NotContains(t, body, "Hidden Draft")
}

func TestEntryDetailRendersBody(t *testing.T) {
	app := setupTestApp(t, false)

	past := time.Now().Add(-time.Hour)
	entry := createTestEntry(t, "Hello World", models.ENTRY_PUBLISHED, &past)

	status, body := fetch(t, app, "/entry/"+entry.Slug)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Hello World")
	assert.Contains(t, body, "<p>An entry</p>")
}

func TestEntryDetailUnknownSlugIs404(t *testing.T) {
	app := setupTestApp(t, false)

	status, _ := fetch(t, app, "/entry/no-such-entry")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDraftDetailHiddenFromAnonymous(t *testing.T) {
	app := setupTestApp(t, false)

	entry := createTestEntry(t, "Secret Draft", models.ENTRY_DRAFT, nil)

	// The draft's detail URL answers exactly like an unknown slug.
	status, body := fetch(t, app, "/entry/"+entry.Slug)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Entry not found", body)
}

func TestDraftDetailVisibleToStaff(t *testing.T) {
	app := setupTestApp(t, true)

	entry := createTestEntry(t, "Secret Draft", models.ENTRY_DRAFT, nil)

	status, body := fetch(t, app, "/entry/"+entry.Slug)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Secret Draft")
}

func TestDraftPreviewRequiresStaff(t *testing.T) {
	setupTestDB(t)
	entry := createTestEntry(t, "Preview Me", models.ENTRY_DRAFT, nil)

	anon := setupTestAppKeepData(t, false)
	status, _ := fetch(t, anon, entry.AbsoluteURL())
	assert.Equal(t, fiber.StatusNotFound, status)

	staff := setupTestAppKeepData(t, true)
	status, body := fetch(t, staff, entry.AbsoluteURL())
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Preview Me")
}

func TestFutureEntryHiddenUntilDue(t *testing.T) {
	app := setupTestApp(t, false)

	future := time.Now().Add(time.Hour)
	entry := createTestEntry(t, "Scheduled", models.ENTRY_PUBLISHED, &future)

	status, _ := fetch(t, app, "/entry/"+entry.Slug)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestArchiveYearFiltersEntries(t *testing.T) {
	app := setupTestApp(t, false)

	lastYear := time.Date(time.Now().Year()-1, 6, 15, 12, 0, 0, 0, time.UTC)
	createTestEntry(t, "Old Post", models.ENTRY_PUBLISHED, &lastYear)
	thisYear := time.Now().Add(-time.Hour)
	createTestEntry(t, "New Post", models.ENTRY_PUBLISHED, &thisYear)

	status, body := fetch(t, app, "/archives/"+lastYear.Format("2006"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Old Post")
	assert.NotContains(t, body, "New Post")
}

func TestAPIEntryListReturnsJSON(t *testing.T) {
	app := setupTestApp(t, false)

	past := time.Now().Add(-time.Hour)
	createTestEntry(t, "API Post", models.ENTRY_PUBLISHED, &past)

	status, body := fetch(t, app, "/api/v1/entries")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"title":"API Post"`)
	assert.Contains(t, body, `"slug":"api-post"`)
}

func TestAPIEntryDetailUnknownSlugIsJSON404(t *testing.T) {
	app := setupTestApp(t, false)

	status, body := fetch(t, app, "/api/v1/entries/nope")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "not found")
}

// setupTestAppKeepData builds an app without wiping the shared tables,
// for tests that need two identities against the same data.
func setupTestAppKeepData(t *testing.T, admin bool) *fiber.App {
	t.Helper()

	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Use(func(c *fiber.Ctx) error {
		ctx := usercontext.UserContext{}
		if admin {
			ctx = usercontext.UserContext{UserID: 1, Username: "staff", IsLoggedIn: true, IsAdmin: true}
		}
		c.Locals(usercontext.KeyUserContext, ctx)
		c.Locals(usercontext.KeyLoggedIn, ctx.IsLoggedIn)
		c.Locals(usercontext.KeyIsAdmin, ctx.IsAdmin)
		return c.Next()
	})

	app.Get("/entry/:slug", HandleEntryDetail)
	app.Get("/draft/:id", HandleDraftPreview)
	return app
}
