package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/loftlabs/loft/app/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh :memory: database exists per connection; pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Entry{},
		&models.Comment{},
	))
	return db
}

func createEntry(t *testing.T, repo EntryRepository, db *gorm.DB, title, status string, publishedAt *time.Time) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		Title:       title,
		Body:        "An entry",
		Status:      status,
		Markup:      models.MARKUP_MARKDOWN,
		PublishedAt: publishedAt,
	}
	require.NoError(t, repo.Create(entry))

	// The first save defaults a missing publish date to "now"; force the
	// date-less fixtures back to NULL after the fact.
	if publishedAt == nil {
		require.NoError(t, db.Model(entry).Update("published_at", nil).Error)
		entry.PublishedAt = nil
	}
	return entry
}

func TestCreateDerivesSlugPublishDateAndHTML(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	entry := &models.Entry{Title: "Entry 1", Body: "An entry", Markup: models.MARKUP_MARKDOWN}
	require.NoError(t, repo.Create(entry))

	assert.Equal(t, "entry-1", entry.Slug)
	require.NotNil(t, entry.PublishedAt)
	assert.WithinDuration(t, time.Now(), *entry.PublishedAt, 5*time.Second)
	assert.Equal(t, "<p>An entry</p>", entry.BodyHTML)
	assert.Equal(t, "", entry.ExcerptHTML)
}

func TestCreateRendersTextile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	entry := &models.Entry{Title: "Entry 1", Body: "An entry", Markup: models.MARKUP_TEXTILE}
	require.NoError(t, repo.Create(entry))

	assert.Equal(t, "\t<p>An entry</p>", entry.BodyHTML)
}

func TestSlugSurvivesTitleChangeUntilOverwritten(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	entry := createEntry(t, repo, db, "Entry 1", models.ENTRY_PUBLISHED, nil)
	require.Equal(t, "entry-1", entry.Slug)

	entry.Title = "A Different Title"
	require.NoError(t, repo.Update(entry))

	got, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "entry-1", got.Slug)

	got.Slug = "another-new-slug"
	require.NoError(t, repo.Update(got))

	bySlug, err := repo.GetBySlug("another-new-slug")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, bySlug.ID)
}

func TestDuplicateSlugIsUniquenessViolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	first := &models.Entry{Title: "Same Title", Body: "one"}
	require.NoError(t, repo.Create(first))

	second := &models.Entry{Title: "Same Title", Body: "two"}
	err := repo.Create(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestBodyHTMLRecomputedOnEverySave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	entry := createEntry(t, repo, db, "Entry 1", models.ENTRY_PUBLISHED, nil)
	assert.Equal(t, "<p>An entry</p>", entry.BodyHTML)

	entry.Body = "*Changed*"
	require.NoError(t, repo.Update(entry))

	got, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p><em>Changed</em></p>", got.BodyHTML)
}

func TestGetPublishedFiltersDraftsAndScheduled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	createEntry(t, repo, db, "Draft no date", models.ENTRY_DRAFT, nil)
	createEntry(t, repo, db, "Published future", models.ENTRY_PUBLISHED, &future)
	pastEntry := createEntry(t, repo, db, "Published past", models.ENTRY_PUBLISHED, &past)
	nilEntry := createEntry(t, repo, db, "Published no date", models.ENTRY_PUBLISHED, nil)

	entries, err := repo.GetPublished(now, 0, 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var ids []uint64
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []uint64{pastEntry.ID, nilEntry.ID}, ids)

	count, err := repo.CountPublished(now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestPreviousNextSkipDraftsAndFuture(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	now := time.Now()

	tOld := now.Add(-3 * time.Hour)
	tDraft := now.Add(-2 * time.Hour)
	tMid := now.Add(-1 * time.Hour)
	tFuture := now.Add(time.Hour)

	oldest := createEntry(t, repo, db, "Oldest", models.ENTRY_PUBLISHED, &tOld)
	createEntry(t, repo, db, "Hidden draft", models.ENTRY_DRAFT, &tDraft)
	middle := createEntry(t, repo, db, "Middle", models.ENTRY_PUBLISHED, &tMid)
	createEntry(t, repo, db, "Scheduled", models.ENTRY_PUBLISHED, &tFuture)

	prev, err := repo.GetPrevious(middle, now)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, oldest.ID, prev.ID)

	next, err := repo.GetNext(oldest, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, middle.ID, next.ID)

	// Boundaries return none, not an error.
	prev, err = repo.GetPrevious(oldest, now)
	require.NoError(t, err)
	assert.Nil(t, prev)

	next, err = repo.GetNext(middle, now)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestGetLiveBySlugHidesNonLiveEntries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	now := time.Now()

	draft := createEntry(t, repo, db, "Secret draft", models.ENTRY_DRAFT, nil)

	_, err := repo.GetLiveBySlug(draft.Slug, now)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Direct fetch by slug or ID still works for staff preview paths.
	got, err := repo.GetBySlug(draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestUpdateStatusBulkReportsCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	a := createEntry(t, repo, db, "One", models.ENTRY_DRAFT, nil)
	b := createEntry(t, repo, db, "Two", models.ENTRY_DRAFT, nil)
	c := createEntry(t, repo, db, "Three", models.ENTRY_DRAFT, nil)

	count, err := repo.UpdateStatus([]uint64{a.ID, c.ID}, models.ENTRY_PUBLISHED)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	got, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ENTRY_DRAFT, got.Status)

	got, err = repo.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ENTRY_PUBLISHED, got.Status)
}

func TestGetPublishedByCategory(t *testing.T) {
	db := setupTestDB(t)
	entries := NewEntryRepository(db)
	categories := NewCategoryRepository(db)
	now := time.Now()

	cat := &models.Category{Name: "Go"}
	require.NoError(t, categories.Create(cat))

	tagged := createEntry(t, entries, db, "Tagged", models.ENTRY_PUBLISHED, nil)
	require.NoError(t, entries.ReplaceCategories(tagged, []models.Category{*cat}))
	createEntry(t, entries, db, "Untagged", models.ENTRY_PUBLISHED, nil)

	got, err := entries.GetPublishedByCategory(cat.Slug, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tagged.ID, got[0].ID)
}

func TestGetPublishedByYearAndMonth(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	now := time.Now()

	january := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.Local)
	june := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local)
	lastYear := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local)

	inJanuary := createEntry(t, repo, db, "January post", models.ENTRY_PUBLISHED, &january)
	inJune := createEntry(t, repo, db, "June post", models.ENTRY_PUBLISHED, &june)
	createEntry(t, repo, db, "Old post", models.ENTRY_PUBLISHED, &lastYear)

	yearEntries, err := repo.GetPublishedByYear(2025, now)
	require.NoError(t, err)
	require.Len(t, yearEntries, 2)

	monthEntries, err := repo.GetPublishedByMonth(2025, time.January, now)
	require.NoError(t, err)
	require.Len(t, monthEntries, 1)
	assert.Equal(t, inJanuary.ID, monthEntries[0].ID)

	monthEntries, err = repo.GetPublishedByMonth(2025, time.June, now)
	require.NoError(t, err)
	require.Len(t, monthEntries, 1)
	assert.Equal(t, inJune.ID, monthEntries[0].ID)
}
