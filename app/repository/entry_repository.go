package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
)

// orderExpr orders listings reverse-chronologically. Entries saved without
// an explicit publish date fall back to their creation time, so nothing
// disappears from navigation.
const orderExpr = "COALESCE(published_at, created_at)"

// entryRepository implements the EntryRepository interface
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository instance
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// published is the query-shaping form of the publication policy: only
// entries a given "now" makes visible to anonymous visitors pass.
func published(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", models.ENTRY_PUBLISHED).
			Where("published_at IS NULL OR published_at <= ?", now)
	}
}

// Create persists a new entry. A colliding slug surfaces as
// gorm.ErrDuplicatedKey; the store never disambiguates slugs itself.
func (r *entryRepository) Create(entry *models.Entry) error {
	return r.db.Create(entry).Error
}

// Update saves all fields of an existing entry, re-rendering the generated
// HTML through the model's save hook.
func (r *entryRepository) Update(entry *models.Entry) error {
	return r.db.Save(entry).Error
}

// Delete soft deletes an entry and detaches it from its categories.
func (r *entryRepository) Delete(id uint64) error {
	entry := models.Entry{ID: id}
	if err := r.db.Model(&entry).Association("Categories").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&entry).Error
}

func (r *entryRepository) GetByID(id uint64) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.Preload("Author").Preload("Categories").First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) GetBySlug(slug string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.Preload("Author").Preload("Categories").Where("slug = ?", slug).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetLiveBySlug retrieves an entry by slug only if it is live. A draft or
// scheduled entry yields gorm.ErrRecordNotFound, indistinguishable from a
// missing slug.
func (r *entryRepository) GetLiveBySlug(slug string, now time.Time) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.Scopes(published(now)).
		Preload("Author").Preload("Categories").
		Where("slug = ?", slug).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) GetAll(offset, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Preload("Author").Preload("Categories").
		Order(orderExpr + " DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *entryRepository) GetPublished(now time.Time, offset, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Scopes(published(now)).Preload("Author").Preload("Categories").
		Order(orderExpr + " DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *entryRepository) GetPublishedByCategory(categorySlug string, now time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Scopes(published(now)).Preload("Author").
		Joins("JOIN entry_categories ON entry_categories.entry_id = entries.id").
		Joins("JOIN categories ON categories.id = entry_categories.category_id").
		Where("categories.slug = ?", categorySlug).
		Order("COALESCE(entries.published_at, entries.created_at) DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) GetPublishedByYear(year int, now time.Time) ([]models.Entry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return r.publishedBetween(start, start.AddDate(1, 0, 0), now)
}

func (r *entryRepository) GetPublishedByMonth(year int, month time.Month, now time.Time) ([]models.Entry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return r.publishedBetween(start, start.AddDate(0, 1, 0), now)
}

func (r *entryRepository) publishedBetween(start, end, now time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Scopes(published(now)).Preload("Author").
		Where(orderExpr+" >= ? AND "+orderExpr+" < ?", start, end).
		Order(orderExpr + " DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) GetFeatured(now time.Time, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Scopes(published(now)).Where("featured = ?", true).
		Order(orderExpr + " DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// GetPrevious returns the nearest older published neighbour of the entry,
// or nil (no error) at the boundary.
func (r *entryRepository) GetPrevious(entry *models.Entry, now time.Time) (*models.Entry, error) {
	return r.neighbour(entry, now, orderExpr+" < ?", orderExpr+" DESC")
}

// GetNext returns the nearest newer published neighbour of the entry, or
// nil (no error) at the boundary.
func (r *entryRepository) GetNext(entry *models.Entry, now time.Time) (*models.Entry, error) {
	return r.neighbour(entry, now, orderExpr+" > ?", orderExpr+" ASC")
}

func (r *entryRepository) neighbour(entry *models.Entry, now time.Time, cond, order string) (*models.Entry, error) {
	var result models.Entry
	err := r.db.Scopes(published(now)).
		Where("id <> ?", entry.ID).
		Where(cond, entry.PublishedOrCreated()).
		Order(order).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Search matches the admin search box against titles and bodies.
func (r *entryRepository) Search(query string) ([]models.Entry, error) {
	var entries []models.Entry
	pattern := "%" + query + "%"
	err := r.db.Preload("Author").Preload("Categories").
		Where("title LIKE ? OR body LIKE ?", pattern, pattern).
		Order(orderExpr + " DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).Count(&count).Error
	return count, err
}

func (r *entryRepository) CountPublished(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).Scopes(published(now)).Count(&count).Error
	return count, err
}

// UpdateStatus is the bulk action behind "mark published" / "mark draft":
// one statement over the selection, returning how many rows changed.
func (r *entryRepository) UpdateStatus(ids []uint64, status string) (int64, error) {
	result := r.db.Model(&models.Entry{}).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}

// ReplaceCategories swaps the entry's category set.
func (r *entryRepository) ReplaceCategories(entry *models.Entry, categories []models.Category) error {
	return r.db.Model(entry).Association("Categories").Replace(categories)
}

// SlugExists checks if a slug already exists
func (r *entryRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// SlugExistsExceptID checks if a slug exists excluding a specific ID
func (r *entryRepository) SlugExistsExceptID(slug string, id uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	return count > 0, err
}
