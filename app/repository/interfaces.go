package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
)

// EntryRepository defines the store operations for blog entries. "Published"
// queries apply the publication predicate: status published and publish
// date unset or not after the given time.
type EntryRepository interface {
	Create(entry *models.Entry) error
	Update(entry *models.Entry) error
	Delete(id uint64) error
	GetByID(id uint64) (*models.Entry, error)
	GetBySlug(slug string) (*models.Entry, error)
	GetLiveBySlug(slug string, now time.Time) (*models.Entry, error)
	GetAll(offset, limit int) ([]models.Entry, error)
	GetPublished(now time.Time, offset, limit int) ([]models.Entry, error)
	GetPublishedByCategory(categorySlug string, now time.Time) ([]models.Entry, error)
	GetPublishedByYear(year int, now time.Time) ([]models.Entry, error)
	GetPublishedByMonth(year int, month time.Month, now time.Time) ([]models.Entry, error)
	GetFeatured(now time.Time, limit int) ([]models.Entry, error)
	GetPrevious(entry *models.Entry, now time.Time) (*models.Entry, error)
	GetNext(entry *models.Entry, now time.Time) (*models.Entry, error)
	Search(query string) ([]models.Entry, error)
	Count() (int64, error)
	CountPublished(now time.Time) (int64, error)
	UpdateStatus(ids []uint64, status string) (int64, error)
	ReplaceCategories(entry *models.Entry, categories []models.Category) error
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint64) (bool, error)
}

// CategoryRepository defines the store operations for categories.
type CategoryRepository interface {
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint64) error
	GetByID(id uint64) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
}

// CommentRepository defines the store operations for comments.
type CommentRepository interface {
	Create(comment *models.Comment) error
	Delete(id uint64) error
	GetByID(id uint64) (*models.Comment, error)
	GetPublicByEntry(entryID uint64) ([]models.Comment, error)
	GetRecent(limit int) ([]models.Comment, error)
	Count() (int64, error)
}

// UserRepository defines the store operations for users.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Entry    EntryRepository
	Category CategoryRepository
	Comment  CommentRepository
	User     UserRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Entry:    NewEntryRepository(db),
		Category: NewCategoryRepository(db),
		Comment:  NewCommentRepository(db),
		User:     NewUserRepository(db),
	}
}
