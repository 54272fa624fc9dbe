package repository

import (
	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) GetByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Entry").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPublicByEntry returns the publicly visible comments of an entry,
// oldest first.
func (r *commentRepository) GetPublicByEntry(entryID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("entry_id = ? AND is_public = ?", entryID, true).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// GetRecent returns the newest comments across all entries, for the admin.
func (r *commentRepository) GetRecent(limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Entry").Order("created_at DESC").Limit(limit).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Count(&count).Error
	return count, err
}
