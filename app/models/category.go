package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID          uint64         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(250)" json:"name" validate:"required,min=1,max=250"`
	Slug        string         `gorm:"uniqueIndex;type:varchar(250)" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Entries     []Entry        `gorm:"many2many:entry_categories;" json:"entries,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// BeforeCreate derives the slug from the name when none was supplied.
// Uniqueness is enforced by the database index, not here.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
