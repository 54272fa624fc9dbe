package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Comment is a visitor comment on an entry. Spam never reaches this table:
// the moderation pre-save hook discards it before persistence.
type Comment struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	EntryID   uint64         `gorm:"index" json:"entry_id"`
	Entry     Entry          `gorm:"foreignKey:EntryID" json:"entry,omitempty"`
	Name      string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Email     string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Website   string         `gorm:"type:varchar(255)" json:"website" validate:"omitempty,url"`
	Content   string         `gorm:"type:text" json:"content" validate:"required,min=1"`
	IsPublic  bool           `gorm:"default:true" json:"is_public"`
	IPAddress string         `gorm:"type:varchar(45);default:null" json:"-"`
	UserAgent string         `gorm:"type:varchar(255);default:null" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
