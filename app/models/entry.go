package models

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/loftlabs/loft/internal/pkg/markup"
)

const (
	ENTRY_PUBLISHED = "published"
	ENTRY_DRAFT     = "draft"

	MARKUP_MARKDOWN = markup.Markdown
	MARKUP_TEXTILE  = markup.Textile
)

// leadInWords is the word budget for a lead-in built from the body when an
// entry has no excerpt.
const leadInWords = 50

// Entry is a blog post. BodyHTML and ExcerptHTML are derived fields,
// recomputed from Body/Excerpt on every save under the entry's markup
// kind; they are never edited directly.
type Entry struct {
	ID      uint64 `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"type:varchar(250)" json:"title" validate:"required,min=1,max=250"`
	Excerpt string `gorm:"type:text" json:"excerpt"`
	Body    string `gorm:"type:text" json:"body" validate:"required"`

	// Generated HTML, not user-editable
	BodyHTML    string `gorm:"type:text" json:"body_html"`
	ExcerptHTML string `gorm:"type:text" json:"excerpt_html"`

	AuthorID       uint64     `gorm:"index" json:"author_id"`
	Author         User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Slug           string     `gorm:"uniqueIndex;type:varchar(250)" json:"slug"`
	Status         string     `gorm:"type:varchar(20);default:'published';index" json:"status" validate:"oneof=published draft"`
	PublishedAt    *time.Time `gorm:"index" json:"published_at"`
	EnableComments bool       `gorm:"default:true" json:"enable_comments"`
	Featured       bool       `gorm:"default:false" json:"featured"`
	Markup         string     `gorm:"type:varchar(8);default:'markdown'" json:"markup" validate:"omitempty,oneof=markdown textile"`

	// SEO metadata
	PageTitle       string `gorm:"type:varchar(250)" json:"page_title"`
	MetaKeywords    string `gorm:"type:varchar(250)" json:"meta_keywords"`
	MetaDescription string `gorm:"type:varchar(500)" json:"meta_description"`
	HeadTags        string `gorm:"type:text" json:"head_tags"`

	Categories []Category `gorm:"many2many:entry_categories;" json:"categories,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Entry) Validate() error {
	v := validator.New()
	return v.Struct(e)
}

// BeforeSave re-renders the generated HTML fields from the current body
// and excerpt. Runs on every create and update, so the HTML can never go
// stale relative to the source text.
func (e *Entry) BeforeSave(tx *gorm.DB) error {
	if e.Markup == "" {
		e.Markup = MARKUP_MARKDOWN
	}
	e.BodyHTML = markup.Render(e.Body, e.Markup)
	e.ExcerptHTML = markup.Render(e.Excerpt, e.Markup)
	return nil
}

// BeforeCreate fills first-save defaults: a slug derived from the title
// and an immediate publish date. Neither is touched again on updates; the
// slug only changes when an editor overwrites it explicitly.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.Slug == "" {
		e.Slug = slug.Make(e.Title)
	}
	if e.PublishedAt == nil {
		now := time.Now()
		e.PublishedAt = &now
	}
	return nil
}

// IsLive reports whether the entry is visible to anonymous visitors:
// published and not scheduled past now.
func (e *Entry) IsLive(now time.Time) bool {
	if e.Status != ENTRY_PUBLISHED {
		return false
	}
	return e.PublishedAt == nil || !e.PublishedAt.After(now)
}

// PublishedOrCreated is the timestamp entries are ordered by in listings
// and previous/next navigation.
func (e *Entry) PublishedOrCreated() time.Time {
	if e.PublishedAt != nil {
		return *e.PublishedAt
	}
	return e.CreatedAt
}

// AbsoluteURL returns the public detail URL for live entries and the
// staff-only draft preview URL otherwise.
func (e *Entry) AbsoluteURL() string {
	if e.IsLive(time.Now()) {
		return "/entry/" + e.Slug
	}
	return fmt.Sprintf("/draft/%d", e.ID)
}

// HasCategory reports whether the entry is assigned to the category.
func (e *Entry) HasCategory(id uint64) bool {
	for _, cat := range e.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// Permalink returns an HTML anchor to the entry, for listings and the
// admin. Text defaults to the entry title.
func (e *Entry) Permalink(text, title string) template.HTML {
	if text == "" {
		text = e.Title
	}
	if title == "" {
		title = "Permalink to this post"
	}
	return template.HTML(fmt.Sprintf(`<a href="%s" rel="bookmark permalink" title="%s">%s</a>`,
		e.AbsoluteURL(), title, text))
}

// LeadIn returns a preview of the entry for listings: the excerpt, or the
// body truncated to a word budget when no excerpt exists, rendered under
// the entry's markup kind with a read-more permalink appended. Both markup
// kinds take the same path.
func (e *Entry) LeadIn() template.HTML {
	source := e.Excerpt
	if source == "" {
		source = truncateWords(e.Body, leadInWords)
	}
	readMore := e.Permalink("read more&hellip;", "Read full article")
	return template.HTML(markup.Render(source, e.Markup) + " " + string(readMore))
}

func truncateWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return s
	}
	return strings.Join(words[:limit], " ")
}
