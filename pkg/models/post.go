package models

import (
	"time"

	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Post is the blog content record. Only the schema is defined here; no
// business logic is built on top of it.
type Post struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AuthorID   uint           `gorm:"not null;index" json:"author_id"`
	Author     User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title      string         `gorm:"not null" json:"title"`
	Body       string         `gorm:"type:text" json:"body"`
	Status     PostStatus     `gorm:"type:varchar(20);default:'draft'" json:"status"`
	CategoryID *uint          `gorm:"index" json:"category_id"`
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags       []Tag          `gorm:"many2many:post_tags" json:"tags,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
