// Package domain defines the persistence models for posts, categories,
// tags, and authors. These types are mapped with GORM and form the core
// data layer of the posts backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Author represents a writer owning posts. Authors are referenced by
// a stable UUID because they originate from an external identity system.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name shown alongside posts.
//   - Email: unique contact address.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Author struct {
	ID        string         `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"  gorm:"type:varchar(255);not null"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"     gorm:"index"`
}

// TableName returns the database table name for Author.
func (Author) TableName() string { return "authors" }

// Category groups posts into a single rubric. Every post belongs to
// exactly one category.
type Category struct {
	ID        uint           `json:"id"   gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"    gorm:"index"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Tag labels posts with free-form topics. Posts and tags form a
// many-to-many relation through the post_tags join table.
type Tag struct {
	ID        uint           `json:"id"   gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"    gorm:"index"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Post is the central content entity. A post has one author, one category,
// and any number of tags. The slug is derived from the title and must be
// unique; the database enforces that with a unique index.
//
// Fields:
//   - ID: auto-incrementing primary key.
//   - Title: human-readable title (≤255 chars, validated upstream).
//   - Slug: URL-safe identifier derived from the title; unique.
//   - Content: full article body.
//   - Description: optional summary (≤500 chars).
//   - CoverImageURL: optional URL of the cover image.
//   - ReadTime: optional free-form estimate such as "5 min".
//   - AuthorID / CategoryID: foreign keys; the DB enforces referential
//     integrity, the service layer pre-checks them for friendlier errors.
//   - PublishedAt: nil while the post is a draft.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Post struct {
	ID            uint           `json:"id"              gorm:"primaryKey"`
	Title         string         `json:"title"           gorm:"type:varchar(255);not null"`
	Slug          string         `json:"slug"            gorm:"type:varchar(255);not null;uniqueIndex"`
	Content       string         `json:"content"         gorm:"type:text;not null"`
	Description   *string        `json:"description,omitempty"     gorm:"type:varchar(500)"`
	CoverImageURL *string        `json:"cover_image_url,omitempty" gorm:"type:varchar(2048)"`
	ReadTime      *string        `json:"read_time,omitempty"       gorm:"type:varchar(50)"`
	AuthorID      string         `json:"author_id"       gorm:"type:char(36);not null;index"`
	CategoryID    uint           `json:"category_id"     gorm:"not null;index"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"               gorm:"index"`

	// Author is the owning writer. Posts are cascade-deleted when their
	// author is removed.
	Author Author `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Category is the owning rubric.
	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Tags carries the many-to-many topic labels.
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:post_tags"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }
