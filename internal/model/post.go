package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the post lifecycle state.
type PostStatus string

const (
	StatusDraft   PostStatus = "DRAFT"
	StatusPublish PostStatus = "PUBLISH"
	StatusPending PostStatus = "PENDING"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublish, StatusPending:
		return true
	}
	return false
}

// CategoryRef is a snapshot of a category taken at write time. Renaming the
// category later does not update posts already tagged with it.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Tag struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type PostImage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Caption string `json:"caption"`
}

type Post struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Slug        string        `gorm:"size:200;index;not null" json:"slug"`
	AuthorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User         `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Image       PostImage     `gorm:"type:jsonb;serializer:json" json:"image"`
	Categories  []CategoryRef `gorm:"type:jsonb;serializer:json" json:"category"`
	Tags        []Tag         `gorm:"type:jsonb;serializer:json" json:"tags"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Status      PostStatus    `gorm:"size:20;not null;default:DRAFT" json:"status"`
	Show        bool          `gorm:"not null;default:true" json:"show"`
	Description string        `gorm:"type:text;not null" json:"description"`
	ReleaseAt   time.Time     `json:"release_at"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
