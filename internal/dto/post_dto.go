package dto

import (
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/pkg/paginate"
)

// PostInput is the payload of post create/update mutations. Categories are
// embedded as snapshots taken at write time.
type PostInput struct {
	Title       string              `json:"title" validate:"required,min=5,max=200"`
	Slug        string              `json:"slug"`
	Image       model.PostImage     `json:"image"`
	Categories  []model.CategoryRef `json:"category"`
	Tags        []model.Tag         `json:"tags"`
	Content     string              `json:"content" validate:"required,min=20"`
	Status      model.PostStatus    `json:"status" validate:"omitempty,oneof=DRAFT PUBLISH PENDING"`
	Show        *bool               `json:"show"`
	Description string              `json:"description" validate:"required,min=20"`
	ReleaseAt   time.Time           `json:"releaseAt"`
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type PaginatedPosts struct {
	Posts     []*model.Post      `json:"posts"`
	Paginator paginate.Paginator `json:"paginator"`
}

type PostSuggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
