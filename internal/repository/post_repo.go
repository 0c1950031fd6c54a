package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

// PostFilter selects the subset of posts a paginated query runs over. Zero
// values mean "no constraint"; an absent author filter deliberately yields
// the unfiltered superset.
type PostFilter struct {
	Status       *model.PostStatus
	AuthorID     *uuid.UUID
	CategoryID   *uuid.UUID
	CategoryName string
	TagValue     string
	Search       string
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindAll(ctx context.Context) ([]*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindByTitle(ctx context.Context, title string) (*model.Post, error)
	// FindByAnyIdentifier returns the first post matching the id, title or
	// slug (logical OR). A nil post with nil error means no match.
	FindByAnyIdentifier(ctx context.Context, id *uuid.UUID, title, slug string) (*model.Post, error)
	// Paginate returns one page of posts matching the filter, newest first,
	// with the author populated, plus the total match count.
	Paginate(ctx context.Context, filter PostFilter, page, limit int) ([]*model.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	Save(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// preloadAuthor populates the author with the public name fields only.
func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name")
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author", preloadAuthor).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author", preloadAuthor).
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByTitle(ctx context.Context, title string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByAnyIdentifier(ctx context.Context, id *uuid.UUID, title, slug string) (*model.Post, error) {
	query := r.db.WithContext(ctx).Preload("Author", preloadAuthor)

	cond := r.db.Where("title = ?", title).Or("slug = ?", slug)
	if id != nil {
		cond = cond.Or("id = ?", *id)
	}

	var post model.Post
	err := query.Where(cond).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Paginate(ctx context.Context, filter PostFilter, page, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.CategoryID != nil || filter.CategoryName != "" {
		categoryID := ""
		if filter.CategoryID != nil {
			categoryID = filter.CategoryID.String()
		}
		// element-level OR over the snapshot list
		query = query.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(posts.categories) AS c WHERE c->>'id' = ? OR c->>'name' = ?)",
			categoryID, filter.CategoryName,
		)
	}
	if filter.TagValue != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(posts.tags) AS t WHERE t->>'value' = ?)",
			filter.TagValue,
		)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"(title ILIKE ? OR description ILIKE ? OR EXISTS (SELECT 1 FROM jsonb_array_elements(posts.tags) AS t WHERE t->>'value' ILIKE ?))",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	if err := query.
		Preload("Author", preloadAuthor).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postRepository) Save(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id).Error
}
