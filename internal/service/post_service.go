package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/guard"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/paginate"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type PostService interface {
	GetAll(ctx context.Context) ([]*model.Post, error)
	GetByAnyIdentifier(ctx context.Context, id *uuid.UUID, title, slug string) (*model.Post, error)
	GetByStatus(ctx context.Context, status model.PostStatus, page, limit int) (*dto.PaginatedPosts, error)
	GetByAuthor(ctx context.Context, authorID *uuid.UUID, page, limit int) (*dto.PaginatedPosts, error)
	GetByCategory(ctx context.Context, categoryID *uuid.UUID, categoryName string, page, limit int) (*dto.PaginatedPosts, error)
	GetByTag(ctx context.Context, tag string, page, limit int) (*dto.PaginatedPosts, error)
	Search(ctx context.Context, term string, page, limit int) (*dto.PaginatedPosts, error)
	Suggest(ctx context.Context, term string, limit int) ([]dto.PostSuggestion, error)

	Create(ctx context.Context, caller *model.User, isAuth bool, input dto.PostInput) (*model.Post, error)
	Update(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, input dto.PostInput) (*model.Post, error)
	SetStatus(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, status model.PostStatus) (*model.Post, error)
	Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error)
}

type postService struct {
	posts  repository.PostRepository
	search SearchIndex
}

func NewPostService(posts repository.PostRepository, search SearchIndex) PostService {
	return &postService{
		posts:  posts,
		search: search,
	}
}

func (s *postService) GetAll(ctx context.Context) ([]*model.Post, error) {
	return s.posts.FindAll(ctx)
}

// GetByAnyIdentifier returns the first post matching any of the three
// identifiers. No match is not an error; the result is simply nil.
func (s *postService) GetByAnyIdentifier(ctx context.Context, id *uuid.UUID, title, slug string) (*model.Post, error) {
	return s.posts.FindByAnyIdentifier(ctx, id, title, slug)
}

func (s *postService) GetByStatus(ctx context.Context, status model.PostStatus, page, limit int) (*dto.PaginatedPosts, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status must be one of DRAFT PUBLISH PENDING")
	}
	return s.paginate(ctx, repository.PostFilter{Status: &status}, page, limit)
}

// GetByAuthor filters by author; with no author id it returns every post.
func (s *postService) GetByAuthor(ctx context.Context, authorID *uuid.UUID, page, limit int) (*dto.PaginatedPosts, error) {
	return s.paginate(ctx, repository.PostFilter{AuthorID: authorID}, page, limit)
}

func (s *postService) GetByCategory(ctx context.Context, categoryID *uuid.UUID, categoryName string, page, limit int) (*dto.PaginatedPosts, error) {
	if categoryID == nil && categoryName == "" {
		return nil, apperror.Validation("category_id or category_name is required")
	}
	return s.paginate(ctx, repository.PostFilter{CategoryID: categoryID, CategoryName: categoryName}, page, limit)
}

func (s *postService) GetByTag(ctx context.Context, tag string, page, limit int) (*dto.PaginatedPosts, error) {
	if tag == "" {
		return nil, apperror.Validation("tag is required")
	}
	return s.paginate(ctx, repository.PostFilter{TagValue: tag}, page, limit)
}

// Search matches the term case-insensitively against title, description and
// tag values. An empty term is rejected rather than returning the whole
// corpus.
func (s *postService) Search(ctx context.Context, term string, page, limit int) (*dto.PaginatedPosts, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.Validation("search term is required")
	}
	return s.paginate(ctx, repository.PostFilter{Search: term}, page, limit)
}

func (s *postService) Suggest(ctx context.Context, term string, limit int) ([]dto.PostSuggestion, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.Validation("search term is required")
	}
	if s.search == nil {
		return []dto.PostSuggestion{}, nil
	}
	if limit < 1 {
		limit = paginate.DefaultLimit
	}
	return s.search.Suggest(term, limit)
}

func (s *postService) Create(ctx context.Context, caller *model.User, isAuth bool, input dto.PostInput) (*model.Post, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	if _, err := s.posts.FindByTitle(ctx, input.Title); err == nil {
		return nil, apperror.Conflict("there is a post with the same title")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	post := &model.Post{
		Title:       input.Title,
		Slug:        input.Slug,
		AuthorID:    caller.ID,
		Image:       input.Image,
		Categories:  input.Categories,
		Tags:        input.Tags,
		Content:     input.Content,
		Status:      input.Status,
		Description: input.Description,
		ReleaseAt:   input.ReleaseAt,
	}
	if post.Slug == "" {
		post.Slug = slugify(input.Title)
	}
	if post.Status == "" {
		post.Status = model.StatusDraft
	}
	post.Show = input.Show == nil || *input.Show

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	s.reindex(created)
	return created, nil
}

func (s *postService) Update(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, input dto.PostInput) (*model.Post, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	// uniqueness is decided before ownership
	if existing, err := s.posts.FindByTitle(ctx, input.Title); err == nil && existing.ID != post.ID {
		return nil, apperror.Conflict("there is a post with the same title")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkOwnership(caller, post); err != nil {
		return nil, err
	}

	post.Title = input.Title
	if input.Slug != "" {
		post.Slug = input.Slug
	}
	post.Image = input.Image
	post.Categories = input.Categories
	post.Tags = input.Tags
	post.Content = input.Content
	if input.Status != "" {
		post.Status = input.Status
	}
	if input.Show != nil {
		post.Show = *input.Show
	}
	post.Description = input.Description
	if !input.ReleaseAt.IsZero() {
		post.ReleaseAt = input.ReleaseAt
	}

	// drop the preloaded association before writing
	post.Author = nil

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	updated, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.reindex(updated)
	return updated, nil
}

func (s *postService) SetStatus(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, status model.PostStatus) (*model.Post, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperror.Validation("status must be one of DRAFT PUBLISH PENDING")
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, post); err != nil {
		return nil, err
	}

	post.Status = status
	post.Author = nil
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	updated, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.reindex(updated)
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, post); err != nil {
		return nil, err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.RemovePost(post.ID.String()); err != nil {
			log.Printf("failed to remove post %s from search index: %v", post.ID, err)
		}
	}

	return &dto.MessageResponse{Success: true, Message: "Post Deleted Successfully."}, nil
}

// checkOwnership allows the original author or an administrative role.
func (s *postService) checkOwnership(caller *model.User, post *model.Post) error {
	if post.AuthorID != caller.ID && !caller.Role.CanAdminister() {
		return apperror.Forbidden("you are not the author of this post")
	}
	return nil
}

func (s *postService) paginate(ctx context.Context, filter repository.PostFilter, page, limit int) (*dto.PaginatedPosts, error) {
	page, limit = paginate.Normalize(page, limit)

	posts, total, err := s.posts.Paginate(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedPosts{
		Posts:     posts,
		Paginator: paginate.New(total, page, limit),
	}, nil
}

func (s *postService) findPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no post found")
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) reindex(post *model.Post) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPost(post); err != nil {
		log.Printf("failed to index post %s: %v", post.ID, err)
	}
}

func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}
