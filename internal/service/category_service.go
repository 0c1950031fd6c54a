package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/guard"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type CategoryService interface {
	GetAll(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, caller *model.User, isAuth bool, req dto.CreateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error)
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) GetAll(ctx context.Context) ([]*model.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no category found")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, caller *model.User, isAuth bool, req dto.CreateCategoryRequest) (*model.Category, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.categories.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.Conflict("there is a category with the same name")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.AdminOrAuthor(caller); err != nil {
		return nil, err
	}

	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no category found")
		}
		return nil, err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{Success: true, Message: "Category Deleted Successfully."}, nil
}
