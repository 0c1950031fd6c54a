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

type MetadataService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Metadata, error)
	Create(ctx context.Context, caller *model.User, isAuth bool, req dto.CreateMetadataRequest) (*model.Metadata, error)
	UpdateMenu(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.UpdateMenuRequest) (*dto.MessageResponse, error)
}

type metadataService struct {
	metadata repository.MetadataRepository
}

func NewMetadataService(metadata repository.MetadataRepository) MetadataService {
	return &metadataService{metadata: metadata}
}

func (s *metadataService) Get(ctx context.Context, id uuid.UUID) (*model.Metadata, error) {
	metadata, err := s.metadata.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no metadata found")
		}
		return nil, err
	}
	return metadata, nil
}

func (s *metadataService) Create(ctx context.Context, caller *model.User, isAuth bool, req dto.CreateMetadataRequest) (*model.Metadata, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.SuperAdmin(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	metadata := &model.Metadata{Menu: req.Menu}
	if err := s.metadata.Create(ctx, metadata); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (s *metadataService) UpdateMenu(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.UpdateMenuRequest) (*dto.MessageResponse, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.SuperAdmin(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	affected, err := s.metadata.UpdateMenu(ctx, id, req.Menu)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.NotFound("no metadata found")
	}

	return &dto.MessageResponse{Success: true, Message: "Menu Updated Successfully."}, nil
}
