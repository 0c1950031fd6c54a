package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/guard"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/storage"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type UserService interface {
	GetAll(ctx context.Context, caller *model.User, isAuth bool) ([]*model.User, error)
	GetByID(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*model.User, error)
	ChangeUserData(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.ChangeUserDataRequest) (*model.User, error)
	ChangeUserEmail(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.ChangeUserEmailRequest) (*model.User, error)
	SetRole(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.SetUserRoleRequest) (*model.User, error)
	SetImage(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.SetUserImageRequest) (*model.User, error)
	UploadAvatar(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, file io.Reader, fileName string) (*model.User, error)
	Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error)
}

type userService struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	images storage.ImageStorage
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, images storage.ImageStorage) UserService {
	return &userService{
		users:  users,
		posts:  posts,
		images: images,
	}
}

func (s *userService) GetAll(ctx context.Context, caller *model.User, isAuth bool) ([]*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.Admin(caller); err != nil {
		return nil, err
	}

	return s.users.FindAll(ctx)
}

func (s *userService) GetByID(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.Admin(caller); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

func (s *userService) ChangeUserData(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.ChangeUserDataRequest) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

func (s *userService) ChangeUserEmail(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.ChangeUserEmailRequest) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
		return nil, apperror.Conflict("email is already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user.Email = email
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

// SetRole changes another user's role. Callers cannot change their own role.
func (s *userService) SetRole(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.SetUserRoleRequest) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.SuperAdmin(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if caller.ID == id {
		return nil, apperror.Forbidden("not allowed to change your own role")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = model.Role(req.Role)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

func (s *userService) SetImage(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, req dto.SetUserImageRequest) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.Admin(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Image = &req.ImageURL
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

// UploadAvatar pushes the file to image storage and stores the resulting URL.
func (s *userService) UploadAvatar(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID, file io.Reader, fileName string) (*model.User, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.Admin(caller); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, &apperror.AppError{
			Kind:    apperror.ErrInternal,
			Message: "image storage is not configured",
		}
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, file, "avatars", fileName)
	if err != nil {
		return nil, err
	}

	// best effort, the replaced avatar is orphaned either way
	if user.Image != nil && *user.Image != "" {
		if err := s.images.DeleteImage(ctx, *user.Image); err != nil {
			log.Printf("failed to delete replaced avatar for user %s: %v", user.ID, err)
		}
	}

	user.Image = &url
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

// Delete removes a user. Deletion is refused while any post still references
// the user as author, and callers cannot delete their own account.
func (s *userService) Delete(ctx context.Context, caller *model.User, isAuth bool, id uuid.UUID) (*dto.MessageResponse, error) {
	if err := guard.Authenticated(isAuth); err != nil {
		return nil, err
	}
	if err := guard.SuperAdmin(caller); err != nil {
		return nil, err
	}
	if caller.ID == id {
		return nil, apperror.Forbidden("not allowed to delete your own account")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	authored, err := s.posts.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if authored != 0 {
		return nil, apperror.Conflict("there are posts linked to the author")
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{Success: true, Message: "User Deleted Successfully."}, nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no user found")
		}
		return nil, err
	}
	return user, nil
}
