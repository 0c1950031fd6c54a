package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/mailer"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

const (
	// resetTokenBytes gives 256 bits of entropy per issued token.
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour

	resetCooldownAction = "password_reset"
	resetCooldownWindow = time.Minute
)

// AuthClaims is the session token payload: identity plus role.
type AuthClaims struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	RequestReset(ctx context.Context, req dto.RequestResetRequest) (*dto.MessageResponse, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.AuthResponse, error)
}

type authService struct {
	users    repository.UserRepository
	mail     mailer.Mailer
	cooldown *Cooldown
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, mail mailer.Mailer, cooldown *Cooldown, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		mail:     mail,
		cooldown: cooldown,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, apperror.Conflict("username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashed),
		Role:         model.RoleGuest,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(created)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no user found with that email")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated("password does not match")
	}

	return s.buildAuthResponse(user)
}

// RequestReset issues a fresh opaque reset token valid for one hour and
// dispatches it by email. Issuing again replaces any pending token.
func (s *authService) RequestReset(ctx context.Context, req dto.RequestResetRequest) (*dto.MessageResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no user found with that email")
		}
		return nil, err
	}

	allowed, err := s.cooldown.Acquire(ctx, resetCooldownAction, user.ID.String(), resetCooldownWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &apperror.AppError{
			Kind:    apperror.ErrRateLimitExceeded,
			Message: "a reset email was already requested, try again later",
		}
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(resetTokenTTL)

	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mail.SendPasswordReset(email, token); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{Success: true, Message: "Reset email sent."}, nil
}

// ResetPassword consumes a pending token. The expiry window is re-checked at
// reset time, not just at issuance, and a consumed token is cleared so it
// cannot be replayed.
func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		return nil, apperror.Validation("passwords do not match")
	}

	user, err := s.users.FindByResetToken(ctx, req.ResetToken, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.InvalidOrExpired("your reset token is either invalid or expired")
		}
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) issueToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := AuthClaims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
