package service

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

const testSecret = "test-secret"

func newTestAuthService(users *fakeUserRepo, mail *fakeMailer) AuthService {
	return NewAuthService(users, mail, NewCooldown(nil), testSecret, time.Hour)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func seedUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	return &model.User{
		Username:     "johndoe",
		Email:        email,
		FirstName:    "John",
		LastName:     "Doe",
		PasswordHash: hashPassword(t, password),
		Role:         model.RoleGuest,
	}
}

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  "newwriter",
		Password:  "secret12",
		FirstName: "New",
		LastName:  "Writer",
		Email:     "writer@example.com",
		Role:      "GUEST",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})

	resp, err := svc.Register(context.Background(), validRegisterRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, model.RoleGuest, resp.User.Role)
	assert.Equal(t, "writer@example.com", resp.User.Email)
}

func TestRegisterLowercasesEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})

	req := validRegisterRequest()
	req.Email = "Writer@Example.COM"

	resp, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "writer@example.com", resp.User.Email)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	existing := seedUser(t, "john@example.com", "secret12")
	existing.Username = "newwriter"
	users := newFakeUserRepo(existing)
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.Register(context.Background(), validRegisterRequest())

	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(seedUser(t, "writer@example.com", "secret12"))
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.Register(context.Background(), validRegisterRequest())

	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestRegisterRejectsElevatedRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})

	req := validRegisterRequest()
	req.Role = "ADMIN"

	_, err := svc.Register(context.Background(), req)

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(seedUser(t, "john@example.com", "secret12"))
	svc := newTestAuthService(users, &fakeMailer{})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "john@example.com",
		Password: "secret12",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresIn, time.Now().Unix())
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret12",
	})

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(seedUser(t, "john@example.com", "secret12"))
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "john@example.com",
		Password: "wrong-password",
	})

	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestGenerateResetToken(t *testing.T) {
	t.Parallel()

	first, err := generateResetToken()
	require.NoError(t, err)
	second, err := generateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, resetTokenBytes*2)
	assert.NotEqual(t, first, second)

	_, err = hex.DecodeString(first)
	assert.NoError(t, err)
}

func TestRequestResetStoresTokenAndSendsMail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(seedUser(t, "john@example.com", "secret12"))
	mail := &fakeMailer{}
	svc := newTestAuthService(users, mail)

	before := time.Now()
	resp, err := svc.RequestReset(context.Background(), dto.RequestResetRequest{Email: "john@example.com"})

	require.NoError(t, err)
	assert.True(t, resp.Success)

	stored, err := users.FindByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.Len(t, *stored.ResetToken, resetTokenBytes*2)

	// expiry lands one hour out from issuance
	assert.WithinDuration(t, before.Add(resetTokenTTL), *stored.ResetTokenExpiry, 5*time.Second)

	sent := mail.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "john@example.com", sent[0].to)
	assert.Equal(t, *stored.ResetToken, sent[0].token)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	t.Parallel()

	mail := &fakeMailer{}
	svc := newTestAuthService(newFakeUserRepo(), mail)

	_, err := svc.RequestReset(context.Background(), dto.RequestResetRequest{Email: "nobody@example.com"})

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Empty(t, mail.sent())
}

func TestRequestResetReplacesPendingToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(seedUser(t, "john@example.com", "secret12"))
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.RequestReset(context.Background(), dto.RequestResetRequest{Email: "john@example.com"})
	require.NoError(t, err)
	first, err := users.FindByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)

	_, err = svc.RequestReset(context.Background(), dto.RequestResetRequest{Email: "john@example.com"})
	require.NoError(t, err)
	second, err := users.FindByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, *first.ResetToken, *second.ResetToken)
}

func TestResetPasswordSuccess(t *testing.T) {
	t.Parallel()

	token := "a1b2c3"
	expiry := time.Now().Add(30 * time.Minute)
	user := seedUser(t, "john@example.com", "old-pass")
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	users := newFakeUserRepo(user)
	svc := newTestAuthService(users, &fakeMailer{})

	resp, err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email:           "john@example.com",
		Password:        "new-pass",
		ConfirmPassword: "new-pass",
		ResetToken:      token,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	stored, err := users.FindByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExpiry)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-pass")))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	t.Parallel()

	token := "a1b2c3"
	expiry := time.Now().Add(-time.Minute)
	user := seedUser(t, "john@example.com", "old-pass")
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	svc := newTestAuthService(newFakeUserRepo(user), &fakeMailer{})

	_, err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email:           "john@example.com",
		Password:        "new-pass",
		ConfirmPassword: "new-pass",
		ResetToken:      token,
	})

	assert.True(t, errors.Is(err, apperror.ErrInvalidOrExpired))
}

func TestResetPasswordTokenCannotBeReplayed(t *testing.T) {
	t.Parallel()

	token := "a1b2c3"
	expiry := time.Now().Add(30 * time.Minute)
	user := seedUser(t, "john@example.com", "old-pass")
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	svc := newTestAuthService(newFakeUserRepo(user), &fakeMailer{})

	req := dto.ResetPasswordRequest{
		Email:           "john@example.com",
		Password:        "new-pass",
		ConfirmPassword: "new-pass",
		ResetToken:      token,
	}

	_, err := svc.ResetPassword(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), req)
	assert.True(t, errors.Is(err, apperror.ErrInvalidOrExpired))
}

func TestResetPasswordMismatch(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})

	_, err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email:           "john@example.com",
		Password:        "new-pass",
		ConfirmPassword: "other-pass",
		ResetToken:      "whatever",
	})

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
