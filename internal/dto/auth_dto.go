package dto

import "github.com/inkwell-cms/inkwell/internal/model"

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=5,max=20,word_chars,lowercase"`
	Password  string `json:"password" validate:"required,min=5,max=25"`
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,eq=GUEST"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=5,max=25"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	ResetToken      string `json:"resetToken" validate:"required"`
}
