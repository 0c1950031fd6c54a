package dto

type ChangeUserDataRequest struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
}

type ChangeUserEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SetUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=GUEST AUTHOR ADMIN SUPERADMIN"`
}

type SetUserImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}
