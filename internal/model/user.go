package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleAuthor     Role = "AUTHOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleAuthor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanAuthorPosts reports whether the role may create and manage blog content.
func (r Role) CanAuthorPosts() bool {
	return r == RoleAuthor || r == RoleAdmin || r == RoleSuperAdmin
}

// CanAdminister reports whether the role may act on entities it does not own.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username         string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName        string     `gorm:"size:100;not null" json:"first_name"`
	LastName         string     `gorm:"size:100;not null" json:"last_name"`
	PasswordHash     string     `gorm:"size:255;not null" json:"-"`
	Role             Role       `gorm:"size:20;not null;default:GUEST" json:"role"`
	Image            *string    `gorm:"type:text" json:"image,omitempty"`
	ResetToken       *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
