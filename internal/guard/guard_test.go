package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

func userWithRole(role model.Role) *model.User {
	return &model.User{Role: role}
}

func TestAuthenticated(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Authenticated(true))

	err := Authenticated(false)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestRoleGuards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		guard   func(*model.User) error
		allowed []model.Role
	}{
		{
			name:    "super admin only",
			guard:   SuperAdmin,
			allowed: []model.Role{model.RoleSuperAdmin},
		},
		{
			name:    "admin capability",
			guard:   Admin,
			allowed: []model.Role{model.RoleAdmin, model.RoleSuperAdmin},
		},
		{
			name:    "author only",
			guard:   Author,
			allowed: []model.Role{model.RoleAuthor},
		},
		{
			name:    "author capability",
			guard:   AdminOrAuthor,
			allowed: []model.Role{model.RoleAuthor, model.RoleAdmin, model.RoleSuperAdmin},
		},
	}

	roles := []model.Role{model.RoleGuest, model.RoleAuthor, model.RoleAdmin, model.RoleSuperAdmin}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, role := range roles {
				err := tt.guard(userWithRole(role))

				allowed := false
				for _, a := range tt.allowed {
					if role == a {
						allowed = true
					}
				}

				if allowed {
					assert.NoError(t, err, "role %s should pass", role)
				} else {
					assert.True(t, errors.Is(err, apperror.ErrForbidden), "role %s should be forbidden", role)
				}
			}
		})
	}
}

func TestRoleGuardsRejectNilUser(t *testing.T) {
	t.Parallel()

	for _, g := range []func(*model.User) error{SuperAdmin, Admin, Author, AdminOrAuthor} {
		err := g(nil)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	}
}
