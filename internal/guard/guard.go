// Package guard holds the authorization predicates run by every privileged
// operation before any store access. Authentication is always checked before
// role, never the reverse.
package guard

import (
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

// Authenticated fails when the request carries no valid session.
func Authenticated(isAuth bool) error {
	if !isAuth {
		return apperror.Unauthenticated("you need to be logged in")
	}
	return nil
}

// SuperAdmin requires the SUPERADMIN role exactly.
func SuperAdmin(user *model.User) error {
	if user == nil || user.Role != model.RoleSuperAdmin {
		return apperror.Forbidden("you need to be SUPERADMIN")
	}
	return nil
}

// Admin requires a role with administrative capability.
func Admin(user *model.User) error {
	if user == nil || !user.Role.CanAdminister() {
		return apperror.Forbidden("you need to be ADMIN")
	}
	return nil
}

// Author requires the AUTHOR role exactly.
func Author(user *model.User) error {
	if user == nil || user.Role != model.RoleAuthor {
		return apperror.Forbidden("you need to be AUTHOR")
	}
	return nil
}

// AdminOrAuthor requires a role allowed to author posts.
func AdminOrAuthor(user *model.User) error {
	if user == nil || !user.Role.CanAuthorPosts() {
		return apperror.Forbidden("you need to be ADMIN or AUTHOR")
	}
	return nil
}
