package user

import (
	"strings"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: SUPER_ADMIN, ADMIN, USER",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TogglePrivilegeRequest struct {
	UserID  int    `json:"-"`
	Module  string `json:"module"`
	Action  string `json:"action"`
	Enabled bool   `json:"enabled"`
}

func (r *TogglePrivilegeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a positive integer",
		})
	}
	if !Module(r.Module).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "module",
			Message: ErrUnknownModule.Error(),
		})
	}
	if !Action(r.Action).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: view, add, edit, delete",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserFilter struct {
	Search *string
	Role   *string
	Page   int
	Limit  int
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}
	if f.Role != nil && !Role(strings.ToUpper(*f.Role)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: SUPER_ADMIN, ADMIN, USER",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	Privileges Privileges `json:"privileges"`
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}

type RoleResponse struct {
	Name       string     `json:"name"`
	Privileges Privileges `json:"privileges"`
}
