package user

import "context"

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	ListUsers(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	ToggleUserPrivilege(ctx context.Context, req TogglePrivilegeRequest) (UserResponse, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
}
