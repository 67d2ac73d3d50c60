package user

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// PolicyStore receives the privileges of users whose access changed.
type PolicyStore interface {
	SetUser(userID int, role user.Role, privileges user.Privileges) error
}

type UserServiceImpl struct {
	userRepo user.UserRepository
	policies PolicyStore
	logger   *slog.Logger
}

func NewUserService(userRepo user.UserRepository, policies PolicyStore, logger *slog.Logger) user.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userRepo: userRepo,
		policies: policies,
		logger:   logger,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := user.Role(req.Role)
	created, err := s.userRepo.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
		Privileges:   user.DefaultPrivileges(role),
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := s.policies.SetUser(created.ID, created.Role, created.Privileges); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to register user policies: %w", err)
	}

	s.logger.Info("user created", slog.Int("user_id", created.ID), slog.String("role", string(created.Role)))
	return toUserResponse(created), nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = toUserResponse(u)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := "0 of 0"
	if total > 0 {
		from := (filter.Page-1)*filter.Limit + 1
		to := min(filter.Page*filter.Limit, int(total))
		showing = fmt.Sprintf("%d-%d of %d", from, to, total)
	}

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Users:      responses,
	}, nil
}

// ToggleUserPrivilege implements user.UserService.
func (s *UserServiceImpl) ToggleUserPrivilege(ctx context.Context, req user.TogglePrivilegeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.IsSuperAdmin() {
		return user.UserResponse{}, user.ErrCannotEditSuperUser
	}

	privileges := u.Privileges.Clone()
	if err := privileges.Toggle(user.Module(req.Module), user.Action(req.Action), req.Enabled); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.userRepo.UpdatePrivileges(ctx, u.ID, privileges); err != nil {
		return user.UserResponse{}, err
	}
	u.Privileges = privileges

	if err := s.policies.SetUser(u.ID, u.Role, u.Privileges); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to refresh user policies: %w", err)
	}

	s.logger.Info("user privilege changed",
		slog.Int("user_id", u.ID),
		slog.String("module", req.Module),
		slog.String("action", req.Action),
		slog.Bool("enabled", req.Enabled),
	)
	return toUserResponse(u), nil
}

// ListRoles implements user.UserService.
func (s *UserServiceImpl) ListRoles(ctx context.Context) ([]user.RoleResponse, error) {
	roles := make([]user.RoleResponse, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = user.RoleResponse{
			Name:       string(r),
			Privileges: user.DefaultPrivileges(r),
		}
	}
	return roles, nil
}

func toUserResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		Privileges: u.Privileges.Clone(),
	}
}
