package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListAll(ctx context.Context) ([]User, error)
	UpdatePrivileges(ctx context.Context, id int, p Privileges) error
}
