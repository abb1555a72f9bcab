// internal/users/service.go
package users

import "context"

// Service defines the interface for the user account service.
type Service interface {
	Register(ctx context.Context, username, email, password string, role Role) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) []*User
	Update(ctx context.Context, id, username, email, password string) error
	UpgradeToAdministrator(ctx context.Context, id string) bool
	Remove(ctx context.Context, id string) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
