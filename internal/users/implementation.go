// internal/users/implementation.go
package users

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shelfs/internal/identifier"
	"shelfs/internal/liberr"
)

// service implements the Service interface.
type service struct {
	store  *Store
	logger *zap.Logger
	tracer trace.Tracer
}

// NewService creates a new user service instance backed by the given store.
func NewService(store *Store, logger *zap.Logger) Service {
	return &service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("shelfs/users"),
	}
}

// Register creates a new account. It fails with liberr.ErrDuplicateKey when
// the username or email is already taken.
func (s *service) Register(ctx context.Context, username, email, password string, role Role) (*User, error) {
	_, span := s.tracer.Start(ctx, "users.register",
		trace.WithAttributes(attribute.String("user.role", string(role))),
	)
	defer span.End()

	user := &User{
		ID:       identifier.NewID(),
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := s.store.Insert(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("id", user.ID),
		zap.String("username", username),
		zap.String("role", string(role)),
	)
	return user, nil
}

// Get retrieves an account by its id.
func (s *service) Get(ctx context.Context, id string) (*User, error) {
	_, span := s.tracer.Start(ctx, "users.get")
	defer span.End()

	user, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, liberr.ErrNotFound)
	}
	return user, nil
}

// List returns every account in registration order.
func (s *service) List(ctx context.Context) []*User {
	_, span := s.tracer.Start(ctx, "users.list")
	defer span.End()

	return s.store.All()
}

// Update overwrites the mutable fields of an existing account in place.
func (s *service) Update(ctx context.Context, id, username, email, password string) error {
	_, span := s.tracer.Start(ctx, "users.update")
	defer span.End()

	user, ok := s.store.Get(id)
	if !ok {
		return fmt.Errorf("user %q: %w", id, liberr.ErrNotFound)
	}

	user.Username = username
	user.Email = email
	user.Password = password
	if err := s.store.Update(user); err != nil {
		return fmt.Errorf("failed to update user %q: %w", id, err)
	}

	s.logger.Info("user updated", zap.String("id", id))
	return nil
}

// UpgradeToAdministrator promotes a Member to Administrator, replacing the
// record under the same id. It reports false, without error, when the
// account does not exist or is already an Administrator.
func (s *service) UpgradeToAdministrator(ctx context.Context, id string) bool {
	_, span := s.tracer.Start(ctx, "users.upgrade")
	defer span.End()

	user, ok := s.store.Get(id)
	if !ok || user.Role == RoleAdministrator {
		return false
	}

	user.Role = RoleAdministrator
	if err := s.store.Update(user); err != nil {
		s.logger.Error("failed to upgrade user", zap.String("id", id), zap.Error(err))
		return false
	}

	s.logger.Info("user upgraded to administrator", zap.String("id", id))
	return true
}

// Remove deletes an account.
func (s *service) Remove(ctx context.Context, id string) error {
	_, span := s.tracer.Start(ctx, "users.remove")
	defer span.End()

	if !s.store.Delete(id) {
		return fmt.Errorf("user %q: %w", id, liberr.ErrNotFound)
	}

	s.logger.Info("user removed", zap.String("id", id))
	return nil
}

// FindByUsername looks up an account by its exact username.
func (s *service) FindByUsername(ctx context.Context, username string) (*User, error) {
	_, span := s.tracer.Start(ctx, "users.find_by_username")
	defer span.End()

	user, ok := s.store.ByUsername(username)
	if !ok {
		return nil, fmt.Errorf("username %q: %w", username, liberr.ErrNotFound)
	}
	return user, nil
}

// FindByEmail looks up an account by email, the canonical login key.
func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	_, span := s.tracer.Start(ctx, "users.find_by_email")
	defer span.End()

	user, ok := s.store.ByEmail(email)
	if !ok {
		return nil, fmt.Errorf("email %q: %w", email, liberr.ErrNotFound)
	}
	return user, nil
}
