// internal/auth/session.go

// Package auth holds the session object and the authorization predicates the
// presentation layer consults before calling service operations. The
// canonical login key is the email address, which is guaranteed unique.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shelfs/internal/liberr"
	"shelfs/internal/users"
)

// Session tracks the currently logged-in account. It is an explicit object
// passed by reference into the presentation loop; there is no package-level
// session state.
type Session struct {
	users       users.Service
	permissions *PermissionRegistry
	limiter     *rate.Limiter
	logger      *zap.Logger

	mu      sync.Mutex
	current *users.User
}

// NewSession creates a session sharing the same user service as the rest of
// the application, so accounts registered anywhere are visible here.
func NewSession(userSvc users.Service, permissions *PermissionRegistry, logger *zap.Logger) *Session {
	return &Session{
		users:       userSvc,
		permissions: permissions,
		limiter:     rate.NewLimiter(rate.Every(time.Second), 8),
		logger:      logger,
	}
}

// Login authenticates by email and plain-text password. It returns false,
// never an error, on unknown email or password mismatch, so callers can show
// one generic invalid-credentials message. Throttled attempts also read as
// failed logins.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return false
	}
	if !s.limiter.Allow() {
		s.logger.Warn("login throttled", zap.String("email", email))
		return false
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false
	}
	if user.Password != password {
		return false
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.logger.Info("login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return true
}

// Logout clears the current user.
func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Signup registers a new Member-role account. Elevation to Administrator
// goes through users.Service.UpgradeToAdministrator only.
func (s *Session) Signup(ctx context.Context, username, email, password string) (*users.User, error) {
	if !s.limiter.Allow() {
		return nil, fmt.Errorf("signup throttled: too many attempts")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %q is already registered: %w", email, liberr.ErrDuplicateKey)
	}

	user, err := s.users.Register(ctx, username, email, password, users.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	return user, nil
}

// CurrentUser returns the logged-in account, if any.
func (s *Session) CurrentUser() (*users.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	clone := *s.current
	return &clone, true
}

// IsAuthenticated reports whether anyone is logged in.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// RequireAuthenticated guards actions that need any logged-in account.
func (s *Session) RequireAuthenticated() bool {
	return s.IsAuthenticated()
}

// RequireAdmin guards admin-only actions.
func (s *Session) RequireAdmin() bool {
	user, ok := s.CurrentUser()
	return ok && user.Role == users.RoleAdministrator
}

// CanViewAllLoans reports whether the current user may list loans across
// all users. Members only ever see their own.
func (s *Session) CanViewAllLoans() bool {
	return s.RequireAdmin()
}

// CanManageUsers reports whether the current user may create, update,
// upgrade or remove accounts.
func (s *Session) CanManageUsers() bool {
	return s.RequireAdmin()
}

// CanManageBooks reports whether the current user may modify the catalog.
func (s *Session) CanManageBooks() bool {
	return s.RequireAdmin()
}

// HasPermission checks a named permission for the current user.
// Administrators hold every permission implicitly.
func (s *Session) HasPermission(name string) bool {
	user, ok := s.CurrentUser()
	if !ok {
		return false
	}
	if user.Role == users.RoleAdministrator {
		return true
	}
	return s.permissions.MemberHolds(name)
}
