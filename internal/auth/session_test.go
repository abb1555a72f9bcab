// internal/auth/session_test.go
package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelfs/internal/liberr"
	"shelfs/internal/users"
)

func setupSession(t testing.TB) (*Session, users.Service) {
	t.Helper()
	userSvc := users.NewService(users.NewStore(), zap.NewNop())
	return NewSession(userSvc, NewPermissionRegistry(), zap.NewNop()), userSvc
}

func TestLoginWrongCredentials(t *testing.T) {
	session, userSvc := setupSession(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "john", "john@example.com", "pw2", users.RoleMember)
	require.NoError(t, err)

	assert.False(t, session.Login(ctx, "john@example.com", "wrong"))
	assert.False(t, session.IsAuthenticated(), "failed login leaves the session unauthenticated")

	assert.False(t, session.Login(ctx, "nobody@example.com", "pw2"))
	assert.False(t, session.Login(ctx, "", ""))
}

func TestLoginSetsCurrentUser(t *testing.T) {
	session, userSvc := setupSession(t)
	ctx := context.Background()

	member, err := userSvc.Register(ctx, "john", "john@example.com", "pw2", users.RoleMember)
	require.NoError(t, err)

	require.True(t, session.Login(ctx, "john@example.com", "pw2"))
	current, ok := session.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, member.ID, current.ID)

	assert.True(t, session.RequireAuthenticated())
	assert.False(t, session.RequireAdmin())
	assert.False(t, session.CanViewAllLoans())

	session.Logout()
	assert.False(t, session.IsAuthenticated())
}

func TestAdminPredicates(t *testing.T) {
	session, userSvc := setupSession(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "admin", "admin@example.com", "pw", users.RoleAdministrator)
	require.NoError(t, err)

	require.True(t, session.Login(ctx, "admin@example.com", "pw"))
	assert.True(t, session.RequireAdmin())
	assert.True(t, session.CanViewAllLoans())
	assert.True(t, session.CanManageUsers())
	assert.True(t, session.CanManageBooks())
}

func TestSignupCreatesMember(t *testing.T) {
	session, userSvc := setupSession(t)
	ctx := context.Background()

	user, err := session.Signup(ctx, "anna", "anna@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, users.RoleMember, user.Role, "signup always creates a Member")

	got, err := userSvc.FindByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	session, _ := setupSession(t)
	ctx := context.Background()

	_, err := session.Signup(ctx, "anna", "anna@example.com", "pw")
	require.NoError(t, err)

	_, err = session.Signup(ctx, "other", "anna@example.com", "pw")
	assert.ErrorIs(t, err, liberr.ErrDuplicateKey)
}

func TestHasPermission(t *testing.T) {
	session, userSvc := setupSession(t)
	ctx := context.Background()

	assert.False(t, session.HasPermission(PermLoanBooks), "no permissions without a session")

	_, err := userSvc.Register(ctx, "john", "john@example.com", "pw", users.RoleMember)
	require.NoError(t, err)
	require.True(t, session.Login(ctx, "john@example.com", "pw"))

	assert.True(t, session.HasPermission(PermLoanBooks))
	assert.True(t, session.HasPermission(PermViewOwnLoans))
	assert.False(t, session.HasPermission("MANAGE_USERS"), "unknown names are denied for members")

	_, err = userSvc.Register(ctx, "admin", "admin@example.com", "pw", users.RoleAdministrator)
	require.NoError(t, err)
	require.True(t, session.Login(ctx, "admin@example.com", "pw"))

	assert.True(t, session.HasPermission("MANAGE_USERS"), "administrators hold everything")
}
