// internal/users/implementation_test.go
package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelfs/internal/liberr"
)

func setupService(t testing.TB) Service {
	t.Helper()
	return NewService(NewStore(), zap.NewNop())
}

func TestRegisterAndGet(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "john", "john@example.com", "pw2", RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, RoleMember, user.Role)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, liberr.ErrNotFound)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "john", "other@example.com", "pw", RoleMember)
	assert.ErrorIs(t, err, liberr.ErrDuplicateKey)

	_, err = svc.Register(ctx, "other", "john@example.com", "pw", RoleMember)
	assert.ErrorIs(t, err, liberr.ErrDuplicateKey)

	// Email uniqueness is case-insensitive.
	_, err = svc.Register(ctx, "other", "JOHN@example.com", "pw", RoleMember)
	assert.ErrorIs(t, err, liberr.ErrDuplicateKey)
}

func TestUpdateOverwritesInPlace(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, user.ID, "johnny", "johnny@example.com", "newpw"))

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny", got.Username)
	assert.Equal(t, "johnny@example.com", got.Email)
	assert.Equal(t, "newpw", got.Password)
	assert.Equal(t, RoleMember, got.Role)

	assert.ErrorIs(t, svc.Update(ctx, "missing", "a", "a@example.com", "pw"), liberr.ErrNotFound)
}

func TestUpdateKeepsUniqueness(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)
	anna, err := svc.Register(ctx, "anna", "anna@example.com", "pw", RoleMember)
	require.NoError(t, err)

	err = svc.Update(ctx, anna.ID, "john", "anna@example.com", "pw")
	assert.ErrorIs(t, err, liberr.ErrDuplicateKey)

	// Re-submitting your own values is not a collision.
	assert.NoError(t, svc.Update(ctx, anna.ID, "anna", "anna@example.com", "pw"))
}

func TestUpgradeToAdministrator(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	member, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)

	assert.True(t, svc.UpgradeToAdministrator(ctx, member.ID))

	got, err := svc.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdministrator, got.Role)
	assert.Equal(t, member.ID, got.ID, "upgrade must preserve the identifier")

	// Already an administrator: no-op signalled as false.
	assert.False(t, svc.UpgradeToAdministrator(ctx, member.ID))
	assert.False(t, svc.UpgradeToAdministrator(ctx, "missing"))
}

func TestRemove(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, user.ID))
	_, err = svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, liberr.ErrNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, user.ID), liberr.ErrNotFound)
}

func TestFindByUsernameAndEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "john", "john@example.com", "pw", RoleMember)
	require.NoError(t, err)

	byName, err := svc.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := svc.FindByEmail(ctx, "John@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = svc.FindByUsername(ctx, "JOHN")
	assert.ErrorIs(t, err, liberr.ErrNotFound, "username lookups are exact-match")
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Register(ctx, name, name+"@example.com", "pw", RoleMember)
		require.NoError(t, err)
	}

	all := svc.List(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Username)
	assert.Equal(t, "c", all[2].Username)
}
