// internal/snapshot/snapshot_test.go
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"shelfs/internal/catalog"
	"shelfs/internal/circulation"
	"shelfs/internal/users"
)

type stores struct {
	users   *users.Store
	catalog *catalog.Store
	loans   *circulation.Store
}

func newStores() stores {
	return stores{
		users:   users.NewStore(),
		catalog: catalog.NewStore(),
		loans:   circulation.NewStore(),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newStores()

	admin := &users.User{ID: "u1", Username: "admin", Email: "admin@example.com", Password: "pw", Role: users.RoleAdministrator}
	john := &users.User{ID: "u2", Username: "john", Email: "john@example.com", Password: `p"w\2`, Role: users.RoleMember}
	require.NoError(t, src.users.Insert(admin))
	require.NoError(t, src.users.Insert(john))

	def := &catalog.BookDefinition{ID: "d1", Title: `X "quoted" \title`, Author: "Someone", ISBN: "111", Publisher: "Acme"}
	require.NoError(t, src.catalog.InsertDefinition(def))

	acquired := time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)
	borrowed := &catalog.BookCopy{ID: "c1", Barcode: "BC-000000000001", DefinitionID: "d1", Status: catalog.StatusBorrowed, AcquiredAt: acquired}
	available := &catalog.BookCopy{ID: "c2", Barcode: "BC-000000000002", DefinitionID: "d1", Status: catalog.StatusAvailable, AcquiredAt: acquired}
	require.NoError(t, src.catalog.InsertCopy(borrowed))
	require.NoError(t, src.catalog.InsertCopy(available))

	issued := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	loan := &circulation.Loan{ID: "l1", UserID: "u2", CopyID: "c1", CreatedAt: issued, DueDate: issued.Add(14 * 24 * time.Hour)}
	require.NoError(t, src.loans.Insert(loan))

	dir := t.TempDir()
	p := NewPersistence(dir, zap.NewNop())
	require.NoError(t, p.Save(src.users, src.catalog, src.loans))
	require.True(t, p.Exists())

	dst := newStores()
	require.NoError(t, p.Load(dst.users, dst.catalog, dst.loans))

	assert.Equal(t, src.users.All(), dst.users.All())
	assert.Equal(t, src.catalog.Definitions(), dst.catalog.Definitions())
	assert.Equal(t, src.catalog.Copies(), dst.catalog.Copies())
	assert.Equal(t, src.loans.All(), dst.loans.All())
}

func TestLoadMissingArtifactsLeavesStoresEmpty(t *testing.T) {
	p := NewPersistence(t.TempDir(), zap.NewNop())
	assert.False(t, p.Exists())

	dst := newStores()
	require.NoError(t, p.Load(dst.users, dst.catalog, dst.loans))
	assert.Zero(t, dst.users.Len())
	assert.Empty(t, dst.catalog.Definitions())
	assert.Zero(t, dst.loans.Len())
}

func TestSaveFailsOnUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	p := NewPersistence(filepath.Join(blocked, "data"), zap.NewNop())
	src := newStores()
	assert.Error(t, p.Save(src.users, src.catalog, src.loans))
}

// Any state, including strings with embedded quotes, backslashes and control
// characters, must survive a save/load cycle unchanged.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := newStores()

		roles := []users.Role{users.RoleMember, users.RoleAdministrator}
		userCount := rapid.IntRange(0, 8).Draw(rt, "userCount")
		for i := 0; i < userCount; i++ {
			u := &users.User{
				ID:       fmt.Sprintf("u%d", i),
				Username: fmt.Sprintf("%d|%s", i, rapid.String().Draw(rt, "username")),
				Email:    fmt.Sprintf("%d@%s", i, rapid.String().Draw(rt, "email")),
				Password: rapid.String().Draw(rt, "password"),
				Role:     rapid.SampledFrom(roles).Draw(rt, "role"),
			}
			if err := src.users.Insert(u); err != nil {
				rt.Fatalf("insert user: %v", err)
			}
		}

		defCount := rapid.IntRange(0, 4).Draw(rt, "defCount")
		for i := 0; i < defCount; i++ {
			d := &catalog.BookDefinition{
				ID:        fmt.Sprintf("d%d", i),
				Title:     rapid.String().Draw(rt, "title"),
				Author:    rapid.String().Draw(rt, "author"),
				ISBN:      fmt.Sprintf("isbn-%d", i),
				Publisher: rapid.String().Draw(rt, "publisher"),
			}
			if err := src.catalog.InsertDefinition(d); err != nil {
				rt.Fatalf("insert definition: %v", err)
			}

			copies := rapid.IntRange(0, 3).Draw(rt, "copies")
			for j := 0; j < copies; j++ {
				sec := rapid.Int64Range(0, 4_000_000_000).Draw(rt, "acquiredSec")
				c := &catalog.BookCopy{
					ID:           fmt.Sprintf("c%d-%d", i, j),
					Barcode:      fmt.Sprintf("BC-%04d%04d", i, j),
					DefinitionID: d.ID,
					Status:       rapid.SampledFrom([]catalog.CopyStatus{catalog.StatusAvailable, catalog.StatusBorrowed}).Draw(rt, "status"),
					AcquiredAt:   time.Unix(sec, 0).UTC(),
				}
				if err := src.catalog.InsertCopy(c); err != nil {
					rt.Fatalf("insert copy: %v", err)
				}
			}
		}

		tmp, err := os.MkdirTemp("", "snapshot")
		if err != nil {
			rt.Fatalf("tempdir: %v", err)
		}
		defer os.RemoveAll(tmp)

		p := NewPersistence(tmp, zap.NewNop())
		if err := p.Save(src.users, src.catalog, src.loans); err != nil {
			rt.Fatalf("save: %v", err)
		}

		dst := newStores()
		if err := p.Load(dst.users, dst.catalog, dst.loans); err != nil {
			rt.Fatalf("load: %v", err)
		}

		assert.Equal(rt, src.users.All(), dst.users.All())
		assert.Equal(rt, src.catalog.Definitions(), dst.catalog.Definitions())
		assert.Equal(rt, src.catalog.Copies(), dst.catalog.Copies())
	})
}
