// internal/snapshot/snapshot.go

// Package snapshot serializes the full in-memory state to flat JSON files
// and rehydrates it at startup. Three artifacts live in the data directory:
//
//	users.json — accounts
//	books.json — definitions and physical copies
//	loans.json — active loans
//
// Field names and enum spellings are stable across releases so snapshots
// written by one run load in the next. Timestamps are RFC 3339 UTC, which
// sorts lexically. Round-trip fidelity, including embedded quotes and
// backslashes in string fields, is a tested property.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"shelfs/internal/catalog"
	"shelfs/internal/circulation"
	"shelfs/internal/users"
)

const (
	usersFile = "users.json"
	booksFile = "books.json"
	loansFile = "loans.json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// booksArtifact is the on-disk shape of books.json.
type booksArtifact struct {
	Definitions []*catalog.BookDefinition `json:"definitions"`
	Items       []*catalog.BookCopy       `json:"items"`
}

// Persistence saves and loads snapshots in a single directory.
type Persistence struct {
	dir    string
	logger *zap.Logger
}

// NewPersistence creates a Persistence rooted at dir. The directory is
// created on the first save.
func NewPersistence(dir string, logger *zap.Logger) *Persistence {
	return &Persistence{dir: dir, logger: logger}
}

// Save serializes the full contents of all three stores. I/O failures are
// returned as wrapped errors, distinct from the domain error taxonomy.
func (p *Persistence) Save(userStore *users.Store, catalogStore *catalog.Store, loanStore *circulation.Store) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", p.dir, err)
	}

	if err := p.writeFile(usersFile, userStore.All()); err != nil {
		return err
	}

	books := booksArtifact{
		Definitions: catalogStore.Definitions(),
		Items:       catalogStore.Copies(),
	}
	if err := p.writeFile(booksFile, books); err != nil {
		return err
	}

	if err := p.writeFile(loansFile, loanStore.All()); err != nil {
		return err
	}

	p.logger.Info("snapshot saved",
		zap.String("dir", p.dir),
		zap.Int("users", userStore.Len()),
		zap.Int("definitions", len(books.Definitions)),
		zap.Int("copies", len(books.Items)),
		zap.Int("loans", loanStore.Len()),
	)
	return nil
}

func (p *Persistence) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a users artifact is present, which the caller uses
// to decide between loading and seeding defaults.
func (p *Persistence) Exists() bool {
	_, err := os.Stat(filepath.Join(p.dir, usersFile))
	return err == nil
}

// Load rehydrates the stores from disk through their normal insert paths,
// preserving the original identifiers. Order matters: users, then
// definitions, then copies, then loans, because copies reference
// definitions and loans reference users and copies. Missing artifacts leave
// the corresponding stores empty.
func (p *Persistence) Load(userStore *users.Store, catalogStore *catalog.Store, loanStore *circulation.Store) error {
	var accounts []*users.User
	if ok, err := p.readFile(usersFile, &accounts); err != nil {
		return err
	} else if ok {
		for _, u := range accounts {
			if err := userStore.Insert(u); err != nil {
				return fmt.Errorf("failed to restore user %q: %w", u.ID, err)
			}
		}
	}

	var books booksArtifact
	if ok, err := p.readFile(booksFile, &books); err != nil {
		return err
	} else if ok {
		for _, d := range books.Definitions {
			if err := catalogStore.InsertDefinition(d); err != nil {
				return fmt.Errorf("failed to restore definition %q: %w", d.ID, err)
			}
		}
		for _, c := range books.Items {
			if err := catalogStore.InsertCopy(c); err != nil {
				return fmt.Errorf("failed to restore copy %q: %w", c.ID, err)
			}
		}
	}

	var loans []*circulation.Loan
	if ok, err := p.readFile(loansFile, &loans); err != nil {
		return err
	} else if ok {
		for _, l := range loans {
			if err := loanStore.Insert(l); err != nil {
				return fmt.Errorf("failed to restore loan %q: %w", l.ID, err)
			}
		}
	}

	p.logger.Info("snapshot loaded",
		zap.String("dir", p.dir),
		zap.Int("users", userStore.Len()),
		zap.Int("loans", loanStore.Len()),
	)
	return nil
}

// readFile decodes one artifact, reporting ok=false when it does not exist.
func (p *Persistence) readFile(name string, v any) (bool, error) {
	path := filepath.Join(p.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}
