// Package migrations locates the embedded report ledger schema for each
// supported SQL dialect.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	quantcast "github.com/JonathanRiche/go-quantcast"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const migrationsPath = "data/sql/migrations"

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type RegisterFunc func(ctx context.Context, dialect string, fsys fs.FS) error

// Filesystems returns the postgres tree and its sqlite sibling. root
// defaults to the embedded schema.
func Filesystems(root fs.FS) ([]FilesystemSpec, error) {
	if root == nil {
		root = quantcast.GetMigrationsFS()
	}
	base, err := fs.Sub(root, migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", migrationsPath, err)
	}
	sqliteFS, err := fs.Sub(base, DialectSQLite)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: migrationsPath, FS: base},
		{Dialect: DialectSQLite, Path: migrationsPath + "/" + DialectSQLite, FS: sqliteFS},
	}
	for _, spec := range filesystems {
		matches, err := fs.Glob(spec.FS, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: glob %s: %w", spec.Path, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", spec.Dialect, spec.Path)
		}
	}
	return filesystems, nil
}

// Register hands the filesystem of every dialect in targets to registerFn.
func Register(ctx context.Context, registerFn RegisterFunc, targets ...string) error {
	if registerFn == nil {
		return fmt.Errorf("migrations: register function is required")
	}
	normalized := make([]string, 0, len(targets))
	for _, target := range targets {
		target = strings.ToLower(strings.TrimSpace(target))
		if target != "" && !slices.Contains(normalized, target) {
			normalized = append(normalized, target)
		}
	}
	if len(normalized) == 0 {
		return fmt.Errorf("migrations: at least one dialect is required")
	}

	filesystems, err := Filesystems(nil)
	if err != nil {
		return err
	}
	for _, spec := range filesystems {
		if !slices.Contains(normalized, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, spec.FS); err != nil {
			return fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return nil
}
