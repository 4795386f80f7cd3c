package ports

import (
	"context"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

// PackageIndex is the package repository queried during dependency
// resolution. Versions returns every published version of a package,
// unsorted; an unknown package is an error.
type PackageIndex interface {
	Versions(ctx context.Context, name string) ([]string, error)
}

// Resolver pins every requirement of a manifest to a concrete version.
// Resolution is all-or-nothing: one unsatisfiable requirement, or an
// unreachable index, fails the whole manifest with domain.ErrUnresolvable.
type Resolver interface {
	Resolve(ctx context.Context, m domain.Manifest) (domain.Lock, error)
}
