package manifest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/ports"
)

// Resolver pins manifests against a package index. It picks, for each
// requirement independently, the highest published version satisfying every
// clause. Resolution is all-or-nothing and never consults a cache: if the
// index cannot be reached the build fails rather than reusing stale data.
type Resolver struct {
	index ports.PackageIndex
}

var _ ports.Resolver = (*Resolver)(nil)

func NewResolver(index ports.PackageIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve pins every requirement of m, preserving manifest order. Any
// failure wraps domain.ErrUnresolvable.
func (r *Resolver) Resolve(ctx context.Context, m domain.Manifest) (domain.Lock, error) {
	var lock domain.Lock
	for _, req := range m.Requirements {
		pin, err := r.resolveOne(ctx, req)
		if err != nil {
			return domain.Lock{}, fmt.Errorf("%w: %s", domain.ErrUnresolvable, err)
		}
		lock.Pins = append(lock.Pins, pin)
	}
	return lock, nil
}

func (r *Resolver) resolveOne(ctx context.Context, req domain.Requirement) (domain.Pin, error) {
	versions, err := r.index.Versions(ctx, req.Name)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("querying index for %q: %v", req.Name, err)
	}

	constraint, err := toConstraint(req.Constraint)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("constraint for %q: %v", req.Name, err)
	}

	var best *semver.Version
	var bestRaw string
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			// Non-semver release strings exist in real indexes; skip them.
			continue
		}
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	if best == nil {
		return domain.Pin{}, fmt.Errorf("no published version of %q satisfies %q", req.Name, req.Constraint)
	}
	return domain.Pin{Name: req.Name, Version: bestRaw}, nil
}

// toConstraint translates a manifest constraint expression into a semver
// constraint. The operators map one-to-one except compatible release (~=),
// which pins the release series: ~=1.4 allows 1.x >= 1.4, ~=1.4.2 allows
// 1.4.x >= 1.4.2.
func toConstraint(expr string) (*semver.Constraints, error) {
	if strings.TrimSpace(expr) == "" {
		return semver.NewConstraint("*")
	}

	clauses := strings.Split(expr, ",")
	out := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "=="):
			out = append(out, "="+strings.TrimSpace(clause[2:]))
		case strings.HasPrefix(clause, "~="):
			ver := strings.TrimSpace(clause[2:])
			if strings.Count(ver, ".") >= 2 {
				out = append(out, "~"+ver)
			} else {
				// ~=X.Y means >=X.Y and ==X.* for any major, 0 included.
				// Semver shorthands don't express that for 0.x (^0.27 caps
				// at the next minor), so spell the range out.
				upper, err := nextMajor(ver)
				if err != nil {
					return nil, err
				}
				out = append(out, ">="+ver, "<"+upper)
			}
		default:
			out = append(out, clause)
		}
	}
	return semver.NewConstraint(strings.Join(out, ", "))
}

func nextMajor(ver string) (string, error) {
	major, _, _ := strings.Cut(ver, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return "", fmt.Errorf("invalid version %q in compatible release clause", ver)
	}
	return fmt.Sprintf("%d.0.0", n+1), nil
}
