// Package manifest parses dependency manifests and resolves them against a
// package index into concrete version pins.
//
// The manifest format is the requirements style of the hosted applications:
// one requirement per line, a package name followed by an optional
// comma-separated list of version clauses (==, !=, >=, <=, >, <, ~=).
// Blank lines and # comments are ignored.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

var (
	nameRe   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)
	clauseRe = regexp.MustCompile(`^(==|!=|>=|<=|~=|>|<)\s*([A-Za-z0-9.*+!-]+)$`)
)

// Parse reads a manifest from r. Requirement order is preserved. Duplicate
// names, malformed clauses, and unknown operators are rejected: a manifest
// that does not parse must never reach resolution.
func Parse(r io.Reader) (domain.Manifest, error) {
	var m domain.Manifest
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			return domain.Manifest{}, fmt.Errorf("manifest line %d: %w", lineno, err)
		}
		key := strings.ToLower(req.Name)
		if seen[key] {
			return domain.Manifest{}, fmt.Errorf("manifest line %d: duplicate requirement %q", lineno, req.Name)
		}
		seen[key] = true
		m.Requirements = append(m.Requirements, req)
	}
	if err := sc.Err(); err != nil {
		return domain.Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	// A manifest with no requirements is valid: the installer accepts an
	// empty file, and the build proceeds with a zero-pin lock.
	return m, nil
}

func parseLine(line string) (domain.Requirement, error) {
	name := nameRe.FindString(line)
	if name == "" {
		return domain.Requirement{}, fmt.Errorf("invalid requirement %q", line)
	}

	rest := strings.TrimSpace(line[len(name):])
	if rest == "" {
		return domain.Requirement{Name: name}, nil
	}

	// Validate every clause now so resolution only sees well-formed input.
	for _, clause := range strings.Split(rest, ",") {
		if !clauseRe.MatchString(strings.TrimSpace(clause)) {
			return domain.Requirement{}, fmt.Errorf("invalid version clause %q for %q", strings.TrimSpace(clause), name)
		}
	}
	return domain.Requirement{Name: name, Constraint: rest}, nil
}
