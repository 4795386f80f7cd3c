package builder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Patterns excluded from every build context, on top of the tree's own
// .dockerignore / .gitignore.
var defaultIgnores = []string{
	".git/",
	".DS_Store",
	"__pycache__/",
	"*.pyc",
	".venv/",
	"venv/",
	"node_modules/",
	"*.log",
}

// stageSource copies the tree at src into dst, skipping ignored paths, and
// returns a digest over the relative paths and contents of every staged
// file. The digest is stable across rebuilds of an unchanged tree, which is
// what makes rebuilds behaviorally identical.
func stageSource(src, dst string) (string, error) {
	matcher := loadIgnoreMatcher(src)

	var staged []string
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if matcher.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		if matcher.MatchesPath(rel) || !info.Mode().IsRegular() {
			return nil
		}
		if err := copyFile(path, filepath.Join(dst, rel), info.Mode()); err != nil {
			return err
		}
		staged = append(staged, rel)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("staging source tree: %w", err)
	}
	if len(staged) == 0 {
		return "", fmt.Errorf("source tree %s is empty after staging", src)
	}

	digest, err := digestFiles(dst, staged)
	if err != nil {
		return "", err
	}
	return digest, nil
}

func loadIgnoreMatcher(src string) *ignore.GitIgnore {
	patterns := append([]string{}, defaultIgnores...)
	for _, name := range []string{".dockerignore", ".gitignore"} {
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			continue
		}
		patterns = append(patterns, strings.Split(string(data), "\n")...)
	}
	return ignore.CompileIgnoreLines(patterns...)
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// digestFiles hashes path names and contents in sorted order so the result
// does not depend on walk order.
func digestFiles(root string, rels []string) (string, error) {
	sort.Strings(rels)
	h := sha256.New()
	for _, rel := range rels {
		io.WriteString(h, rel)
		h.Write([]byte{0})
		f, err := os.Open(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", err
		}
		f.Close()
		h.Write([]byte{0})
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
