package ports

import (
	"context"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

// BuildRequest describes one image preparation. Exactly one of SourceDir or
// RepoURL must be set: a local source tree, or a git repository to clone.
type BuildRequest struct {
	SourceDir string `json:"source_dir,omitempty"`
	RepoURL   string `json:"repo_url,omitempty"`
	Tag       string `json:"tag"`
}

// BuilderService turns a source tree plus its dependency manifest into an
// immutable container image. Preparation is all-or-nothing: on any failure
// (missing manifest, unresolvable dependency, build error) no image record
// is produced.
type BuilderService interface {
	PrepareImage(ctx context.Context, req BuildRequest) (domain.Image, error)
	// Images lists every image built by this service instance, newest last.
	Images() []domain.Image
}
