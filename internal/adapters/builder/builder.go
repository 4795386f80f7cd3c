// Package builder implements image preparation: staging a source tree,
// resolving its dependency manifest, and baking both into an immutable
// container image via the Docker daemon.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	git "github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/ports"
	"github.com/pharoslabs/pharos/internal/manifest"
)

// Adapter implements ports.BuilderService on the Docker daemon.
type Adapter struct {
	cli      *client.Client
	cfg      *config.Config
	resolver ports.Resolver
	log      *slog.Logger

	mu     sync.Mutex
	images []domain.Image
}

var _ ports.BuilderService = (*Adapter)(nil)

func NewAdapter(cfg *config.Config, resolver ports.Resolver, log *slog.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, cfg: cfg, resolver: resolver, log: log}, nil
}

// PrepareImage runs the build half of the bootstrap: stage sources, resolve
// the manifest, generate the build recipe, build the image. The steps are
// strictly ordered and all-or-nothing; a failure at any point produces no
// image record.
func (a *Adapter) PrepareImage(ctx context.Context, req ports.BuildRequest) (domain.Image, error) {
	if (req.SourceDir == "") == (req.RepoURL == "") {
		return domain.Image{}, fmt.Errorf("exactly one of source_dir or repo_url must be set")
	}
	if req.Tag == "" {
		return domain.Image{}, fmt.Errorf("image tag must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Builder.BuildTimeout)
	defer cancel()

	contextDir, err := os.MkdirTemp("", "pharos-build-*")
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to create build context dir: %w", err)
	}
	defer os.RemoveAll(contextDir)

	digest, err := a.stage(ctx, req, contextDir)
	if err != nil {
		return domain.Image{}, err
	}

	lock, err := a.resolveManifest(ctx, contextDir)
	if err != nil {
		return domain.Image{}, err
	}

	if err := a.writeRecipe(contextDir, lock); err != nil {
		return domain.Image{}, err
	}

	if err := a.buildImage(ctx, contextDir, req.Tag); err != nil {
		return domain.Image{}, err
	}

	img := domain.Image{
		ID:           uuid.NewString(),
		Tag:          req.Tag,
		SourceDigest: digest,
		Lock:         lock,
		BuiltAt:      time.Now().UTC(),
	}
	a.mu.Lock()
	a.images = append(a.images, img)
	a.mu.Unlock()

	a.log.Info("image prepared", "tag", img.Tag, "digest", img.SourceDigest, "pins", len(lock.Pins))
	return img, nil
}

// Images lists every image built by this adapter, newest last.
func (a *Adapter) Images() []domain.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Image, len(a.images))
	copy(out, a.images)
	return out
}

func (a *Adapter) stage(ctx context.Context, req ports.BuildRequest, contextDir string) (string, error) {
	src := req.SourceDir
	if req.RepoURL != "" {
		cloneDir, err := os.MkdirTemp("", "pharos-clone-*")
		if err != nil {
			return "", fmt.Errorf("failed to create clone dir: %w", err)
		}
		defer os.RemoveAll(cloneDir)

		a.log.Info("cloning repository", "url", req.RepoURL)
		_, err = git.PlainCloneContext(ctx, cloneDir, false, &git.CloneOptions{
			URL:   req.RepoURL,
			Depth: 1,
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone repo: %w", err)
		}
		src = cloneDir
	}
	return stageSource(src, contextDir)
}

// resolveManifest parses the manifest staged into the context and pins it.
// A missing manifest is a build failure: the dependency set cannot be
// derived without it.
func (a *Adapter) resolveManifest(ctx context.Context, contextDir string) (domain.Lock, error) {
	path := filepath.Join(contextDir, a.cfg.Builder.ManifestName)
	f, err := os.Open(path)
	if err != nil {
		return domain.Lock{}, fmt.Errorf("dependency manifest %s not found in source tree: %w", a.cfg.Builder.ManifestName, err)
	}
	defer f.Close()

	m, err := manifest.Parse(f)
	if err != nil {
		return domain.Lock{}, err
	}
	return a.resolver.Resolve(ctx, m)
}

func (a *Adapter) writeRecipe(contextDir string, lock domain.Lock) error {
	dockerfile, err := renderDockerfile(a.cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(contextDir, "Dockerfile"), []byte(dockerfile), 0o644); err != nil {
		return fmt.Errorf("writing dockerfile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, lockFileName), []byte(manifest.PinnedRequirements(lock)), 0o644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}

func (a *Adapter) buildImage(ctx context.Context, contextDir, tag string) error {
	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}

	a.log.Info("building image", "tag", tag)
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	return drainBuildOutput(resp.Body)
}

// drainBuildOutput consumes the daemon's JSON build stream. The daemon
// reports step failures (e.g. the installer rejecting a pin) inside the
// stream with a 200 response, so the stream must be scanned, not discarded.
func drainBuildOutput(r io.Reader) error {
	dec := json.NewDecoder(r)
	for {
		var msg struct {
			Stream      string `json:"stream"`
			Error       string `json:"error"`
			ErrorDetail struct {
				Message string `json:"message"`
			} `json:"errorDetail"`
		}
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading build output: %w", err)
		}
		if msg.Error != "" {
			detail := msg.ErrorDetail.Message
			if detail == "" {
				detail = msg.Error
			}
			return fmt.Errorf("image build failed: %s", detail)
		}
	}
}
