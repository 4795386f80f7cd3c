package ports

import (
	"context"
	"io"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

// ContainerService manages the run half of the bootstrap: launching exactly
// one server process per image instance and supervising its lifecycle.
// The interface allows swapping Docker for Podman or Kubernetes without
// touching the handlers.
type ContainerService interface {
	// Launch creates and starts one container from image, publishes the fixed
	// application port on all interfaces, and waits until the port is bound
	// or the startup window expires. A container that exits before binding is
	// reported as an entry-point failure; a host port conflict as a port
	// failure. Neither is retried.
	Launch(ctx context.Context, image string, name string) (domain.Container, error)
	Stop(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Container, error)
	Inspect(ctx context.Context, id string) (domain.Container, error)
	Logs(ctx context.Context, id string) (io.ReadCloser, error)
}
