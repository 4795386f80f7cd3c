// Package docker implements the run half of the bootstrap on the Docker
// daemon: one container, one server process, the fixed application port
// published on all interfaces.
package docker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/lifecycle"
	"github.com/pharoslabs/pharos/internal/core/ports"
)

const stopTimeout = 10 * time.Second

// Adapter implements ports.ContainerService using the Docker SDK.
type Adapter struct {
	cli      *client.Client
	cfg      *config.Config
	log      *slog.Logger
	machines *machineSet
}

var _ ports.ContainerService = (*Adapter)(nil)

func NewAdapter(cfg *config.Config, log *slog.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, cfg: cfg, log: log, machines: newMachineSet()}, nil
}

// Launch creates and starts exactly one container from image, publishing the
// application port on the host, then waits for the port to come up. There is
// no retry at any step: a port conflict, an exit before bind, or a bind
// window expiry each terminate the launch.
func (a *Adapter) Launch(ctx context.Context, image string, name string) (domain.Container, error) {
	port := nat.Port(fmt.Sprintf("%d/tcp", a.cfg.App.Port))
	machine := lifecycle.New()

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image:        image,
		ExposedPorts: nat.PortSet{port: struct{}{}},
	}, &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{
				HostIP:   a.cfg.App.BindAddr,
				HostPort: strconv.Itoa(a.cfg.App.Port),
			}},
		},
	}, nil, nil, name)
	if err != nil {
		return domain.Container{}, fmt.Errorf("failed to create container: %w", err)
	}
	a.machines.track(resp.ID, machine)

	if err := machine.To(domain.PhaseStarting); err != nil {
		return domain.Container{}, err
	}
	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		a.machines.finish(resp.ID)
		return domain.Container{}, classifyStartError(err)
	}
	a.log.Info("container starting", "id", shortID(resp.ID), "image", image)

	if err := a.awaitBound(ctx, resp.ID, machine); err != nil {
		a.machines.finish(resp.ID)
		// Leave nothing half-launched: a failed bind means a stopped container.
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = a.cli.ContainerStop(stopCtx, resp.ID, container.StopOptions{})
		return domain.Container{}, err
	}

	// Bound persists as Running until external termination.
	if err := machine.To(domain.PhaseRunning); err != nil {
		return domain.Container{}, err
	}
	a.log.Info("container running", "id", shortID(resp.ID), "port", a.cfg.App.Port)

	return a.Inspect(ctx, resp.ID)
}

// awaitBound polls the published port until it accepts a connection, the
// container exits, or the startup window closes.
func (a *Adapter) awaitBound(ctx context.Context, id string, machine *lifecycle.Machine) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.App.StartTimeout)
	defer cancel()

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.App.Port)
	for {
		if portOpen(addr) {
			return machine.To(domain.PhaseBound)
		}

		info, err := a.cli.ContainerInspect(ctx, id)
		if err != nil {
			return fmt.Errorf("inspecting container during startup: %w", err)
		}
		if info.State != nil && !info.State.Running {
			return fmt.Errorf("%w: process exited with code %d before binding port %d",
				domain.ErrEntryPoint, info.State.ExitCode, a.cfg.App.Port)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("port %d not bound within %s", a.cfg.App.Port, a.cfg.App.StartTimeout)
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// Stop terminates a container. Termination is the only cancellation
// mechanism; there is no graceful-shutdown protocol beyond the stop grace.
func (a *Adapter) Stop(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	a.machines.finish(id)
	return nil
}

// List returns every container known to the daemon, running or not.
func (a *Adapter) List(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var result []domain.Container
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, domain.Container{
			ID:     shortID(c.ID),
			Name:   name,
			Image:  c.Image,
			Status: c.Status,
			State:  c.State,
			Phase:  a.machines.phaseOf(c.ID, c.State),
			Port:   a.cfg.App.Port,
		})
	}
	return result, nil
}

// Inspect returns the current view of one container.
func (a *Adapter) Inspect(ctx context.Context, id string) (domain.Container, error) {
	info, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return domain.Container{}, fmt.Errorf("failed to inspect container: %w", err)
	}

	out := domain.Container{
		ID:   shortID(info.ID),
		Name: strings.TrimPrefix(info.Name, "/"),
		Port: a.cfg.App.Port,
	}
	if info.Config != nil {
		out.Image = info.Config.Image
	}
	if info.State != nil {
		out.State = info.State.Status
		if started, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil {
			out.StartedAt = started
		}
	}
	out.Phase = a.machines.phaseOf(info.ID, out.State)
	if info.NetworkSettings != nil {
		out.IPAddress = info.NetworkSettings.IPAddress
		for _, netw := range info.NetworkSettings.Networks {
			if netw.IPAddress != "" {
				out.IPAddress = netw.IPAddress
				break
			}
		}
	}
	return out, nil
}

// Logs streams the container's stderr/stdout.
func (a *Adapter) Logs(ctx context.Context, id string) (io.ReadCloser, error) {
	return a.cli.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
	})
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
