package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	specs "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/core/ports"
)

// dockerClient is the subset of the Docker API the adapter uses.
type dockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ImageInspect(ctx context.Context, imageID string, inspectOpts ...client.ImageInspectOption) (image.InspectResponse, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error)
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options container.CopyToContainerOptions) error
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	Close() error
}

// Adapter implements ports.ContainerRuntime using the Docker SDK.
type Adapter struct {
	cli    dockerClient
	logger *slog.Logger
}

// NewAdapter creates a Docker adapter configured from the environment
// (DOCKER_HOST and friends).
func NewAdapter(logger *slog.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{cli: cli, logger: logger}, nil
}

// Close closes the Docker client.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// ListContainers returns the running containers.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]domain.Container, 0, len(containers))
	for _, c := range containers {
		// Use the first name if available, remove slash
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}

		result = append(result, domain.Container{
			ID:       c.ID,
			Name:     name,
			Image:    c.Image,
			Status:   c.Status,
			State:    c.State,
			HostPort: publishedUIPort(c.Ports),
		})
	}
	return result, nil
}

func publishedUIPort(ports []container.Port) uint16 {
	for _, p := range ports {
		if p.PrivatePort == domain.UIPort && p.PublicPort != 0 {
			return p.PublicPort
		}
	}
	return 0
}

// ImageTags returns the repository tags of a local image.
func (a *Adapter) ImageTags(ctx context.Context, ref string) ([]string, error) {
	info, err := a.cli.ImageInspect(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect image %s: %w", ref, err)
	}
	return info.RepoTags, nil
}

// PullImage starts pulling ref and streams the daemon's progress messages.
func (a *Adapter) PullImage(ctx context.Context, ref string) (iter.Seq2[domain.PullEvent, error], error) {
	a.logger.Debug("pulling image", "image", ref)

	reader, err := a.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to pull image: %w", err)
	}
	return closing(func() { _ = reader.Close() }, pullEvents(reader)), nil
}

// CreateContainer creates a container without starting it.
func (a *Adapter) CreateContainer(ctx context.Context, req domain.CreateRequest) (string, error) {
	uiPort := tcpPort(req.Ports.UIPort)
	diagPort := tcpPort(req.Ports.DiagnosticPort)

	containerConfig := &container.Config{
		Image:      req.Image,
		Env:        req.Env,
		User:       req.User,
		Entrypoint: req.Entrypoint,
		Cmd:        req.Cmd,
		ExposedPorts: nat.PortSet{
			uiPort:   struct{}{},
			diagPort: struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		Binds:      req.Binds,
		ExtraHosts: req.ExtraHosts,
		PortBindings: nat.PortMap{
			uiPort:   []nat.PortBinding{{HostPort: fmt.Sprintf("%d", req.Ports.HostPort)}},
			diagPort: []nat.PortBinding{{HostPort: fmt.Sprintf("%d", req.Ports.DiagnosticPort)}},
		},
	}

	resp, err := a.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	for _, w := range resp.Warnings {
		a.logger.Warn("container create warning", "containerID", domain.ShortID(resp.ID), "warning", w)
	}

	a.logger.Debug("container created", "containerID", domain.ShortID(resp.ID), "image", req.Image)
	return resp.ID, nil
}

func tcpPort(p uint16) nat.Port {
	return nat.Port(fmt.Sprintf("%d/tcp", p))
}

// CopyFile writes content to dir/name inside the container.
func (a *Adapter) CopyFile(ctx context.Context, containerID, dir, name string, content []byte) error {
	archive, err := tarFile(name, content)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", name, err)
	}

	if err := a.cli.CopyToContainer(ctx, containerID, dir, archive, container.CopyToContainerOptions{}); err != nil {
		return fmt.Errorf("failed to copy %s to container: %w", path.Join(dir, name), err)
	}
	return nil
}

// tarFile wraps a single file in the tar archive CopyToContainer expects.
func tarFile(name string, content []byte) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(content)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return nil, fmt.Errorf("writing tar header: %w", err)
	}
	if _, err := tw.Write(content); err != nil {
		return nil, fmt.Errorf("writing tar content: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}
	return &buf, nil
}

// StartContainer starts a created container.
func (a *Adapter) StartContainer(ctx context.Context, containerID string) error {
	if err := a.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	a.logger.Debug("container started", "containerID", domain.ShortID(containerID))
	return nil
}

// KillContainer sends SIGKILL to a container.
func (a *Adapter) KillContainer(ctx context.Context, containerID string) error {
	if err := a.cli.ContainerKill(ctx, containerID, "KILL"); err != nil {
		return fmt.Errorf("failed to kill container: %w", err)
	}
	return nil
}

// Exec runs cmd in a running container and streams its multiplexed output.
func (a *Adapter) Exec(ctx context.Context, containerID string, cmd []string) (domain.ExecSession, error) {
	created, err := a.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return domain.ExecSession{}, fmt.Errorf("failed to create exec: %w", err)
	}

	resp, err := a.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return domain.ExecSession{}, fmt.Errorf("failed to attach to exec %s: %w", domain.ShortID(created.ID), err)
	}
	return domain.ExecSession{
		ID:     created.ID,
		Output: closing(resp.Close, demux(resp.Reader)),
	}, nil
}

// ExecExitCode returns the exit code of an exec whose output has been read.
func (a *Adapter) ExecExitCode(ctx context.Context, execID string) (int, error) {
	inspect, err := a.cli.ContainerExecInspect(ctx, execID)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect exec %s: %w", domain.ShortID(execID), err)
	}
	if inspect.Running {
		return 0, fmt.Errorf("exec %s is still running", domain.ShortID(execID))
	}
	return inspect.ExitCode, nil
}

// ContainerLogs streams a container's stdout and stderr.
func (a *Adapter) ContainerLogs(ctx context.Context, containerID string, follow bool) (iter.Seq2[domain.Chunk, error], error) {
	reader, err := a.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get container logs: %w", err)
	}
	return closing(func() { _ = reader.Close() }, demux(reader)), nil
}

// Ensure Adapter implements ContainerRuntime.
var _ ports.ContainerRuntime = (*Adapter)(nil)
