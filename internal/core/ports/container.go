package ports

import (
	"context"
	"iter"

	"github.com/melih/grf/internal/core/domain"
)

// ContainerRuntime is the container runtime boundary. Implementations keep
// no state between calls.
//
// Streaming methods return the request error directly. Errors yielded by the
// sequence concern a single message or chunk. A sequence holds the underlying
// connection until iteration finishes, so callers must range over it.
type ContainerRuntime interface {
	// ListContainers returns the running containers in runtime order.
	ListContainers(ctx context.Context) ([]domain.Container, error)

	// ImageTags returns the repository tags of a locally known image.
	ImageTags(ctx context.Context, image string) ([]string, error)

	PullImage(ctx context.Context, ref string) (iter.Seq2[domain.PullEvent, error], error)

	// CreateContainer creates, but does not start, a container.
	CreateContainer(ctx context.Context, req domain.CreateRequest) (string, error)

	// CopyFile writes content as dir/name inside the container.
	CopyFile(ctx context.Context, containerID, dir, name string, content []byte) error

	StartContainer(ctx context.Context, containerID string) error
	KillContainer(ctx context.Context, containerID string) error

	// Exec runs cmd inside the container and streams its output.
	Exec(ctx context.Context, containerID string, cmd []string) (domain.ExecSession, error)

	// ExecExitCode returns the exit code of a finished exec.
	ExecExitCode(ctx context.Context, execID string) (int, error)

	// ContainerLogs streams combined stdout and stderr. With follow set the
	// sequence stays open while the container runs.
	ContainerLogs(ctx context.Context, containerID string, follow bool) (iter.Seq2[domain.Chunk, error], error)
}
