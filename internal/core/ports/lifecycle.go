package ports

import (
	"context"
	"io"

	"github.com/melih/grf/internal/core/domain"
)

// LifecycleService defines the Grafana container operations exposed to
// front ends (CLI, HTTP).
type LifecycleService interface {
	Start(ctx context.Context, opts domain.StartOptions) (*domain.StartResult, error)
	Stop(ctx context.Context, edition domain.Edition, version string) error
	FindContainers(ctx context.Context, match domain.Match) ([]domain.Container, error)
	ReloadPlugins(ctx context.Context) error
	ListEnterpriseTags(ctx context.Context) ([]string, error)
	ContainerLogs(ctx context.Context, containerID string, follow bool, stdout, stderr io.Writer) error
}
