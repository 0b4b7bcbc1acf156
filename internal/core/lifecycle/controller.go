// Package lifecycle drives a single Grafana container through pull, create,
// certificate injection, start, stop, log tailing and plugin reloads.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/core/ports"
)

const (
	certificateDir  = "/usr/local/share/ca-certificates"
	certificateName = "grf.crt"

	// hostGateway lets the container reach services on the host, such as a proxy.
	hostGateway = "host.docker.internal:host-gateway"

	// startupScript refreshes the trust store before handing over to the
	// image's own entrypoint.
	startupScript = "update-ca-certificates && exec /run.sh"
)

// Reporter receives user facing progress.
type Reporter interface {
	Infof(format string, args ...any)
	Progress(evt domain.PullEvent)
	ProgressDone()
}

// Config configures a Controller.
type Config struct {
	Runtime  ports.ContainerRuntime
	Builder  ports.PluginBuilder
	Settings Settings

	// Reporter defaults to discarding output.
	Reporter Reporter

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Stdout and Stderr receive tailed container output. They default to
	// the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// AllocatePort defaults to AllocateEphemeralPort.
	AllocatePort func() (uint16, error)
}

// Controller implements ports.LifecycleService.
type Controller struct {
	runtime      ports.ContainerRuntime
	builder      ports.PluginBuilder
	settings     Settings
	reporter     Reporter
	logger       *slog.Logger
	stdout       io.Writer
	stderr       io.Writer
	allocatePort func() (uint16, error)
}

// New creates a Controller.
func New(cfg Config) *Controller {
	c := &Controller{
		runtime:      cfg.Runtime,
		builder:      cfg.Builder,
		settings:     cfg.Settings,
		reporter:     cfg.Reporter,
		logger:       cfg.Logger,
		stdout:       cfg.Stdout,
		stderr:       cfg.Stderr,
		allocatePort: cfg.AllocatePort,
	}
	if c.reporter == nil {
		c.reporter = nopReporter{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.allocatePort == nil {
		c.allocatePort = AllocateEphemeralPort
	}
	return c
}

// Start pulls, creates, certifies and starts a Grafana container. With
// TailLogs set it then blocks forwarding the container's output until the
// stream ends or ctx is cancelled.
func (c *Controller) Start(ctx context.Context, opts domain.StartOptions) (*domain.StartResult, error) {
	version := opts.Version
	if version == "" {
		version = domain.DefaultVersion
	}
	ref := domain.ResolveImage(opts.Edition, version)

	if err := c.pull(ctx, ref); err != nil {
		return nil, err
	}

	settings := c.settings
	if opts.Proxy != "" {
		settings.Proxy = opts.Proxy
	}
	plan, err := PlanMounts(settings, opts.Edition)
	if err != nil {
		return nil, err
	}

	assignment, err := c.assignPorts(opts.RandomPort)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("creating container",
		"image", ref.String(),
		"hostPort", assignment.HostPort,
		"edition", opts.Edition.String())

	id, err := c.runtime.CreateContainer(ctx, createRequest(ref, plan, assignment))
	if err != nil {
		return nil, fmt.Errorf("%w: creating container from %s: %w", domain.ErrRuntimeOperation, ref, err)
	}

	if err := c.injectCertificate(ctx, id); err != nil {
		return nil, err
	}

	if err := c.runtime.StartContainer(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: starting container %s (%s): %w", domain.ErrRuntimeOperation, domain.ShortID(id), ref, err)
	}

	result := &domain.StartResult{
		ContainerID: id,
		Image:       ref.String(),
		Ports:       assignment,
		URL:         fmt.Sprintf("http://localhost:%d/explore", assignment.HostPort),
	}
	c.reporter.Infof("running at %s", result.URL)

	if opts.TailLogs {
		if err := c.StreamLogs(ctx, id, c.stdout, c.stderr); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Stop kills every container selected by edition and version. An empty
// version selects any Grafana container. Finding nothing is not an error.
// All kills are attempted; failures are joined.
func (c *Controller) Stop(ctx context.Context, edition domain.Edition, version string) error {
	containers, err := c.FindContainers(ctx, domain.MatchFor(edition, version))
	if err != nil {
		return err
	}

	var errs []error
	for _, ctr := range containers {
		c.reporter.Infof("stopping container %s - %s...", ctr.Image, ctr.ShortID())
		if err := c.runtime.KillContainer(ctx, ctr.ID); err != nil {
			errs = append(errs, fmt.Errorf("%w: killing container %s (%s): %w",
				domain.ErrRuntimeOperation, ctr.ShortID(), ctr.Image, err))
		}
	}
	return errors.Join(errs...)
}

// FindContainers lists the running containers and keeps those selected by
// match, in runtime order.
func (c *Controller) FindContainers(ctx context.Context, match domain.Match) ([]domain.Container, error) {
	all, err := c.runtime.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing containers: %w", domain.ErrRuntimeQuery, err)
	}

	matched := make([]domain.Container, 0, len(all))
	for _, ctr := range all {
		if match.Matches(ctr.Image) {
			matched = append(matched, ctr)
		}
	}

	c.logger.Debug("matched containers",
		"match", match.String(),
		"listed", len(all),
		"matched", len(matched))

	return matched, nil
}

func (c *Controller) pull(ctx context.Context, ref domain.ImageReference) error {
	c.reporter.Infof("pulling docker image %s...", ref)

	events, err := c.runtime.PullImage(ctx, ref.String())
	if err != nil {
		return fmt.Errorf("%w: pulling %s: %w", domain.ErrRuntimeOperation, ref, err)
	}
	defer c.reporter.ProgressDone()

	for evt, err := range events {
		if err != nil {
			// Per-layer errors do not necessarily fail the pull.
			c.logger.Warn("pull progress error", "image", ref.String(), "error", err)
			continue
		}
		c.reporter.Progress(evt)
	}
	return nil
}

func (c *Controller) assignPorts(random bool) (domain.PortAssignment, error) {
	if !random {
		return domain.NewPortAssignment(domain.UIPort), nil
	}
	port, err := c.allocatePort()
	if err != nil {
		return domain.PortAssignment{}, err
	}
	return domain.NewPortAssignment(port), nil
}

func (c *Controller) injectCertificate(ctx context.Context, containerID string) error {
	cert, err := c.builder.Certificate(ctx)
	if err != nil {
		return fmt.Errorf("%w: generating certificate: %w", domain.ErrCertificateInjection, err)
	}

	c.reporter.Infof("installing certificate:\n%s", cert)

	if err := c.runtime.CopyFile(ctx, containerID, certificateDir, certificateName, cert); err != nil {
		return fmt.Errorf("%w: copying certificate into %s: %w",
			domain.ErrCertificateInjection, domain.ShortID(containerID), err)
	}
	return nil
}

func createRequest(ref domain.ImageReference, plan domain.MountPlan, assignment domain.PortAssignment) domain.CreateRequest {
	binds := make([]string, 0, 4)
	for _, b := range plan.Binds() {
		binds = append(binds, b.String())
	}

	return domain.CreateRequest{
		Image:      ref.String(),
		Ports:      assignment,
		Env:        plan.Env,
		Binds:      binds,
		ExtraHosts: []string{hostGateway},
		User:       "root",
		Entrypoint: []string{"sh", "-c"},
		Cmd:        []string{startupScript},
	}
}

type nopReporter struct{}

func (nopReporter) Infof(string, ...any)      {}
func (nopReporter) Progress(domain.PullEvent) {}
func (nopReporter) ProgressDone()             {}

var _ ports.LifecycleService = (*Controller)(nil)
