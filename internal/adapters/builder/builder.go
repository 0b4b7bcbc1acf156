package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/melih/grf/internal/core/ports"
)

var (
	// DefaultBuildCommand compiles the backend and frontend of a plugin.
	DefaultBuildCommand = []string{"mage", "-v"}

	// DefaultCertificateCommand prints the CA certificate to stdout.
	DefaultCertificateCommand = []string{"mage", "certificate"}
)

// Config configures the builder adapter.
type Config struct {
	// Dir is where repository discovery starts. Defaults to the working
	// directory.
	Dir string

	BuildCommand       []string
	CertificateCommand []string

	// Stdout and Stderr receive build output.
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Adapter implements ports.PluginBuilder by running the plugin's build tool
// as a subprocess at the root of the plugin repository.
type Adapter struct {
	dir         string
	build       []string
	certificate []string
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
}

func NewBuilderAdapter(cfg Config) *Adapter {
	a := &Adapter{
		dir:         cfg.Dir,
		build:       cfg.BuildCommand,
		certificate: cfg.CertificateCommand,
		stdout:      cfg.Stdout,
		stderr:      cfg.Stderr,
		logger:      cfg.Logger,
	}
	if a.dir == "" {
		a.dir = "."
	}
	if len(a.build) == 0 {
		a.build = DefaultBuildCommand
	}
	if len(a.certificate) == 0 {
		a.certificate = DefaultCertificateCommand
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Build runs the build command with its output forwarded.
func (a *Adapter) Build(ctx context.Context) error {
	root, err := a.pluginRoot()
	if err != nil {
		return err
	}

	a.logger.Info("building plugin", "dir", root, "command", strings.Join(a.build, " "))

	cmd := exec.CommandContext(ctx, a.build[0], a.build[1:]...)
	cmd.Dir = root
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build plugin in %s: %w", root, err)
	}
	return nil
}

// Certificate runs the certificate command and returns what it printed.
func (a *Adapter) Certificate(ctx context.Context) ([]byte, error) {
	root, err := a.pluginRoot()
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.certificate[0], a.certificate[1:]...)
	cmd.Dir = root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", a.certificate[0], err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", a.certificate[0], err)
	}
	return stdout.Bytes(), nil
}

// pluginRoot finds the top of the git repository containing dir. Outside a
// repository dir itself is used.
func (a *Adapter) pluginRoot() (string, error) {
	repo, err := git.PlainOpenWithOptions(a.dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		a.logger.Debug("not a git repository, using directory as is", "dir", a.dir)
		return a.dir, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", a.dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	a.logger.Debug("plugin repository", "root", root, "revision", revision(repo))
	return root, nil
}

// revision returns the short HEAD hash, or "unborn" before the first commit.
func revision(repo *git.Repository) string {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "unborn"
	}
	if err != nil {
		return "unknown"
	}
	return head.Hash().String()[:7]
}

var _ ports.PluginBuilder = (*Adapter)(nil)
