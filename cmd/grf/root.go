package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/melih/grf/internal/adapters/builder"
	"github.com/melih/grf/internal/adapters/docker"
	"github.com/melih/grf/internal/config"
	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/core/lifecycle"
	"github.com/melih/grf/internal/core/ports"
	"github.com/melih/grf/internal/output"
)

// app holds what commands share. Services are built on first use so that
// help and completion work without a Docker daemon.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose bool
	ready   bool
	home    string
	cfg     *config.Config
	console *output.Console
	logger  *slog.Logger

	service ports.LifecycleService
	builder ports.PluginBuilder
	closers []func() error

	// Overridable in tests.
	homeDir    func() (string, error)
	newRuntime func(logger *slog.Logger) (ports.ContainerRuntime, func() error, error)
	selectTag  func(tags []string) (string, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:     stdout,
		stderr:     stderr,
		homeDir:    os.UserHomeDir,
		newRuntime: dockerRuntime,
		selectTag:  promptTag,
	}
}

func dockerRuntime(logger *slog.Logger) (ports.ContainerRuntime, func() error, error) {
	adapter, err := docker.NewAdapter(logger)
	if err != nil {
		return nil, nil, err
	}
	return adapter, adapter.Close, nil
}

// setup loads configuration. A missing home directory is not reported
// here; commands that mount local paths fail with ErrHomeDirectoryUnresolved.
func (a *app) setup() error {
	if a.ready {
		return nil
	}

	a.logger = output.NewLogger(a.stderr, a.verbose)
	a.console = output.NewConsole(a.stdout, a.stderr, !color.NoColor)

	home, err := a.homeDir()
	if err != nil {
		a.logger.Warn("home directory unresolved", "error", err)
		home = ""
	}
	a.home = home

	a.cfg = config.Default()
	if home != "" {
		cfg, err := config.Load(home)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.ready = true
	return nil
}

// lifecycle returns the controller, connecting to the runtime on first use.
func (a *app) lifecycle() (ports.LifecycleService, error) {
	if err := a.setup(); err != nil {
		return nil, err
	}
	if a.service != nil {
		return a.service, nil
	}

	runtime, closeRuntime, err := a.newRuntime(a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRuntime)

	a.service = lifecycle.New(lifecycle.Config{
		Runtime:  runtime,
		Builder:  a.pluginBuilder(),
		Settings: lifecycle.Settings{Home: a.home, Proxy: a.cfg.Proxy},
		Reporter: a.console,
		Logger:   a.logger,
		Stdout:   a.stdout,
		Stderr:   a.stderr,
	})
	return a.service, nil
}

func (a *app) pluginBuilder() ports.PluginBuilder {
	if a.builder == nil {
		a.builder = builder.NewBuilderAdapter(builder.Config{
			BuildCommand:       a.cfg.Build.Argv(),
			CertificateCommand: a.cfg.Certificate.Argv(),
			Stdout:             a.stdout,
			Stderr:             a.stderr,
			Logger:             a.logger,
		})
	}
	return a.builder
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Debug("closing runtime client", "error", err)
		}
	}
	a.closers = nil
}

// edition reads -e, falling back to the configured edition.
func (a *app) edition(cmd *cobra.Command) domain.Edition {
	enterprise, _ := cmd.Flags().GetBool("enterprise")
	if !cmd.Flags().Changed("enterprise") {
		enterprise = a.cfg.Enterprise
	}
	return domain.EditionFor(enterprise)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "grf",
		Short:         "Run a local Grafana for plugin development",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log runtime calls")

	root.AddCommand(
		newStartCmd(a),
		newStopCmd(a),
		newBuildCmd(a),
		newReloadCmd(a),
		newLogsCmd(a),
		newListCmd(a),
		newTagsCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// completeVersion suggests the locally known enterprise tags.
func completeVersion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer a.close()

		service, err := a.lifecycle()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		tags, err := service.ListEnterpriseTags(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return tags, cobra.ShellCompDirectiveNoFileComp
	}
}

func versionArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

// configPath names the configuration file for hints, even without a home.
func (a *app) configPath() string {
	if a.home == "" {
		return "~/" + config.Dir + "/" + config.ConfigFile
	}
	return config.Path(a.home)
}

func errNoContainer(match domain.Match) error {
	return fmt.Errorf("no running container matches %s", match)
}
