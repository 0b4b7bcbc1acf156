package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/output"
)

func newStopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop [version]",
		Short: "Stop running version",
		Long: `Kill the running containers of a version. Without a version every
container whose image mentions grafana is stopped.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeVersion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}
			return service.Stop(cmd.Context(), a.edition(cmd), versionArg(args, ""))
		},
	}
	cmd.Flags().BoolP("enterprise", "e", false, "Use grafana enterprise container")
	return cmd
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the plugin in the current directory and reload it in the container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}
			if err := a.pluginBuilder().Build(cmd.Context()); err != nil {
				return err
			}
			if err := service.ReloadPlugins(cmd.Context()); err != nil {
				return err
			}
			a.console.Successf("plugin rebuilt and reloaded")
			return nil
		},
	}
}

func newReloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Restart the data source plugin processes without rebuilding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}
			return service.ReloadPlugins(cmd.Context())
		},
	}
}

func newLogsCmd(a *app) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:               "logs [version]",
		Short:             "Show the output of a running grafana",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeVersion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}

			match := domain.MatchFor(a.edition(cmd), versionArg(args, ""))
			containers, err := service.FindContainers(cmd.Context(), match)
			if err != nil {
				return err
			}
			if len(containers) == 0 {
				return errNoContainer(match)
			}
			if len(containers) > 1 {
				a.logger.Warn("several containers match, showing the first",
					"match", match.String(),
					"containerID", containers[0].ShortID())
			}

			return service.ContainerLogs(cmd.Context(), containers[0].ID, follow, a.stdout, a.stderr)
		},
	}
	cmd.Flags().BoolP("enterprise", "e", false, "Use grafana enterprise container")
	cmd.Flags().BoolVarP(&follow, "follow", "f", true, "Keep streaming new output")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "list [version]",
		Aliases:           []string{"ls", "ps"},
		Short:             "List running grafana containers",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeVersion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}

			match := domain.MatchFor(a.edition(cmd), versionArg(args, ""))
			containers, err := service.FindContainers(cmd.Context(), match)
			if err != nil {
				return err
			}
			output.ContainerTable(a.stdout, containers)
			return nil
		},
	}
	cmd.Flags().BoolP("enterprise", "e", false, "Use grafana enterprise container")
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the grafana enterprise versions pulled locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}

			tags, err := service.ListEnterpriseTags(cmd.Context())
			if err != nil {
				a.logger.Debug("listing enterprise tags", "error", err)
				a.console.Warnf("no %s image found locally", domain.EnterpriseRepository)
				return nil
			}
			for _, t := range tags {
				fmt.Fprintln(a.stdout, t)
			}
			return nil
		},
	}
}
