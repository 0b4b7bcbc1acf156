package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/grf/internal/config"
	"github.com/melih/grf/internal/core/domain"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ~/.config/grf/config.yaml",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.home == "" {
					return domain.ErrHomeDirectoryUnresolved
				}
				if config.Exists(a.home) {
					return fmt.Errorf("%s already exists", config.Path(a.home))
				}
				if err := config.Save(a.home, config.Default()); err != nil {
					return err
				}
				a.console.Successf("wrote %s", config.Path(a.home))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.home == "" {
					return domain.ErrHomeDirectoryUnresolved
				}
				fmt.Fprintln(a.stdout, config.Path(a.home))
				return nil
			},
		},
	)
	return cmd
}
