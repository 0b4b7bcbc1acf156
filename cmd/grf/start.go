package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/melih/grf/internal/core/domain"
)

func newStartCmd(a *app) *cobra.Command {
	var (
		tailLogs   bool
		randomPort bool
		proxy      string
		pick       bool
	)

	cmd := &cobra.Command{
		Use:   "start [version]",
		Short: "Start grafana",
		Long: `Pull and start a Grafana container with the local plugins, configuration,
provisioning and license mounted.

Examples:
  grf start
  grf start -e 10.4.1 -l
  grf start -r -p http://host.docker.internal:8888`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeVersion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}

			edition := a.edition(cmd)
			version := versionArg(args, a.cfg.Version)

			if pick {
				tags, err := service.ListEnterpriseTags(cmd.Context())
				if err != nil {
					return err
				}
				if len(tags) == 0 {
					return fmt.Errorf("no local %s tags to choose from", domain.EnterpriseRepository)
				}
				if version, err = a.selectTag(tags); err != nil {
					return err
				}
				edition = domain.Enterprise
			}

			_, err = service.Start(cmd.Context(), domain.StartOptions{
				Edition:    edition,
				Version:    version,
				RandomPort: randomPort,
				TailLogs:   tailLogs,
				Proxy:      proxy,
			})
			if errors.Is(err, domain.ErrCertificateInjection) {
				return fmt.Errorf("%w\nhint: point certificate.command in %s at the plugin's certificate target", err, a.configPath())
			}
			return err
		},
	}

	cmd.Flags().BoolP("enterprise", "e", false, "Use grafana enterprise image")
	cmd.Flags().BoolVarP(&tailLogs, "logs", "l", false, "Tail the logs of the container")
	cmd.Flags().BoolVarP(&randomPort, "random-port", "r", false, "Start grafana on a random open port")
	cmd.Flags().StringVarP(&proxy, "proxy", "p", "", "Set HTTP_PROXY and HTTPS_PROXY environment variables")
	cmd.Flags().BoolVar(&pick, "select", false, "Choose among local enterprise versions")
	return cmd
}

func promptTag(tags []string) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select grafana enterprise version:",
		Items:     tags,
		Templates: templates,
		Size:      min(len(tags), 10),
	}

	_, tag, err := prompt.Run()
	if err != nil {
		return "", handleUserCancellation(err)
	}
	return tag, nil
}

// handleUserCancellation turns Ctrl+C and Ctrl+D into a plain error.
func handleUserCancellation(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return fmt.Errorf("selection cancelled: %w", err)
	}
	return err
}
