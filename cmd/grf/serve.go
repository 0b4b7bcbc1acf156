package main

import (
	"time"

	"github.com/spf13/cobra"

	grfhttp "github.com/melih/grf/internal/adapters/http"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the container operations as a local HTTP API",
		Long: `Serve a JSON API for editors and scripts:

  GET    /api/v1/containers            running grafana containers
  POST   /api/v1/containers            start one
  DELETE /api/v1/containers            stop by ?version= and ?enterprise=
  GET    /api/v1/containers/:id/logs   output, streamed with ?follow=true
  POST   /api/v1/plugins/reload        restart plugin processes
  GET    /api/v1/tags                  local enterprise versions

Requests to <name>.localhost are proxied to that container's UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.lifecycle()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}

			server := grfhttp.NewApp(cmd.Context(), service, a.logger)

			go func() {
				<-cmd.Context().Done()
				if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
					a.logger.Warn("shutting down server", "error", err)
				}
			}()

			a.console.Infof("listening on http://%s", addr)
			return server.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:7070)")
	return cmd
}
