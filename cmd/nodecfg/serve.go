package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-nodeconfig/internal/metrics"
	"github.com/goliatone/go-nodeconfig/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the validation HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			httpCfg := a.cfg.HTTP
			if addr != "" {
				httpCfg.Addr = addr
			}

			handler := server.NewHandler(&server.Server{
				Catalog:      a.registry,
				Metrics:      metrics.New(),
				Log:          a.log,
				MaxBodyBytes: httpCfg.MaxBodyBytes,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.Infow("serving node catalog", "kinds", len(a.registry.Kinds()))
			return server.Run(ctx, httpCfg, handler, a.log)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides http.addr)")
	return cmd
}
