package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpfielding/img2dcm/pkg/server"
)

// NewServeCmd runs the HTTP conversion server until interrupted
func NewServeCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP conversion server",
		Long:  "Serves /convert-to-dicom, /health and /test-convert until SIGINT or SIGTERM, then drains in-flight requests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Server.Addr = addr
			}
			conv, err := a.converter()
			if err != nil {
				return err
			}
			return server.New(a.cfg.Server, conv, server.WithLogger(slog.Default())).ListenAndServe(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	return cmd
}
