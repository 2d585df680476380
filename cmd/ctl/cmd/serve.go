package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dicomview.go/pkg/server"
)

// NewServeCmd runs the JSON API
func NewServeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the viewer JSON API",
		Long:  "Serves the classify, compare and loaded-files API for a browser front end until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}
			srv, err := server.New(engine, cfg.Server, cfg.Viewer)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
