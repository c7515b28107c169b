package main

import (
	"fmt"
	"net"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the engine as a JSON API over HTTP. Results are cached in process,
or in Redis with --redis so that replicas share them and compute each once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			watch, _ := cmd.Flags().GetBool("watch")
			metrics, _ := cmd.Flags().GetBool("metrics")

			ws, _, err := openWorkspace(cmd, true)
			if err != nil {
				return err
			}
			defer ws.Close()

			ln, err := net.Listen("tcp", ":"+port)
			if err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}
			sc := cli.NewSignalContext(cmd.Context())
			defer sc.Cancel()

			cli.SystemMessage(cmd.OutOrStdout(), "Serving on %s", ln.Addr())
			return cli.Serve(sc, ws, ln, cli.ServeOptions{Watch: watch, Metrics: metrics})
		},
	}
	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().BoolP("watch", "w", false, "Reload when the sources change")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	return cmd
}
