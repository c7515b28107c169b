package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wayfinder",
		Short: "Wayfinder answers regular path queries over property graphs",
		Long: `Wayfinder runs finite automata over a host graph and reports the shortest
accepted paths (path systems), every node and edge on an accepted path (slices)
and single shortest paths to a target.

Graphs, automata and named queries live in one YAML or JSON document. The
graph may instead come from a Loam repository of node documents (--loam).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().StringP("file", "f", "wayfinder.yaml", "Query document (YAML or JSON)")
	root.PersistentFlags().String("loam", "", "Loam repository supplying the host graph")
	root.PersistentFlags().String("name", "", "Graph name used in logs and cache keys")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); logs are off when empty")
	root.PersistentFlags().String("redis", "", "Redis address for the shared result cache")
	root.PersistentFlags().Duration("cache-ttl", 0, "Expiry of cached results in Redis (0 keeps them)")

	root.AddCommand(
		newRunCmd(),
		newQueryCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openWorkspace reads the persistent flags. cache enables the in-process
// result cache when no Redis address is given.
func openWorkspace(cmd *cobra.Command, cache bool) (*cli.Workspace, *slog.Logger, error) {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	logger, err := cli.NewLogger(level)
	if err != nil {
		return nil, nil, err
	}

	opts := cli.Options{Cache: cache}
	opts.Document, _ = flags.GetString("file")
	opts.LoamDir, _ = flags.GetString("loam")
	opts.Name, _ = flags.GetString("name")
	opts.RedisAddr, _ = flags.GetString("redis")
	opts.CacheTTL, _ = flags.GetDuration("cache-ttl")
	// With a Loam graph the document is optional unless asked for explicitly.
	if opts.LoamDir != "" && !flags.Changed("file") {
		if _, err := os.Stat(opts.Document); err != nil {
			opts.Document = ""
		}
	}

	ws, err := cli.NewWorkspace(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return ws, logger, nil
}
