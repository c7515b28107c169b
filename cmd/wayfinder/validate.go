package main

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the document for consistency",
		Long:  `Loads the graph, compiles every automaton and checks that each query names known automata and nodes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := openWorkspace(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()
			p, err := ws.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, cli.Describe(p))
			fmt.Fprintln(out, "Workspace is valid!")
			return nil
		},
	}
}
