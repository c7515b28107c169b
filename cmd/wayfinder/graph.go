package main

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [query]",
		Short: "Export the graph or a query answer as a Mermaid diagram",
		Long: `Prints the host graph as a Mermaid flowchart. Given a query name, or query
flags, it draws the answer instead: the path system tree, the slice, or the
graph with the extracted path highlighted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := openWorkspace(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()
			p, err := ws.Load(cmd.Context())
			if err != nil {
				return err
			}

			var q *domain.Query
			switch {
			case len(args) == 1:
				qs, err := p.Select(args[0])
				if err != nil {
					return err
				}
				q = &qs[0]
			case cmd.Flags().Changed("automaton"):
				fq, err := queryFromFlags(cmd)
				if err != nil {
					return err
				}
				q = &fq
			}

			diagram, err := cli.Diagram(cmd.Context(), p, q)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), diagram)
			return nil
		},
	}
	addQueryFlags(cmd)
	return cmd
}
