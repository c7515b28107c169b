package main

import (
	"os"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/spf13/cobra"
)

func runOptions(cmd *cobra.Command) cli.RunOptions {
	jsonMode, _ := cmd.Flags().GetBool("json")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	opts := cli.RunOptions{JSON: jsonMode, KeepGoing: keepGoing}
	// Styled markdown only when writing straight to a terminal.
	if cmd.OutOrStdout() == os.Stdout {
		opts.Renderer = tui.ForOutput(os.Stdout)
	}
	return opts
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [query...]",
		Short: "Run the named queries of the document",
		Long:  `Runs the given queries from the query document, or all of them, and prints one report per answer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cli.NewSignalContext(cmd.Context())
			defer sc.Cancel()

			ws, _, err := openWorkspace(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()
			p, err := ws.Load(sc)
			if err != nil {
				return err
			}
			queries, err := p.Select(args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return cli.HandleExecutionError(cmd.ErrOrStderr(), sc, cli.Run(sc, p, out, runOptions(cmd), queries))
		},
	}
	cmd.Flags().Bool("json", false, "Print one JSON answer per line")
	cmd.Flags().BoolP("keep-going", "k", false, "Report failed queries and continue")
	return cmd
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query given on the command line",
		Example: `  wayfinder query -a tram+ -r Harbor --mode slice
  wayfinder query -a tram+ -r Harbor -t Museum`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cli.NewSignalContext(cmd.Context())
			defer sc.Cancel()

			q, err := queryFromFlags(cmd)
			if err != nil {
				return err
			}
			ws, _, err := openWorkspace(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()
			p, err := ws.Load(sc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return cli.HandleExecutionError(cmd.ErrOrStderr(), sc, cli.Run(sc, p, out, runOptions(cmd), []domain.Query{q}))
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the answer as JSON")
	return cmd
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("automaton", "a", "", "Automaton name")
	cmd.Flags().StringSliceP("root", "r", nil, "Root node name (repeatable)")
	cmd.Flags().StringP("target", "t", "", "Target node name for a single path")
	cmd.Flags().StringP("mode", "m", "", "pathsystem, slice or path")
}

func queryFromFlags(cmd *cobra.Command) (domain.Query, error) {
	var q domain.Query
	q.Automaton, _ = cmd.Flags().GetString("automaton")
	q.Roots, _ = cmd.Flags().GetStringSlice("root")
	q.Target, _ = cmd.Flags().GetString("target")
	mode, _ := cmd.Flags().GetString("mode")
	q.Mode = domain.ResultKind(mode)
	return q.Normalize()
}
