package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wayfinder",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if banner, _ := cmd.Flags().GetBool("banner"); banner {
				tui.PrintBanner(out, strings.TrimSpace(wayfinder.Version))
			}
			fmt.Fprintf(out, "wayfinder version %s\n", strings.TrimSpace(wayfinder.Version))
		},
	}
	cmd.Flags().Bool("banner", false, "Print the banner too")
	return cmd
}
