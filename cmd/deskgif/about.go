package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/deskgif/internal/version"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s: floating animated GIF overlays for the desktop\n", version.Name, version.Version)
			fmt.Fprintln(out, "https://github.com/oukeidos/deskgif")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
