package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/oukeidos/deskgif/internal/licenses"
)

func newLicensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licenses",
		Short: "Show third-party license notices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := licenses.Notices()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
