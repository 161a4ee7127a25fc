package cli

import (
	"encoding/json"

	"imagehost/internal/startup"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(startup.GetBuildInfo())
			}
			startup.PrintBanner(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}
