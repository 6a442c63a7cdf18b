package cli

import (
	"github.com/spf13/cobra"

	"layerforge/internal/types"
)

func newRuntimesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runtimes",
		Short: "List supported Python runtimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, rt := range types.SupportedRuntimes() {
				marker := " "
				if rt == types.DefaultRuntime {
					marker = "*"
				}
				cmd.Printf("%s %s\n", marker, rt)
			}
			return nil
		},
	}
}
