package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xab-mack/mythx-cli/internal/model"
)

func newSWCCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "swc", Short: "Smart contract weakness classification"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known SWC IDs and titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range model.SWCRegistry() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID, e.Title)
			}
			return nil
		},
	})
	return cmd
}
