package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(st *State) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version, or the API component versions with --api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !remote {
				return st.Emit(cmd, fmt.Sprintf("mythx-cli %s", st.Version))
			}
			api, err := st.Client()
			if err != nil {
				return err
			}
			v, err := api.Version(cmd.Context())
			if err != nil {
				return err
			}
			f, err := st.Formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatVersion(v)
			if err != nil {
				return err
			}
			return st.Emit(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&remote, "api", false, "Query the API for its component versions")
	return cmd
}
