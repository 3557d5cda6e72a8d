package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/gitmeta"
)

func newGroupCmd(st *State) *cobra.Command {
	cmd := &cobra.Command{Use: "group", Short: "Manage analysis groups"}
	cmd.AddCommand(newGroupOpenCmd(st), newGroupCloseCmd(st), newGroupListCmd(st), newGroupStatusCmd(st))
	return cmd
}

func newGroupOpenCmd(st *State) *cobra.Command {
	return &cobra.Command{
		Use:   "open [name]",
		Short: "Create a new group",
		Long:  "Create a new group. Without a name it is derived from the enclosing git repository and branch.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := st.Client()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if cwd, err := os.Getwd(); err == nil {
				if name, err = gitmeta.DefaultGroupName(cwd); err != nil {
					st.log().Debug("no default group name", zap.Error(err))
				}
			}
			g, err := api.CreateGroup(cmd.Context(), name)
			if err != nil {
				return err
			}
			return st.Emit(cmd, fmt.Sprintf("Opened group with ID %s and name '%s'", g.ID, g.Name))
		},
	}
}

func newGroupCloseCmd(st *State) *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>...",
		Short: "Seal groups so no further analyses can be added",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := st.Client()
			if err != nil {
				return err
			}
			for _, id := range args {
				g, err := api.SealGroup(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := st.Emit(cmd, fmt.Sprintf("Closed group with ID %s and name '%s'", g.ID, g.Name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newGroupListCmd(st *State) *cobra.Command {
	var number int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := st.Client()
			if err != nil {
				return err
			}
			list, err := api.ListGroups(cmd.Context(), number)
			if err != nil {
				return err
			}
			f, err := st.Formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatGroupList(list)
			if err != nil {
				return err
			}
			return st.Emit(cmd, out)
		},
	}
	cmd.Flags().IntVarP(&number, "number", "n", 5, "Number of groups to list (1-100)")
	return cmd
}

func newGroupStatusCmd(st *State) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>...",
		Short: "Show the status of groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := st.Client()
			if err != nil {
				return err
			}
			f, err := st.Formatter()
			if err != nil {
				return err
			}
			for _, id := range args {
				g, err := api.GroupStatus(cmd.Context(), id)
				if err != nil {
					return err
				}
				out, err := f.FormatGroupStatus(g)
				if err != nil {
					return err
				}
				if err := st.Emit(cmd, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
