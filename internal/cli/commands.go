package cli

import "github.com/spf13/cobra"

// AddCommands registers all subcommands on root.
func AddCommands(root *cobra.Command, st *State) {
	root.AddCommand(
		newAnalyzeCmd(st),
		newAnalysisCmd(st),
		newGroupCmd(st),
		newVersionCmd(st),
		newInitCmd(st),
		newSWCCmd(),
	)
}
