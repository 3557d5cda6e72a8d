package cli

import (
	"github.com/spf13/cobra"

	"github.com/xab-mack/mythx-cli/internal/engine"
	"github.com/xab-mack/mythx-cli/internal/model"
)

func newAnalysisCmd(st *State) *cobra.Command {
	cmd := &cobra.Command{Use: "analysis", Short: "Inspect submitted analyses"}
	cmd.AddCommand(newAnalysisListCmd(st), newAnalysisStatusCmd(st), newAnalysisReportCmd(st))
	return cmd
}

func newAnalysisListCmd(st *State) *cobra.Command {
	var number int
	var groupID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := st.Client()
			if err != nil {
				return err
			}
			list, err := api.ListAnalyses(cmd.Context(), number, groupID)
			if err != nil {
				return err
			}
			f, err := st.Formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatAnalysisList(list)
			if err != nil {
				return err
			}
			return st.Emit(cmd, out)
		},
	}
	cmd.Flags().IntVarP(&number, "number", "n", 5, "Number of analyses to list (1-100)")
	cmd.Flags().StringVar(&groupID, "group-id", "", "Only list analyses of this group")
	return cmd
}

func newAnalysisStatusCmd(st *State) *cobra.Command {
	return &cobra.Command{
		Use:   "status <uuid>...",
		Short: "Show the status of analyses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			api, err := st.Client()
			if err != nil {
				return err
			}
			f, err := st.Formatter()
			if err != nil {
				return err
			}
			for _, id := range ids {
				a, err := api.AnalysisStatus(cmd.Context(), id)
				if err != nil {
					return err
				}
				out, err := f.FormatAnalysisStatus(a)
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

func newAnalysisReportCmd(st *State) *cobra.Command {
	var (
		minSeverity, blacklist, whitelist string
		baseline, writeBaseline           string
		useTUI                            bool
	)
	cmd := &cobra.Command{
		Use:   "report <uuid>...",
		Short: "Fetch the issue reports of finished analyses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if minSeverity != "" && !model.ValidSeverity(minSeverity) {
				return model.Usagef("Invalid severity %q", minSeverity)
			}
			api, err := st.Client()
			if err != nil {
				return err
			}
			return renderReports(cmd, st, api, ids, reportOptions{
				filter:        engine.NewFilterOptions(minSeverity, blacklist, whitelist),
				baseline:      baseline,
				writeBaseline: writeBaseline,
				useTUI:        useTUI,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&minSeverity, "min-severity", "", "Ignore issues below this severity")
	f.StringVar(&blacklist, "swc-blacklist", "", "Comma-separated SWC IDs to ignore")
	f.StringVar(&whitelist, "swc-whitelist", "", "Comma-separated SWC IDs to include exclusively")
	f.StringVar(&baseline, "baseline", "", "Hide issues recorded in this baseline file")
	f.StringVar(&writeBaseline, "write-baseline", "", "Record the fingerprints of all reported issues in this file")
	f.BoolVar(&useTUI, "tui", false, "Browse the results interactively")
	return cmd
}
