package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/client"
	"github.com/xab-mack/mythx-cli/internal/engine"
	"github.com/xab-mack/mythx-cli/internal/tui"
)

type reportOptions struct {
	filter        engine.FilterOptions
	baseline      string
	writeBaseline string
	useTUI        bool
}

// renderReports fetches the reports of ids and prints the issues left after
// dedupe, ignore rules, the baseline and the severity/SWC filters. A written
// baseline records issues before the last two steps. With --ci it returns ErrIssuesFound if any issue
// survived.
func renderReports(cmd *cobra.Command, st *State, api *client.Client, ids []string, o reportOptions) error {
	log := st.log()
	formatter, err := st.Formatter()
	if err != nil {
		return err
	}
	withInput := formatter.RequiresInput() || len(st.Config.Ignore) > 0 || o.baseline != "" || o.writeBaseline != "" || o.useTUI
	items, err := fetchReports(cmd.Context(), api, ids, withInput)
	if err != nil {
		return err
	}

	var base engine.Baseline
	if o.baseline != "" {
		if base, err = engine.LoadBaseline(o.baseline); err != nil {
			return err
		}
	}

	for i := range items {
		engine.DedupeIssues(&items[i].Issues)
		engine.ApplyIgnores(&items[i], st.Config.Ignore)
	}
	if o.writeBaseline != "" {
		if err := engine.WriteBaseline(o.writeBaseline, items); err != nil {
			return err
		}
		log.Info("baseline written", zap.String("path", o.writeBaseline))
	}

	found := false
	for i := range items {
		item := &items[i]
		if o.baseline != "" {
			engine.FilterBaseline(item, base)
		}
		if engine.FilterReport(&item.Issues, o.filter) {
			found = true
		}
		log.Debug("report filtered", zap.String("uuid", item.Issues.UUID), zap.Int("issues", item.Issues.Count()))
	}

	if o.useTUI {
		if err := tui.Run(items); err != nil {
			return err
		}
	} else {
		out, err := formatter.FormatDetectedIssues(items)
		if err != nil {
			return err
		}
		if err := st.Emit(cmd, out); err != nil {
			return err
		}
	}
	if st.Opts.CI && found {
		return ErrIssuesFound
	}
	return nil
}

// parseIDs validates analysis UUID arguments.
func parseIDs(args []string) ([]string, error) {
	for _, id := range args {
		if err := client.ValidateUUID(id); err != nil {
			return nil, err
		}
	}
	return args, nil
}
