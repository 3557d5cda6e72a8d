package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/cache"
	"github.com/xab-mack/mythx-cli/internal/client"
	"github.com/xab-mack/mythx-cli/internal/config"
	"github.com/xab-mack/mythx-cli/internal/engine"
	"github.com/xab-mack/mythx-cli/internal/gitmeta"
	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/solidity"
)

var analysisModes = []string{"quick", "standard", "deep"}

type analyzeOptions struct {
	async           bool
	mode            string
	createGroup     bool
	groupID         string
	groupName       string
	minSeverity     string
	blacklist       string
	whitelist       string
	solcVersion     string
	solcPath        string
	include         []string
	remappings      []string
	checkProperties bool
	noCacheLookup   bool
	scribble        bool
	scribblePath    string
	scenario        string
	pollInterval    time.Duration
	baseline        string
	writeBaseline   string
	useTUI          bool
}

// applyConfig fills flags the user did not set from the analyze section of
// the config file.
func (o *analyzeOptions) applyConfig(cmd *cobra.Command, c config.Analyze) {
	set := func(name string, apply func()) {
		if !cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("mode", func() {
		if c.Mode != "" {
			o.mode = c.Mode
		}
	})
	if !cmd.Flags().Changed("wait") {
		set("async", func() { o.async = o.async || c.Async })
	}
	set("create-group", func() { o.createGroup = o.createGroup || c.CreateGroup })
	set("group-id", func() { o.groupID = c.GroupID })
	set("group-name", func() { o.groupName = c.GroupName })
	set("min-severity", func() { o.minSeverity = c.MinSeverity })
	set("swc-blacklist", func() { o.blacklist = c.Blacklist })
	set("swc-whitelist", func() { o.whitelist = c.Whitelist })
	set("solc-version", func() { o.solcVersion = c.Solc })
	set("solc-path", func() { o.solcPath = c.SolcPath })
	set("include", func() { o.include = append(append([]string(nil), c.Include...), c.Contracts...) })
	set("remap-import", func() { o.remappings = c.Remappings })
	set("check-properties", func() { o.checkProperties = o.checkProperties || c.CheckProperties })
	set("scribble", func() { o.scribble = o.scribble || c.EnableScribble })
	set("scribble-path", func() {
		if c.ScribblePath != "" {
			o.scribblePath = c.ScribblePath
		}
	})
	set("scenario", func() { o.scenario = c.Scenario })
	set("baseline", func() { o.baseline = c.Baseline })
}

// propertyChecking is on for scribble runs, whose annotations are
// otherwise never checked.
func (o *analyzeOptions) propertyChecking() bool {
	return o.checkProperties || o.scribble
}

func (o *analyzeOptions) validate() error {
	valid := false
	for _, m := range analysisModes {
		if o.mode == m {
			valid = true
		}
	}
	if !valid {
		return model.Usagef("Invalid analysis mode %q, choose one of: %s", o.mode, strings.Join(analysisModes, ", "))
	}
	if o.minSeverity != "" && !model.ValidSeverity(o.minSeverity) {
		return model.Usagef("Invalid severity %q", o.minSeverity)
	}
	if o.createGroup && o.groupID != "" {
		return model.Usagef("--create-group and --group-id are mutually exclusive")
	}
	return nil
}

func newAnalyzeCmd(st *State) *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [targets...]",
		Short: "Analyze Solidity files, directories or Truffle projects",
		Long: `Analyze compiles the given targets and submits them for analysis.

A target is a Solidity file (optionally suffixed with ":ContractName"), a
directory of Solidity files, or a Truffle project. Without targets the
working directory is inspected.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyConfig(cmd, st.Config.Analyze)
			if err := o.validate(); err != nil {
				return err
			}
			if len(args) == 0 {
				args = st.Config.Analyze.Targets
			}
			return runAnalyze(cmd, st, o, args)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.async, "async", false, "Submit the analyses and print their UUIDs without waiting for results")
	f.Bool("wait", true, "Wait for the analysis results (opposite of --async)")
	f.StringVarP(&o.mode, "mode", "m", "quick", "Analysis mode: quick|standard|deep")
	f.BoolVar(&o.createGroup, "create-group", false, "Create a new group for the analyses and close it afterwards")
	f.StringVar(&o.groupID, "group-id", "", "Add the analyses to an existing group")
	f.StringVar(&o.groupName, "group-name", "", "Name of the group created with --create-group")
	f.StringVar(&o.minSeverity, "min-severity", "", "Ignore issues below this severity")
	f.StringVar(&o.blacklist, "swc-blacklist", "", "Comma-separated SWC IDs to ignore")
	f.StringVar(&o.whitelist, "swc-whitelist", "", "Comma-separated SWC IDs to include exclusively")
	f.StringVar(&o.solcVersion, "solc-version", "", "Compiler version to use instead of the pragma version")
	f.StringVar(&o.solcPath, "solc-path", "", "Path of the solc executable")
	f.StringSliceVar(&o.include, "include", nil, "Only submit the named contracts")
	f.StringSliceVar(&o.remappings, "remap-import", nil, "Import remapping passed to solc, {pwd} is replaced by the working directory")
	f.BoolVar(&o.checkProperties, "check-properties", false, "Enable property checking for scribble annotations")
	f.BoolVar(&o.noCacheLookup, "no-cache-lookup", false, "Analyze again even if the service has a cached result for the same input")
	f.BoolVar(&o.scribble, "scribble", false, "Instrument sources with scribble before compiling")
	f.StringVar(&o.scribblePath, "scribble-path", "scribble", "Path of the scribble executable")
	f.StringVar(&o.scenario, "scenario", "", "Force the target type: truffle|solidity")
	f.DurationVar(&o.pollInterval, "poll-interval", client.DefaultPollInterval, "Wait between analysis status checks")
	f.StringVar(&o.baseline, "baseline", "", "Hide issues recorded in this baseline file")
	f.StringVar(&o.writeBaseline, "write-baseline", "", "Record the fingerprints of all reported issues in this file")
	f.BoolVar(&o.useTUI, "tui", false, "Browse the results interactively")
	cmd.MarkFlagsMutuallyExclusive("async", "wait")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("wait") {
			wait, _ := cmd.Flags().GetBool("wait")
			o.async = !wait
		}
		return nil
	}
	return cmd
}

func runAnalyze(cmd *cobra.Command, st *State, o *analyzeOptions, args []string) error {
	ctx := cmd.Context()
	log := st.log()
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	api, err := st.Client()
	if err != nil {
		return err
	}

	if o.createGroup {
		name := o.groupName
		if name == "" {
			if n, err := gitmeta.DefaultGroupName(cwd); err == nil {
				name = n
			} else {
				log.Debug("no default group name", zap.Error(err))
			}
		}
		g, err := api.CreateGroup(ctx, name)
		if err != nil {
			return err
		}
		o.groupID, o.groupName = g.ID, g.Name
		fmt.Fprintf(cmd.OutOrStdout(), "Opened group with ID %s and name '%s'\n", g.ID, g.Name)
	}
	api.Use(client.GroupData(o.groupID, o.groupName), client.PropertyChecking(o.propertyChecking()), client.NoCacheLookup(o.noCacheLookup))

	forced, err := engine.ForcedScenario(o.scenario)
	if err != nil {
		return err
	}
	targets, err := engine.DetermineTargets(args, forced, cwd)
	if err != nil {
		return err
	}

	builder := &solidity.Builder{
		Compiler:     &solidity.Compiler{Path: o.solcPath, Cwd: cwd, Cache: cache.Default(), Logger: log},
		Version:      o.solcVersion,
		Remappings:   o.remappings,
		Scribble:     o.scribble,
		ScribblePath: o.scribblePath,
		Logger:       log,
	}
	eng := engine.New(builder, log)
	eng.Notices = cmd.OutOrStdout()
	eng.Cwd = cwd
	jobs, err := eng.Prepare(ctx, targets, o.include)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return model.Usagef("No jobs were generated. Please make sure your Solidity files compile correctly or your Truffle project has been compiled.")
	}

	ok, err := st.Confirm(cmd, fmt.Sprintf("Found %d job(s). Submit?", len(jobs)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	var ids []string
	for _, job := range jobs {
		a, err := api.Submit(ctx, job, o.mode)
		if err != nil {
			return err
		}
		log.Debug("submitted analysis", zap.String("uuid", a.UUID), zap.String("contract", job.ContractName))
		ids = append(ids, a.UUID)
	}

	if o.createGroup {
		defer func() {
			if g, err := api.SealGroup(ctx, o.groupID); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Closed group with ID %s and name '%s'\n", g.ID, g.Name)
			} else {
				log.Warn("could not close group", zap.String("group", o.groupID), zap.Error(err))
			}
		}()
	}

	if o.async {
		return st.Emit(cmd, strings.Join(ids, "\n"))
	}
	for _, id := range ids {
		if err := api.WaitForAnalysis(ctx, id, o.pollInterval); err != nil {
			return err
		}
	}
	return renderReports(cmd, st, api, ids, reportOptions{
		filter:        engine.NewFilterOptions(o.minSeverity, o.blacklist, o.whitelist),
		baseline:      o.baseline,
		writeBaseline: o.writeBaseline,
		useTUI:        o.useTUI,
	})
}
