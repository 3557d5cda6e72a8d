package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xab-mack/mythx-cli/internal/cli"
	"github.com/xab-mack/mythx-cli/internal/client"
	"github.com/xab-mack/mythx-cli/internal/config"
	"github.com/xab-mack/mythx-cli/internal/model"
)

// Exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// BuildRoot assembles the command tree around st. Log output goes to
// stderr.
func BuildRoot(st *cli.State, stderr io.Writer) *cobra.Command {
	o := &st.Opts
	root := &cobra.Command{
		Use:           "mythx",
		Short:         "Submit smart contracts for security analysis and inspect the results",
		Version:       Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&o.Debug, "debug", false, "Print debug logs (MYTHX_DEBUG)")
	pf.StringVar(&o.APIKey, "api-key", "", "API key (MYTHX_API_KEY)")
	pf.StringVar(&o.Username, "username", "", "Account username (MYTHX_USERNAME)")
	pf.StringVar(&o.Password, "password", "", "Account password (MYTHX_PASSWORD)")
	pf.StringVar(&o.APIURL, "api-url", "", "API base URL (MYTHX_API_URL)")
	pf.StringVar(&o.Format, "format", "", "Output format: "+formatNames())
	pf.BoolVar(&o.CI, "ci", false, "Exit with status 1 if any issue is reported")
	pf.BoolVarP(&o.Yes, "yes", "y", false, "Do not prompt for any confirmations")
	pf.StringVarP(&o.Output, "output", "o", "", "Append output to this file instead of stdout")
	pf.StringVarP(&o.ConfigPath, "config", "c", "", "Config file, searched upwards as "+config.FileName+" by default")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := resolve(cmd, st); err != nil {
			return err
		}
		st.Logger = newLogger(stderr, o.Debug)
		st.Logger.Debug("resolved options",
			zap.String("format", o.Format),
			zap.String("apiURL", o.APIURL),
			zap.Bool("ci", o.CI))
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if st.Logger != nil {
			_ = st.Logger.Sync()
		}
	}
	cli.AddCommands(root, st)
	return root
}

// resolve fills unset flags from the environment, then from the config file.
func resolve(cmd *cobra.Command, st *cli.State) error {
	o := &st.Opts
	changed := cmd.Flags().Changed
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(cwd); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	env := config.FromEnv()
	fill := func(flag string, dst *string, v string) {
		if !changed(flag) && v != "" {
			*dst = v
		}
	}
	fill("api-key", &o.APIKey, env.APIKey)
	fill("username", &o.Username, env.Username)
	fill("password", &o.Password, env.Password)
	fill("api-url", &o.APIURL, env.APIURL)
	if !changed("debug") && env.Debug {
		o.Debug = true
	}

	var cfg config.Config
	if o.ConfigPath != "" {
		cfg, err = config.LoadFile(o.ConfigPath)
	} else {
		cfg, _, err = config.Load(cwd)
	}
	if err != nil {
		return model.Usagef("Could not load config: %v", err)
	}
	st.Config = cfg
	// config values only fill what neither flags nor env set
	fillEmpty := func(flag string, dst *string, v string) {
		if *dst == "" {
			fill(flag, dst, v)
		}
	}
	fillEmpty("format", &o.Format, cfg.Format)
	fillEmpty("output", &o.Output, cfg.Output)
	fillEmpty("api-url", &o.APIURL, cfg.APIURL)
	if !changed("ci") && cfg.CI {
		o.CI = true
	}
	if !changed("yes") && cfg.Confirm {
		o.Yes = true
	}
	if o.Format == "" {
		o.Format = config.Default().Format
	}
	return nil
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level)))
}

// Run executes the CLI and maps errors to exit statuses. A nil stdin makes
// confirmations read the process terminal.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	st := &cli.State{Version: version, Stdin: stdin}
	root := BuildRoot(st, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	return exitStatus(err, stderr)
}

func exitStatus(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var usage *model.UsageError
	var apiErr *client.APIError
	switch {
	case errors.Is(err, cli.ErrIssuesFound):
		return ExitError
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "Error: %s\n", usage.Msg)
		return ExitUsage
	case errors.As(err, &apiErr):
		fmt.Fprintf(stderr, "The API returned an error:\n%s\n", apiErr)
		return ExitError
	default:
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return ExitError
	}
}
