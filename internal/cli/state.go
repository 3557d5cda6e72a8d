package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/xab-mack/mythx-cli/internal/client"
	"github.com/xab-mack/mythx-cli/internal/config"
	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/report"
)

// ErrIssuesFound signals --ci mode found issues; it maps to exit status 1
// without a message.
var ErrIssuesFound = errors.New("issues found")

// Options holds the global flags.
type Options struct {
	Debug      bool
	APIKey     string
	Username   string
	Password   string
	APIURL     string
	Format     string
	Output     string
	ConfigPath string
	CI         bool
	Yes        bool
}

// State is shared by all commands of one invocation.
type State struct {
	Opts    Options
	Config  config.Config
	Logger  *zap.Logger
	Version string
	Stdin   io.Reader

	api *client.Client
}

func (s *State) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Client builds the API client on first use so that offline commands need
// no credentials.
func (s *State) Client() (*client.Client, error) {
	if s.api != nil {
		return s.api, nil
	}
	c, err := client.New(client.Options{
		BaseURL:     s.Opts.APIURL,
		APIKey:      s.Opts.APIKey,
		Username:    s.Opts.Username,
		Password:    s.Opts.Password,
		Logger:      s.log(),
		Middlewares: []client.Middleware{client.ToolName("mythx-cli-" + s.Version)},
	})
	if err != nil {
		return nil, err
	}
	s.api = c
	return c, nil
}

func (s *State) Formatter() (report.Formatter, error) {
	return report.Get(s.Opts.Format)
}

// Emit writes content to --output or the command's stdout.
func (s *State) Emit(cmd *cobra.Command, content string) error {
	return report.Emit(cmd.OutOrStdout(), s.Opts.Output, content)
}

// Confirm asks a yes/no question and reads the answer from stdin. Without
// --yes only an explicit "y" or "yes" confirms; end of input declines, so
// scripted runs must pass --yes. The prompt is not printed when stdin is
// not a terminal.
func (s *State) Confirm(cmd *cobra.Command, question string) (bool, error) {
	if s.Opts.Yes {
		return true, nil
	}
	in, prompt := s.Stdin, true
	if in == nil {
		in = os.Stdin
		prompt = term.IsTerminal(int(os.Stdin.Fd()))
	}
	if prompt {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	} else {
		s.log().Debug("stdin is not a terminal, reading confirmation from input")
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// fetchReports loads the issue report of every analysis, and its input when
// the formatter needs source text, keeping the order of ids.
func fetchReports(ctx context.Context, c *client.Client, ids []string, withInput bool) ([]model.ReportItem, error) {
	items := make([]model.ReportItem, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			rep, err := c.Report(ctx, id)
			if err != nil {
				return err
			}
			items[i].Issues = *rep
			return nil
		})
		if withInput {
			g.Go(func() error {
				in, err := c.Input(ctx, id)
				if err != nil {
					return err
				}
				items[i].Input = in
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
