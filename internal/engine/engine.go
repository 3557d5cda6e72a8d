package engine

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/solidity"
	"github.com/xab-mack/mythx-cli/internal/truffle"
)

// Engine turns classified targets into analysis payloads ready for
// submission.
type Engine struct {
	Solidity *solidity.Builder
	Logger   *zap.Logger
	// Notices receives user-facing messages about skipped contracts.
	Notices io.Writer
	Cwd     string
}

func New(builder *solidity.Builder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Solidity: builder, Logger: logger, Notices: os.Stdout}
}

func (e *Engine) cwd() (string, error) {
	if e.Cwd != "" {
		return e.Cwd, nil
	}
	return os.Getwd()
}

// BuildJobs produces the raw payloads of all targets in order.
func (e *Engine) BuildJobs(ctx context.Context, targets []Target) ([]model.Job, error) {
	var jobs []model.Job
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.Logger.Debug("building payloads", zap.String("scenario", string(t.Scenario)), zap.String("path", t.Path))
		var (
			js  []model.Job
			err error
		)
		switch t.Scenario {
		case ScenarioTruffle:
			js, err = truffle.Jobs(t.Path, e.Logger)
		case ScenarioSolidityFile:
			js, err = e.Solidity.Payloads(ctx, t.Path, t.Contract)
		case ScenarioSolidityDir:
			js, err = e.Solidity.WalkDirectory(ctx, t.Path)
		default:
			err = model.Usagef("Unsupported target %s", t.Path)
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, js...)
	}
	return jobs, nil
}

// Prepare builds the payloads, applies the contract include list, drops
// jobs without bytecode and strips local path prefixes.
func (e *Engine) Prepare(ctx context.Context, targets []Target, include []string) ([]model.Job, error) {
	jobs, err := e.BuildJobs(ctx, targets)
	if err != nil {
		return nil, err
	}
	jobs, err = FilterIncluded(jobs, include)
	if err != nil {
		return nil, err
	}
	jobs = ValidJobs(jobs, e.Notices)
	cwd, err := e.cwd()
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		SanitizePaths(&jobs[i], cwd)
	}
	e.Logger.Debug("prepared jobs", zap.Int("count", len(jobs)))
	return jobs, nil
}
