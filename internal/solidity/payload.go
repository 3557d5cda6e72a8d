package solidity

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/tools"
)

var (
	pragmaPattern       = regexp.MustCompile(`pragma solidity [\^<>=]*(\d+\.\d+\.\d+);`)
	bytecodePlaceholder = regexp.MustCompile(`__\$.{34}\$__`)
	zeroAddress         = strings.Repeat("0", 40)
)

// Directories containing any of these path fragments are not walked.
var walkSkip = []string{"node_modules"}

// PragmaVersion returns the first compiler version pinned by a pragma, or "".
func PragmaVersion(source string) string {
	m := pragmaPattern.FindStringSubmatch(source)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// PatchBytecode replaces library link placeholders with the zero address so
// the bytecode is valid EVM code.
func PatchBytecode(code string) string {
	return bytecodePlaceholder.ReplaceAllString(code, zeroAddress)
}

// Builder turns Solidity files into analysis payloads.
type Builder struct {
	Compiler     *Compiler
	Version      string
	Remappings   []string
	Scribble     bool
	ScribblePath string
	Logger       *zap.Logger
}

func (b *Builder) log() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Payloads compiles target and returns its analysis payload. If contract is
// set its artifacts are used, otherwise the contract with the largest
// creation bytecode is picked.
func (b *Builder) Payloads(ctx context.Context, target, contract string) ([]model.Job, error) {
	src, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	pragma := PragmaVersion(string(src))
	b.log().Debug("solc version match", zap.String("file", target), zap.String("pragma", pragma))
	version := b.Version
	if version == "" {
		version = pragma
	}
	if version == "" {
		return nil, model.Usagef("No pragma found - please specify a solc version with --solc-version")
	}
	version = strings.TrimPrefix(version, "v")

	cwd := b.Compiler.Cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	mainSource := target
	allowPaths := cwd
	var scribbleFile string
	if b.Scribble {
		scribbleFile, err = b.instrument(ctx, target)
		if err != nil {
			return nil, err
		}
		defer os.Remove(scribbleFile)
		mainSource = scribbleFile
		allowPaths = scribbleFile
	}

	b.log().Debug("compiling", zap.String("file", mainSource), zap.String("allowPaths", allowPaths))
	out, err := b.Compiler.Compile(ctx, version, NewInput(mainSource, b.Remappings, cwd), allowPaths)
	if err != nil {
		return nil, err
	}
	job, err := AssemblePayload(out, mainSource, contract, "v"+version, os.ReadFile, b.log())
	if err != nil {
		return nil, err
	}
	if scribbleFile != "" {
		renameSource(&job, scribbleFile, scribbleName(cwd, target))
	}
	return []model.Job{job}, nil
}

// AssemblePayload builds a job from solc output. readFile loads the source
// text of each compiled file.
func AssemblePayload(out *StandardOutput, mainSource, contract, solcVersion string, readFile func(string) ([]byte, error), logger *zap.Logger) (model.Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	job := model.Job{
		Sources:     map[string]model.SourceEntry{},
		SolcVersion: solcVersion,
		MainSource:  mainSource,
		SourceList:  make([]string, len(out.Sources)),
	}
	for path, data := range out.Sources {
		if data.ID >= 0 && data.ID < len(job.SourceList) {
			job.SourceList[data.ID] = path
		}
		entry := model.SourceEntry{AST: data.AST}
		src, err := readFile(path)
		if err != nil {
			return job, fmt.Errorf("read compiled source %s: %w", path, err)
		}
		entry.Source = string(src)
		job.Sources[path] = entry
	}

	if contract != "" {
		if c, ok := out.Contracts[mainSource][contract]; ok {
			setContract(&job, contract, c)
			return job, nil
		}
		logger.Warn("Could not find contract in compilation artifacts; submitting the largest bytecode artifact instead",
			zap.String("contract", contract))
	}

	files := make([]string, 0, len(out.Contracts))
	for f := range out.Contracts {
		files = append(files, f)
	}
	sort.Strings(files)
	maxLen := 0
	for _, f := range files {
		names := make([]string, 0, len(out.Contracts[f]))
		for n := range out.Contracts[f] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			c := out.Contracts[f][n]
			if l := len(c.EVM.Bytecode.Object); l > maxLen {
				maxLen = l
				setContract(&job, n, c)
			}
		}
	}
	return job, nil
}

func setContract(job *model.Job, name string, c ContractOutput) {
	job.ContractName = name
	job.Bytecode = PatchBytecode(c.EVM.Bytecode.Object)
	job.SourceMap = c.EVM.Bytecode.SourceMap
	job.DeployedBytecode = PatchBytecode(c.EVM.DeployedBytecode.Object)
	job.DeployedSourceMap = c.EVM.DeployedBytecode.SourceMap
}

// scribbleName labels instrumented output with the target's path relative
// to cwd, so no local directory leaks into the payload.
func scribbleName(cwd, target string) string {
	name := target
	if filepath.IsAbs(target) {
		if rel, err := filepath.Rel(cwd, target); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		} else {
			name = filepath.Base(target)
		}
	}
	return "scribble-" + filepath.ToSlash(name)
}

func renameSource(job *model.Job, from, to string) {
	if entry, ok := job.Sources[from]; ok {
		delete(job.Sources, from)
		job.Sources[to] = entry
	}
	for i, s := range job.SourceList {
		if s == from {
			job.SourceList[i] = to
		}
	}
	job.MainSource = to
}

func (b *Builder) instrument(ctx context.Context, target string) (string, error) {
	path := b.ScribblePath
	if path == "" {
		path = "scribble"
	}
	res := tools.Run(ctx, tools.Command{Tool: path, Args: []string{target}})
	if res.Err != nil {
		return "", fmt.Errorf("scribble has encountered an error (code: %d)\n=====STDERR=====\n%s\n=====STDOUT=====\n%s",
			res.ExitCode, res.Stderr, res.Raw)
	}
	f, err := os.CreateTemp("", "scribble-*.sol")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(res.Raw); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// WalkDirectory compiles every Solidity file under dir, skipping dependency
// folders and paths listed in the directory's ignore file, and returns one
// payload per file.
func (b *Builder) WalkDirectory(ctx context.Context, dir string) ([]model.Job, error) {
	b.log().Debug("walking for sol files", zap.String("dir", dir), zap.Int("remappings", len(b.Remappings)))
	var files []string
	ignored := loadIgnore(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if rel, err := filepath.Rel(dir, path); err == nil && ignored.match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".sol" {
			return nil
		}
		for _, skip := range walkSkip {
			if strings.Contains(path, skip) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		b.log().Debug("no Solidity files found", zap.String("dir", dir))
		return nil, nil
	}
	b.log().Debug("found Solidity files to submit", zap.Strings("files", files))

	var jobs []model.Job
	for _, f := range files {
		js, err := b.Payloads(ctx, f, "")
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, js...)
	}
	return jobs, nil
}
