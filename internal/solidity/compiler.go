package solidity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/cache"
	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/tools"
)

const compileTimeout = 5 * time.Minute

// StandardInput is the subset of the solc standard JSON input we produce.
type StandardInput struct {
	Language string                 `json:"language"`
	Sources  map[string]InputSource `json:"sources"`
	Settings Settings               `json:"settings"`
}

type InputSource struct {
	URLs []string `json:"urls"`
}

type Settings struct {
	Remappings      []string                       `json:"remappings"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
	Optimizer       Optimizer                      `json:"optimizer"`
}

type Optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

type EVMCode struct {
	Object    string `json:"object"`
	SourceMap string `json:"sourceMap"`
}

type ContractOutput struct {
	EVM struct {
		Bytecode         EVMCode `json:"bytecode"`
		DeployedBytecode EVMCode `json:"deployedBytecode"`
	} `json:"evm"`
}

type SourceOutput struct {
	ID  int            `json:"id"`
	AST map[string]any `json:"ast"`
}

type CompilerError struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

// StandardOutput is the subset of the solc standard JSON output we consume.
type StandardOutput struct {
	Errors    []CompilerError                      `json:"errors,omitempty"`
	Sources   map[string]SourceOutput              `json:"sources"`
	Contracts map[string]map[string]ContractOutput `json:"contracts"`
}

// Compiler drives a local solc binary in standard JSON mode.
type Compiler struct {
	// Path pins the solc executable. When empty it is resolved per version.
	Path   string
	Cwd    string
	Cache  *cache.Store
	Logger *zap.Logger
}

func (c *Compiler) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// NewInput builds the standard JSON input used for analysis payloads.
func NewInput(file string, remappings []string, cwd string) StandardInput {
	var maps []string
	for _, r := range remappings {
		maps = append(maps, strings.ReplaceAll(r, "{pwd}", cwd))
	}
	if len(maps) == 0 {
		maps = DefaultRemappings(cwd)
	}
	return StandardInput{
		Language: "Solidity",
		Sources:  map[string]InputSource{file: {URLs: []string{file}}},
		Settings: Settings{
			Remappings: maps,
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": {
						"evm.bytecode.object",
						"evm.bytecode.sourceMap",
						"evm.deployedBytecode.object",
						"evm.deployedBytecode.sourceMap",
					},
					"": {"ast"},
				},
			},
			Optimizer: Optimizer{Enabled: true, Runs: 200},
		},
	}
}

func DefaultRemappings(cwd string) []string {
	return []string{
		fmt.Sprintf("openzeppelin-solidity/=%s/node_modules/openzeppelin-solidity/", cwd),
		fmt.Sprintf("openzeppelin-zos/=%s/node_modules/openzeppelin-zos/", cwd),
		fmt.Sprintf("zos-lib/=%s/node_modules/zos-lib/", cwd),
	}
}

// Resolve finds a solc executable for the requested version. Lookup order:
// pinned path, ~/.solcx/solc-v<version>, solc-<version> on PATH, and finally
// a plain solc on PATH whose --version output matches.
func (c *Compiler) Resolve(ctx context.Context, version string) (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".solcx", "solc-v"+version)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if p, err := tools.LookPath("solc-" + version); err == nil {
		return p, nil
	}
	if p, err := tools.LookPath("solc"); err == nil {
		res := tools.RunWithTimeout(ctx, 10*time.Second, tools.Command{Tool: p, Args: []string{"--version"}})
		if res.Err == nil && strings.Contains(string(res.Raw), "Version: "+version) {
			return p, nil
		}
	}
	return "", model.Usagef("Error installing solc version v%s: no matching compiler found; install it or pass --solc-path", version)
}

type cachedOutput struct {
	Hashes map[string]string `json:"hashes"`
	Output json.RawMessage   `json:"output"`
}

// Compile runs solc on the input. Results are cached by input and compiler;
// a cached entry is reused only while every compiled source is unchanged.
func (c *Compiler) Compile(ctx context.Context, version string, in StandardInput, allowPaths string) (*StandardOutput, error) {
	solc, err := c.Resolve(ctx, version)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	key := cache.Key("solc-standard-json", solc, version, allowPaths, string(payload))
	if c.Cache != nil {
		if out, ok := c.loadCached(key); ok {
			c.log().Debug("using cached compiler output", zap.String("solc", solc))
			return out, nil
		}
	}

	c.log().Debug("compiling", zap.String("solc", solc), zap.String("allowPaths", allowPaths))
	res := tools.RunWithTimeout(ctx, compileTimeout, tools.Command{
		Tool:  solc,
		Args:  []string{"--standard-json", "--allow-paths", allowPaths},
		Stdin: payload,
	})
	if res.Err != nil && len(res.Raw) == 0 {
		return nil, model.Usagef("Error compiling source with solc v%s: %v %s", version, res.Err, strings.TrimSpace(string(res.Stderr)))
	}
	var out StandardOutput
	if err := json.Unmarshal(res.Raw, &out); err != nil {
		return nil, fmt.Errorf("decode solc output: %w", err)
	}
	var msgs []string
	for _, e := range out.Errors {
		if strings.EqualFold(e.Severity, "error") {
			msg := e.FormattedMessage
			if msg == "" {
				msg = e.Message
			}
			msgs = append(msgs, strings.TrimSpace(msg))
		}
	}
	if len(msgs) > 0 {
		return nil, model.Usagef("Error compiling source with solc v%s: %s", version, strings.Join(msgs, "\n"))
	}
	if c.Cache != nil {
		c.storeCached(key, res.Raw, &out)
	}
	return &out, nil
}

func (c *Compiler) loadCached(key string) (*StandardOutput, bool) {
	raw, ok := c.Cache.Load(key)
	if !ok {
		return nil, false
	}
	var entry cachedOutput
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	for path, want := range entry.Hashes {
		if got, err := hashFile(path); err != nil || got != want {
			return nil, false
		}
	}
	var out StandardOutput
	if err := json.Unmarshal(entry.Output, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *Compiler) storeCached(key string, raw []byte, out *StandardOutput) {
	entry := cachedOutput{Hashes: map[string]string{}, Output: raw}
	paths := make([]string, 0, len(out.Sources))
	for p := range out.Sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		h, err := hashFile(p)
		if err != nil {
			return
		}
		entry.Hashes[p] = h
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.Cache.Store(key, b); err != nil {
		c.log().Debug("cache store failed", zap.Error(err))
	}
}

func hashFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
