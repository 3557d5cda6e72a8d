package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xab-mack/mythx-cli/internal/solidity"
	"github.com/xab-mack/mythx-cli/internal/tools"
)

func truffleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "truffle-config.js"))
	build := filepath.Join(root, "build", "contracts")
	require.NoError(t, os.MkdirAll(build, 0o755))
	write := func(name string, a map[string]any) {
		b, err := json.Marshal(a)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(build, name+".json"), b, 0o644))
	}
	src := filepath.Join(root, "contracts")
	write("Token", map[string]any{
		"contractName": "Token", "bytecode": "0x6080", "deployedBytecode": "0x6080",
		"sourceMap": "0:1:1", "deployedSourceMap": "0:1:1",
		"sourcePath": filepath.Join(src, "Token.sol"), "source": "contract Token {}",
		"ast":      map[string]any{"src": "0:17:1", "absolutePath": filepath.Join(src, "Token.sol")},
		"compiler": map[string]any{"version": "0.5.16"},
	})
	write("IToken", map[string]any{
		"contractName": "IToken", "bytecode": "0x", "deployedBytecode": "0x",
		"sourcePath": filepath.Join(src, "IToken.sol"), "source": "interface IToken {}",
		"ast":      map[string]any{"src": "0:19:0"},
		"compiler": map[string]any{"version": "0.5.16"},
	})
	return root
}

func TestPrepareTruffle(t *testing.T) {
	root := truffleProject(t)
	targets, err := DetermineTargets(nil, ScenarioNone, root)
	require.NoError(t, err)

	var notices bytes.Buffer
	e := New(nil, nil)
	e.Notices = &notices
	e.Cwd = root

	jobs, err := e.Prepare(context.Background(), targets, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Token", jobs[0].ContractName)
	assert.Equal(t, []string{"IToken.sol", "Token.sol"}, jobs[0].SourceList)
	assert.Equal(t, "Token.sol", jobs[0].MainSource)
	assert.Equal(t, "Token.sol", jobs[0].Sources["Token.sol"].AST["absolutePath"])
	assert.Contains(t, notices.String(), "Skipping submission for contract IToken")
}

func TestPrepareTruffleMultipleContracts(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "truffle-config.js"))
	build := filepath.Join(root, "build", "contracts")
	require.NoError(t, os.MkdirAll(build, 0o755))
	for i, name := range []string{"A", "B"} {
		src := filepath.Join(root, "contracts", name+".sol")
		b, err := json.Marshal(map[string]any{
			"contractName": name, "bytecode": "0x6080", "deployedBytecode": "0x6080",
			"sourceMap": "0:1:0", "deployedSourceMap": "0:1:0",
			"sourcePath": src, "source": "contract " + name + " {}",
			"ast":      map[string]any{"src": "0:13:" + strconv.Itoa(i), "absolutePath": src},
			"compiler": map[string]any{"version": "0.5.16"},
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(build, name+".json"), b, 0o644))
	}

	e := New(nil, nil)
	e.Notices = io.Discard
	e.Cwd = root
	jobs, err := e.Prepare(context.Background(), []Target{{Scenario: ScenarioTruffle, Path: root}}, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	for _, job := range jobs {
		want := job.ContractName + ".sol"
		assert.Equal(t, []string{"A.sol", "B.sol"}, job.SourceList, job.ContractName)
		assert.Equal(t, want, job.MainSource)
		assert.Contains(t, job.Sources, want)
	}
}

func TestPrepareScribbleStripsLocalPaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "contracts", "foo.sol")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte("pragma solidity 0.5.0;\ncontract Foo {}\n"), 0o644))
	restore := tools.SetRunner(func(ctx context.Context, c tools.Command) tools.Result {
		if c.Tool == "scribble" {
			return tools.Result{Raw: []byte("pragma solidity 0.5.0;\ncontract Foo {}\n")}
		}
		tmp := c.Args[2]
		var foo solidity.ContractOutput
		foo.EVM.Bytecode = solidity.EVMCode{Object: "6080", SourceMap: "0:1:0"}
		foo.EVM.DeployedBytecode = solidity.EVMCode{Object: "6080", SourceMap: "0:1:0"}
		out, _ := json.Marshal(solidity.StandardOutput{
			Sources:   map[string]solidity.SourceOutput{tmp: {ID: 0}},
			Contracts: map[string]map[string]solidity.ContractOutput{tmp: {"Foo": foo}},
		})
		return tools.Result{Raw: out}
	})
	defer restore()

	e := New(&solidity.Builder{Compiler: &solidity.Compiler{Path: "solc", Cwd: dir}, Scribble: true}, nil)
	e.Notices = io.Discard
	e.Cwd = dir
	jobs, err := e.Prepare(context.Background(), []Target{{Scenario: ScenarioSolidityFile, Path: file}}, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	want := "scribble-contracts/foo.sol"
	assert.Equal(t, want, jobs[0].MainSource)
	assert.Equal(t, []string{want}, jobs[0].SourceList)
	assert.Contains(t, jobs[0].Sources, want)
	for name := range jobs[0].Sources {
		assert.NotContains(t, name, dir)
	}
}

func TestPrepareIncludeMissing(t *testing.T) {
	root := truffleProject(t)
	e := New(nil, nil)
	e.Cwd = root
	_, err := e.Prepare(context.Background(), []Target{{Scenario: ScenarioTruffle, Path: root}}, []string{"Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nope")
}

func TestBuildJobsSolidityFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "A.sol")
	require.NoError(t, os.WriteFile(file, []byte("pragma solidity 0.5.0;\ncontract A {}\ncontract B {}\n"), 0o644))
	restore := tools.SetRunner(func(ctx context.Context, c tools.Command) tools.Result {
		var a, b solidity.ContractOutput
		a.EVM.Bytecode = solidity.EVMCode{Object: "60", SourceMap: "0:1:0"}
		b.EVM.Bytecode = solidity.EVMCode{Object: "6060", SourceMap: "0:1:0"}
		out, _ := json.Marshal(solidity.StandardOutput{
			Sources:   map[string]solidity.SourceOutput{file: {ID: 0}},
			Contracts: map[string]map[string]solidity.ContractOutput{file: {"A": a, "B": b}},
		})
		return tools.Result{Raw: out}
	})
	defer restore()

	e := New(&solidity.Builder{Compiler: &solidity.Compiler{Path: "solc", Cwd: dir}}, nil)
	jobs, err := e.BuildJobs(context.Background(), []Target{{Scenario: ScenarioSolidityFile, Path: file, Contract: "A"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "A", jobs[0].ContractName)
	assert.Equal(t, "v0.5.0", jobs[0].SolcVersion)
}

func TestBuildJobsHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, nil).BuildJobs(ctx, []Target{{Scenario: ScenarioTruffle, Path: t.TempDir()}})
	assert.ErrorIs(t, err, context.Canceled)
}
