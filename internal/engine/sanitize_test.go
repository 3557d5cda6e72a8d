package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xab-mack/mythx-cli/internal/model"
)

func TestSanitizePathsMultipleSources(t *testing.T) {
	job := &model.Job{
		MainSource: "/home/u/proj/contracts/Token.sol",
		SourceList: []string{"/home/u/proj/contracts/Token.sol", "/home/u/proj/contracts/lib/Math.sol"},
		Sources: map[string]model.SourceEntry{
			"/home/u/proj/contracts/Token.sol": {
				Source: "x",
				AST:    map[string]any{"absolutePath": "/home/u/proj/contracts/Token.sol"},
			},
			"/home/u/proj/contracts/lib/Math.sol": {
				LegacyAST: map[string]any{"absolutePath": "/home/u/proj/contracts/lib/Math.sol"},
			},
		},
	}
	SanitizePaths(job, "/somewhere/else")

	assert.Equal(t, []string{"Token.sol", "lib/Math.sol"}, job.SourceList)
	assert.Equal(t, "Token.sol", job.MainSource)
	assert.Equal(t, "Token.sol", job.Sources["Token.sol"].AST["absolutePath"])
	assert.Equal(t, "x", job.Sources["Token.sol"].Source)
	assert.Equal(t, "lib/Math.sol", job.Sources["lib/Math.sol"].LegacyAST["absolutePath"])
}

func TestSanitizePathsSingleSourceUsesCwd(t *testing.T) {
	job := &model.Job{
		MainSource: "contracts/Token.sol",
		SourceList: []string{"contracts/Token.sol"},
		Sources: map[string]model.SourceEntry{
			"contracts/Token.sol": {AST: map[string]any{"absolutePath": "contracts/Token.sol"}},
		},
	}
	SanitizePaths(job, "/home/u/proj")

	assert.Equal(t, []string{"contracts/Token.sol"}, job.SourceList)
	assert.Equal(t, "contracts/Token.sol", job.MainSource)
	assert.Contains(t, job.Sources, "contracts/Token.sol")
	assert.Equal(t, "contracts/Token.sol", job.Sources["contracts/Token.sol"].AST["absolutePath"])
}

func TestSanitizePathsSingleAbsoluteSource(t *testing.T) {
	job := &model.Job{
		MainSource: "/home/u/proj/Token.sol",
		SourceList: []string{"/home/u/proj/Token.sol"},
	}
	SanitizePaths(job, "/home/u/other")
	assert.Equal(t, []string{"proj/Token.sol"}, job.SourceList)
	assert.Equal(t, "proj/Token.sol", job.MainSource)
}

func TestSanitizePathsLeavesUnrelatedNames(t *testing.T) {
	job := &model.Job{
		MainSource: "scribble-/tmp/x.sol",
		SourceList: []string{"/home/u/a.sol", "/home/u/b.sol"},
		Sources:    map[string]model.SourceEntry{"scribble-/tmp/x.sol": {}},
	}
	SanitizePaths(job, "/work")
	assert.Equal(t, "scribble-/tmp/x.sol", job.MainSource)
	assert.Contains(t, job.Sources, "scribble-/tmp/x.sol")
}

func TestSanitizePathsNoSourceList(t *testing.T) {
	job := &model.Job{Bytecode: "0x60", MainSource: "/abs/a.sol"}
	SanitizePaths(job, "/abs")
	assert.Equal(t, "/abs/a.sol", job.MainSource)
}

func TestCommonPath(t *testing.T) {
	assert.Equal(t, "/a/b", commonPath([]string{"/a/b/c.sol", "/a/b/d/e.sol"}))
	assert.Equal(t, "/", commonPath([]string{"/a/x.sol", "/b/y.sol"}))
	assert.Equal(t, "/a", commonPath([]string{"/a/bc", "/a/bd"}))
}
