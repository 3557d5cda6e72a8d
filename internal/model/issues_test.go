package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceMapComponentsInherit(t *testing.T) {
	comps := SourceMap("10:5:0;;12:3;:7:1:i").Components()
	assert.Equal(t, []SourceMapComponent{
		{Offset: 10, Length: 5, FileID: 0},
		{Offset: 10, Length: 5, FileID: 0},
		{Offset: 12, Length: 3, FileID: 0},
		{Offset: 12, Length: 7, FileID: 1, Jump: "i"},
	}, comps)
}

func TestSourceMapEmpty(t *testing.T) {
	assert.Nil(t, SourceMap("").Components())
}

func TestIssueTitleFallsBackToRegistry(t *testing.T) {
	assert.Equal(t, "Assert Violation", Issue{SWCID: "SWC-110"}.Title())
	assert.Equal(t, "Custom", Issue{SWCID: "SWC-110", SWCTitle: "Custom"}.Title())
}

func TestDetectedIssuesCountAndContains(t *testing.T) {
	d := DetectedIssues{Reports: []IssueReport{
		{Issues: []Issue{{SWCID: "SWC-110"}, {SWCID: "SWC-107"}}},
		{Issues: []Issue{{SWCID: "SWC-101"}}},
	}}
	assert.Equal(t, 3, d.Count())
	assert.True(t, d.Contains("SWC-101"))
	assert.False(t, d.Contains("SWC-103"))
}

func TestIssuePositions(t *testing.T) {
	input := &Job{Sources: map[string]SourceEntry{
		"a.sol": {Source: "pragma solidity ^0.5.0;\ncontract A {\n  uint x;\n}\n"},
	}}
	issue := Issue{Locations: []SourceLocation{
		{SourceMap: "38:6:0", SourceFormat: SourceFormatText, SourceType: SourceTypeSolidityFile},
		{SourceMap: "120:1:1", SourceList: []string{"x", "b.sol"}},
		{SourceMap: ""},
	}}
	pos := issue.Positions([]string{"a.sol"}, input)
	require.Len(t, pos, 2)
	assert.Equal(t, "a.sol", pos[0].File)
	assert.Equal(t, 3, pos[0].Line)
	assert.Equal(t, "uint x;", pos[0].Code)
	assert.True(t, pos[0].IsText())
	assert.Equal(t, "b.sol", pos[1].File)
	assert.False(t, pos[1].Resolved())
}

func TestIssueAllPositions(t *testing.T) {
	input := &Job{Sources: map[string]SourceEntry{
		"a.sol": {Source: "pragma solidity ^0.5.0;\ncontract A {\n  uint x;\n}\n"},
	}}
	issue := Issue{Locations: []SourceLocation{{SourceMap: "24:10:0;38:6"}}}

	first := issue.Positions([]string{"a.sol"}, input)
	require.Len(t, first, 1)
	assert.Equal(t, 2, first[0].Line)

	all := issue.AllPositions([]string{"a.sol"}, input)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Line)
	assert.Equal(t, "a.sol", all[1].File, "file inherited from the previous entry")
	assert.Equal(t, 3, all[1].Line)
}
