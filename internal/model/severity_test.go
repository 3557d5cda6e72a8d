package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"high":    SeverityHigh,
		"High":    SeverityHigh,
		"MEDIUM":  SeverityMedium,
		" low ":   SeverityLow,
		"none":    SeverityNone,
		"unknown": SeverityUnknown,
		"":        SeverityUnknown,
		"bogus":   SeverityUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSeverity(in), "input %q", in)
	}
}

func TestSeverityGTE(t *testing.T) {
	assert.True(t, SeverityGTE(SeverityHigh, SeverityMedium))
	assert.True(t, SeverityGTE(SeverityLow, SeverityLow))
	assert.True(t, SeverityGTE(SeverityNone, SeverityUnknown))
	assert.False(t, SeverityGTE(SeverityLow, SeverityMedium))
	assert.False(t, SeverityGTE(SeverityUnknown, SeverityNone))
}

func TestSeverityUnmarshalIsCaseInsensitive(t *testing.T) {
	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(`{"swcID":"SWC-110","severity":"high"}`), &issue))
	assert.Equal(t, SeverityHigh, issue.Severity)
}
