package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xab-mack/mythx-cli/internal/client"
	"github.com/xab-mack/mythx-cli/internal/config"
	"github.com/xab-mack/mythx-cli/internal/model"
)

func testCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)
	return cmd, &errOut
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		yes   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tc := range cases {
		st := &State{Stdin: strings.NewReader(tc.input), Opts: Options{Yes: tc.yes}}
		cmd, errOut := testCmd()
		got, err := st.Confirm(cmd, "Submit?")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		if !tc.yes {
			assert.Equal(t, "Submit? [y/N]: ", errOut.String())
		}
	}
}

func TestFetchReportsKeepsOrder(t *testing.T) {
	ids := []string{
		"0680a1e2-b908-4c9a-a15b-636ef9b61486",
		"3d6a8e4e-3b4e-4bd8-b7bb-6de0a2f1a6b1",
		"9b1c3f7a-2d4e-4a8b-9c0d-1e2f3a4b5c6d",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		id := parts[3]
		switch parts[len(parts)-1] {
		case "issues":
			_ = json.NewEncoder(w).Encode([]model.IssueReport{{SourceList: []string{id + ".sol"}}})
		case "input":
			_ = json.NewEncoder(w).Encode(model.Job{ContractName: id})
		}
	}))
	defer srv.Close()
	api, err := client.New(client.Options{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()})
	require.NoError(t, err)

	items, err := fetchReports(context.Background(), api, ids, true)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, id := range ids {
		assert.Equal(t, id, items[i].Issues.UUID)
		assert.Equal(t, []string{id + ".sol"}, items[i].Issues.Reports[0].SourceList)
		require.NotNil(t, items[i].Input)
		assert.Equal(t, id, items[i].Input.ContractName)
	}

	items, err = fetchReports(context.Background(), api, ids[:1], false)
	require.NoError(t, err)
	assert.Nil(t, items[0].Input)
}

func TestAnalyzeOptionsFromConfig(t *testing.T) {
	st := &State{}
	cmd := newAnalyzeCmd(st)
	require.NoError(t, cmd.ParseFlags([]string{"--mode", "deep"}))

	o := &analyzeOptions{mode: "deep", scribblePath: "scribble"}
	o.applyConfig(cmd, config.Analyze{
		Mode:        "standard",
		MinSeverity: "medium",
		Async:       true,
		Remappings:  []string{"a=b"},
	})
	assert.Equal(t, "deep", o.mode, "explicit flags win")
	assert.Equal(t, "medium", o.minSeverity)
	assert.True(t, o.async)
	assert.Equal(t, []string{"a=b"}, o.remappings)
	assert.Equal(t, "scribble", o.scribblePath)
}

func TestAnalyzeScribbleConfig(t *testing.T) {
	cmd := newAnalyzeCmd(&State{})
	require.NoError(t, cmd.ParseFlags(nil))

	o := &analyzeOptions{mode: "quick"}
	assert.False(t, o.propertyChecking())
	o.applyConfig(cmd, config.Analyze{EnableScribble: true, Include: []string{"A"}, Contracts: []string{"B"}})
	assert.True(t, o.scribble)
	assert.True(t, o.propertyChecking(), "scribble runs check properties")
	assert.Equal(t, []string{"A", "B"}, o.include)
}

func TestAnalyzeOptionsValidate(t *testing.T) {
	var usage *model.UsageError
	o := &analyzeOptions{mode: "quick"}
	require.NoError(t, o.validate())

	o.mode = "turbo"
	require.ErrorAs(t, o.validate(), &usage)

	o = &analyzeOptions{mode: "quick", minSeverity: "severe"}
	require.ErrorAs(t, o.validate(), &usage)

	o = &analyzeOptions{mode: "quick", createGroup: true, groupID: "g"}
	require.ErrorAs(t, o.validate(), &usage)
}

func TestParseIDs(t *testing.T) {
	_, err := parseIDs([]string{"0680a1e2-b908-4c9a-a15b-636ef9b61486", "nope"})
	var usage *model.UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Msg, "nope")
}
