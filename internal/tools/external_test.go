package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDelegatesToRunner(t *testing.T) {
	var got Command
	restore := SetRunner(func(ctx context.Context, c Command) Result {
		got = c
		return Result{Tool: c.Tool, Raw: []byte("ok")}
	})
	t.Cleanup(restore)

	res := Run(context.Background(), Command{Tool: "solc", Args: []string{"--version"}, Stdin: []byte("{}")})
	assert.Equal(t, "solc", got.Tool)
	assert.Equal(t, []string{"--version"}, got.Args)
	assert.Equal(t, "{}", string(got.Stdin))
	assert.Equal(t, "ok", string(res.Raw))
}

func TestRunWithTimeoutSetsDeadline(t *testing.T) {
	restore := SetRunner(func(ctx context.Context, c Command) Result {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return Result{}
	})
	t.Cleanup(restore)
	RunWithTimeout(context.Background(), 1e9, Command{Tool: "x"})
}
