package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `ci: true
format: json
output: report.json
analyze:
  mode: deep
  create-group: true
  min-severity: medium
  blacklist: SWC-101,103
  remappings:
    - "lib/={pwd}/lib/"
  targets:
    - contracts/Token.sol:Token
ignore:
  - swc: SWC-110
    path: contracts/legacy
    reason: audited
`

func TestLoadSearchesUpwards(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(sample), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, path, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)
	assert.True(t, cfg.CI)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "report.json", cfg.Output)
	assert.Equal(t, "deep", cfg.Analyze.Mode)
	assert.True(t, cfg.Analyze.CreateGroup)
	assert.Equal(t, "SWC-101,103", cfg.Analyze.Blacklist)
	assert.Equal(t, []string{"lib/={pwd}/lib/"}, cfg.Analyze.Remappings)
	assert.Equal(t, []string{"contracts/Token.sol:Token"}, cfg.Analyze.Targets)
	require.Len(t, cfg.Ignore, 1)
	assert.Equal(t, IgnoreRule{SWC: "SWC-110", Path: "contracts/legacy", Reason: "audited"}, cfg.Ignore[0])
}

func TestLoadOlderAnalyzeKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := "analyze:\n  enable-scribble: true\n  contracts:\n    - Token\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Analyze.EnableScribble)
	assert.Equal(t, []string{"Token"}, cfg.Analyze.Contracts)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, path, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("analyze: [oops"), 0o644))
	_, err := LoadFile(p)
	require.Error(t, err)
}

func TestWriteRoundTripAndNoOverwrite(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Write(p, Default()))
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Error(t, Write(p, Default()))
}

func TestEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MYTHX_API_KEY=from-file\nMYTHX_USERNAME=alice\n"), 0o644))
	t.Setenv("MYTHX_USERNAME", "bob")
	t.Setenv("MYTHX_API_KEY", "")
	os.Unsetenv("MYTHX_API_KEY")
	t.Setenv("MYTHX_DEBUG", "true")

	require.NoError(t, LoadDotEnv(dir))
	env := FromEnv()
	assert.Equal(t, "from-file", env.APIKey)
	assert.Equal(t, "bob", env.Username)
	assert.True(t, env.Debug)
}

func TestLoadDotEnvMissing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()))
}
