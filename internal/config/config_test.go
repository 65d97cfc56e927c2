package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contractfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: src
  ignore: [generated]
contracts:
  replacement_class: Guard
pull:
  present_kinds: default
  transitive_overrides: true
rules:
  disabled: []
  only: [CR01, CR14]
concurrency: 2
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, []string{"generated"}, cfg.Project.Ignore)
	assert.Equal(t, "Guard", cfg.Contracts.ReplacementClass)
	assert.Equal(t, "Qoollo.Turbo", cfg.Contracts.ReplacementNamespace)
	assert.Equal(t, "default", cfg.Pull.SourceKinds)
	assert.Equal(t, "default", cfg.Pull.PresentKinds)
	assert.True(t, cfg.Pull.TransitiveOverrides)
	assert.Empty(t, cfg.Rules.Disabled)
	assert.Equal(t, []string{"CR01", "CR14"}, cfg.Rules.Only)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CONTRACTFIX_DB", "/tmp/x.db")
	t.Setenv("CONTRACTFIX_REPLACEMENT_CLASS", "Check")
	t.Setenv("CONTRACTFIX_CONCURRENCY", "3")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.Path)
	assert.Equal(t, "Check", cfg.Contracts.ReplacementClass)
	assert.Equal(t, 3, cfg.Concurrency)

	t.Setenv("CONTRACTFIX_CONCURRENCY", "zero")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: [1"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "contracts:\n  legacy: Contract\n",
		"unknown kind":     "pull:\n  source_kinds: everything\n",
		"zero concurrency": "concurrency: 0\n",
		"wrong type":       "rules:\n  only: CR01\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contractfix.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contractfix.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
