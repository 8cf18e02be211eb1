package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mcncl/debson/internal/errors"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.NormalizeKeys)
	assert.Equal(t, 1, cfg.Workers)
	assert.Empty(t, cfg.Output.Dir)
	assert.False(t, cfg.Output.SnakeCaseNames)
	assert.False(t, cfg.Dev.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	content := `
indent: 4
normalize_keys: false
workers: 8
output:
  dir: out
  snake_case_names: true
dev:
  debug: true
`
	path := filepath.Join(t.TempDir(), ".debson.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Indent)
	assert.False(t, cfg.NormalizeKeys)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Output.SnakeCaseNames)
	assert.True(t, cfg.Dev.Debug)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".debson.yml")
	require.NoError(t, os.WriteFile(path, []byte("indent: 3\n"), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Indent)
	// Unset fields stay at their defaults.
	assert.True(t, cfg.NormalizeKeys)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".debson.yml")
	require.NoError(t, os.WriteFile(path, []byte("indent: [not a number"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.Indent = 0
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidConfig)

	cfg = NewConfig()
	cfg.Indent = 9
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidConfig)

	cfg = NewConfig()
	cfg.Workers = 0
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidConfig)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	cfgPath := filepath.Join(dir, ".debson.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("indent: 2\n"), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()
	require.NoError(t, os.Chdir(sub))

	found := FindConfigFile()

	// Resolve symlinks before comparing; t.TempDir may live behind one.
	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(found))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, ".debson.yaml", filepath.Base(found))
}

func TestFallbackName(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "report.json", cfg.FallbackName("report"))
	assert.Equal(t, "dir/report.dat.json", cfg.FallbackName("dir/report.dat"))

	cfg.Output.SnakeCaseNames = true
	assert.Equal(t, "my_report.json", cfg.FallbackName("MyReport"))
	assert.Equal(t, "dir/my_report.json", cfg.FallbackName("dir/MyReport.dat"))
}
