package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tk0miya/herbfmt/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 2, cfg.IndentWidth)
	require.Equal(t, 80, cfg.MaxLineLength)
	require.Equal(t, []string{"**/*.html.erb"}, cfg.Include)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".herbfmt.yml")
	contents := "indent_width: 4\nmax_line_length: 100\ninclude:\n  - \"app/**/*.erb\"\nlint:\n  disabled: [\"tag-name-lowercase\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.IndentWidth)
	require.Equal(t, 100, cfg.MaxLineLength)
	require.Equal(t, []string{"app/**/*.erb"}, cfg.Include)
	require.Equal(t, []string{"tag-name-lowercase"}, cfg.Lint.Disabled)
}

func TestLoadAppliesDefaultsForZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".herbfmt.yml")
	require.NoError(t, os.WriteFile(path, []byte("include: [\"*.erb\"]\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.IndentWidth)
	require.Equal(t, 80, cfg.MaxLineLength)
}

func TestMergeOverridesOnlyProvidedFields(t *testing.T) {
	cfg := config.Default()
	merged := cfg.Merge(config.Overrides{IndentWidth: 4})

	require.Equal(t, 4, merged.IndentWidth)
	require.Equal(t, 80, merged.MaxLineLength)
	require.Equal(t, 2, cfg.IndentWidth, "Merge must not mutate the receiver")
}

func TestMergeWithNoOverridesLeavesConfigUnchanged(t *testing.T) {
	cfg := config.Default()
	merged := cfg.Merge(config.Overrides{})
	require.Equal(t, cfg, merged)
}
