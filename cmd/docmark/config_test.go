package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	flagConfig = ""
	flagWorkspace = t.TempDir()

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Contains(t, cfg.Extensions, ".slang")
	require.False(t, cfg.ShowHidden)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := "index_path: custom/index.db\nshow_hidden: true\nextensions: [\".slang\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".docmark.yaml"), []byte(data), 0o644))

	flagConfig = ""
	flagWorkspace = dir

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.True(t, cfg.ShowHidden)
	require.Equal(t, []string{".slang"}, cfg.Extensions)
	require.Equal(t, filepath.Join(dir, "custom", "index.db"), cfg.indexPath())
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "absent.yaml")
	defer func() { flagConfig = "" }()

	_, err := loadConfig()
	require.Error(t, err)
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	for _, name := range []string{"a.slang", "b.txt", "sub/c.hlsl", ".git/d.slang"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("int x;\n"), 0o644))
	}

	flagConfig = ""
	flagWorkspace = dir
	cfg, err := loadConfig()
	require.NoError(t, err)

	files, err := cfg.collectSources(nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a.slang"),
		filepath.Join(dir, "sub", "c.hlsl"),
	}, files)

	// Explicit file arguments pass through regardless of extension.
	files, err = cfg.collectSources([]string{filepath.Join(dir, "b.txt")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "b.txt")}, files)
}
