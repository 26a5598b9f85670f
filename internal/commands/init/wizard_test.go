package initcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/docsync/internal/core/config"
)

func TestWizard_YesWritesDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	path := filepath.Join(t.TempDir(), "docsync", "config.yaml")

	require.NoError(t, NewWizard(WizardOptions{ConfigPath: path, Yes: true}).Run(context.Background()))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.Sync.Debounce, cfg.Sync.Debounce)
	assert.Equal(t, defaults.Render.Style, cfg.Render.Style)
	assert.Equal(t, defaults.Preview, cfg.Preview)
	assert.Equal(t, filepath.Join("/tmp/state", "docsync", "docsync.log"), cfg.Log.File)
}

func TestWizard_YesRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync: {}\n"), 0o644))

	err := NewWizard(WizardOptions{ConfigPath: path, Yes: true}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestWizard_ForceBacksUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  width: 60\n"), 0o644))

	require.NoError(t, NewWizard(WizardOptions{ConfigPath: path, Yes: true, Force: true}).Run(context.Background()))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "render:\n  width: 60\n", string(backup))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Render.Width)
}

func TestStyleNames(t *testing.T) {
	names := StyleNames()
	assert.Contains(t, names, "notty")
	assert.IsNonDecreasing(t, names)
}

func TestBackupConfig_Missing(t *testing.T) {
	backup, err := BackupConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestWriteAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, writeAtomic(path, []byte("a: 1\n"), 0o600))
	require.NoError(t, writeAtomic(path, []byte("a: 2\n"), 0o600))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
