package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/app/models"
	"folio/app/repositories"
)

// isolateEnv clears the variables the configuration reads so the commands run
// against defaults and the fallback posts.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONTENTFUL_SPACE_ID", "CONTENTFUL_ACCESS_TOKEN", "CONTENTFUL_PREVIEW_ACCESS_TOKEN",
		"CONTENTFUL_PREVIEW_MODE", "VERCEL_ENV", "NEXT_PUBLIC_VERCEL_ENV", "APP_ENV",
		"PREVIEW_SECRET", "PREVIEW_SECRET_HASH", "SESSION_SECRET", "DATA_DIR",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

// run executes the CLI with args and returns its combined output.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func setupDataDir(t *testing.T) string {
	t.Helper()
	isolateEnv(t)
	return filepath.Join(t.TempDir(), "data", "badger")
}

func TestVersion(t *testing.T) {
	// An invalid log level would fail configuration loading.
	t.Setenv("LOG_LEVEL", "loud")

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "folio version "+Version+"\n", out)
}

func TestInvalidConfiguration(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := run(t, "", "store", "init", "--data-dir", filepath.Join(t.TempDir(), "badger"))
	assert.Error(t, err)
}

func TestStoreInit(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, "", "store", "init", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Store initialized successfully")
	assert.DirExists(t, dir)

	out, err = run(t, "", "store", "init", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Store already exists")
}

func TestStoreClean(t *testing.T) {
	tests := []struct {
		name       string
		create     bool
		input      string
		args       []string
		wantOutput string
		wantExists bool
	}{
		{
			name:       "missing store",
			wantOutput: "Store is already clean (does not exist)",
		},
		{
			name:       "confirmed",
			create:     true,
			input:      "y\n",
			wantOutput: "Store cleaned successfully",
		},
		{
			name:       "cancelled",
			create:     true,
			input:      "n\n",
			wantOutput: "Operation cancelled",
			wantExists: true,
		},
		{
			name:       "no answer",
			create:     true,
			wantOutput: "Operation cancelled",
			wantExists: true,
		},
		{
			name:       "yes flag",
			create:     true,
			args:       []string{"--yes"},
			wantOutput: "Store cleaned successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupDataDir(t)
			if tt.create {
				_, err := run(t, "", "store", "init", "--data-dir", dir)
				require.NoError(t, err)
			}

			args := append([]string{"store", "clean", "--data-dir", dir}, tt.args...)
			out, err := run(t, tt.input, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOutput)

			if tt.wantExists {
				assert.DirExists(t, dir)
			} else {
				assert.NoDirExists(t, dir)
			}
		})
	}
}

func TestStoreBackupRestore(t *testing.T) {
	dir := setupDataDir(t)

	store, err := repositories.NewStore(dir, nil)
	require.NoError(t, err)
	checks := repositories.NewBadgerCheckRepository(store.DB())
	require.NoError(t, checks.Create(&models.ConnectivityCheck{
		Probes: []models.Probe{{Mode: "delivery", OK: true, Entries: 3}},
	}))
	require.NoError(t, store.Close())

	backupFile := filepath.Join(t.TempDir(), "store.bak")
	out, err := run(t, "", "store", "backup", "--data-dir", dir, "-o", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Store backed up successfully to "+backupFile)

	info, err := os.Stat(backupFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	out, err = run(t, "n\n", "store", "restore", backupFile, "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled")

	out, err = run(t, "", "store", "clean", "--data-dir", dir, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Store cleaned successfully")

	out, err = run(t, "", "store", "restore", backupFile, "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Store restored successfully")

	store, err = repositories.NewStore(dir, nil)
	require.NoError(t, err)
	defer store.Close()
	restored, err := repositories.NewBadgerCheckRepository(store.DB()).List(10)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, 3, restored[0].Probes[0].Entries)
}

func TestStoreBackupDefaultLocation(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, "", "store", "backup", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No store exists to backup")

	_, err = run(t, "", "store", "init", "--data-dir", dir)
	require.NoError(t, err)

	out, err = run(t, "", "store", "backup", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(filepath.Dir(dir), "backups", "backup_"))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(dir), "backups", "backup_*.db"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestStoreRestoreErrors(t *testing.T) {
	dir := setupDataDir(t)

	_, err := run(t, "", "store", "restore", filepath.Join(t.TempDir(), "missing.bak"), "--data-dir", dir)
	assert.ErrorContains(t, err, "backup file does not exist")

	empty := filepath.Join(t.TempDir(), "empty.bak")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = run(t, "", "store", "restore", empty, "--data-dir", dir)
	assert.ErrorContains(t, err, "backup file is empty")

	_, err = run(t, "", "store", "restore", "--data-dir", dir)
	assert.Error(t, err)
}
