package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summit-lang/summit/internal/config"
)

func TestNewWritesManifestAndEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "greeter")

	require.NoError(t, New(dir, "greeter"))

	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "greeter", cfg.Project.Name)

	entry := cfg.EntryPath(dir)
	data, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), "func main")
}

func TestNewRefusesExistingDir(t *testing.T) {
	dir := t.TempDir()
	err := New(dir, "x")
	assert.Error(t, err)
}
