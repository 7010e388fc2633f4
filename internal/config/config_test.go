package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	want := Default("hello")
	require.NoError(t, Write(path, want))

	got, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, want.Project.Name, got.Project.Name)
	assert.Equal(t, want.Project.Entry, got.Project.Entry)
	assert.Equal(t, want.Build.Freestanding, got.Build.Freestanding)
}

func TestLoadMissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, Write(path, ProjectConfig{Build: Build{Freestanding: true}}))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDefaultsEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, Write(path, ProjectConfig{Project: Project{Name: "bare"}}))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src/main.sm", cfg.Project.Entry)
}

func TestEntryPathRelativeToManifest(t *testing.T) {
	cfg := Default("proj")
	got := cfg.EntryPath("/work/proj")
	assert.Equal(t, filepath.Join("/work/proj", "src/main.sm"), got)
}
