// Package config loads the Summit.toml project manifest. It is the one
// collaborator cmd/summit needs to turn a project directory into a source
// path and a build mode before handing source text to internal/compiler.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the conventional manifest name inside a Summit project.
const FileName = "Summit.toml"

// ProjectConfig is the decoded shape of Summit.toml. It is intentionally
// thin: spec.md scopes project configuration out of the core pipeline, so
// the only fields recorded are the ones cmd/summit needs to invoke
// internal/compiler and internal/toolchain.
type ProjectConfig struct {
	Project Project `toml:"project"`
	Build   Build   `toml:"build"`
}

// Project carries the manifest's [project] table.
type Project struct {
	// Name is the project name, used as the default output binary name.
	Name string `toml:"name"`
	// Entry is the path (relative to the manifest) of the program's .sm
	// entry file.
	Entry string `toml:"entry"`
}

// Build carries the manifest's [build] table.
type Build struct {
	// Freestanding selects spec.md §4.4.8's freestanding entry convention
	// (_start + syscall1(SYS_exit, ...)) over the hosted one (main).
	Freestanding bool `toml:"freestanding"`
}

// Default returns the manifest scaffold writes for a new project.
func Default(name string) ProjectConfig {
	return ProjectConfig{
		Project: Project{Name: name, Entry: "src/main.sm"},
		Build:   Build{Freestanding: false},
	}
}

// Load decodes the manifest at path, rejects a manifest without
// [project].name, and defaults a missing [project].entry to src/main.sm.
func Load(path string) (ProjectConfig, error) {
	var cfg ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Project.Name == "" {
		return ProjectConfig{}, fmt.Errorf("config: %s is missing [project].name", path)
	}
	if cfg.Project.Entry == "" {
		cfg.Project.Entry = "src/main.sm"
	}
	return cfg, nil
}

// LoadDir loads FileName from dir.
func LoadDir(dir string) (ProjectConfig, error) {
	return Load(filepath.Join(dir, FileName))
}

// EntryPath resolves the configured entry file relative to the manifest's
// directory.
func (c ProjectConfig) EntryPath(manifestDir string) string {
	if filepath.IsAbs(c.Project.Entry) {
		return c.Project.Entry
	}
	return filepath.Join(manifestDir, c.Project.Entry)
}

// Write renders cfg as TOML and writes it to path, creating parent
// directories as needed.
func Write(path string, cfg ProjectConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
