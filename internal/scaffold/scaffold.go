// Package scaffold implements `summit new`, the project-scaffolding
// collaborator spec.md §1 scopes out of the core. It generates the minimal
// Summit.toml plus src/main.sm skeleton a fresh project needs to run
// end to end through internal/config, internal/compiler, and
// internal/toolchain.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/summit-lang/summit/internal/config"
)

const mainTemplate = `import std::io;

func main(): i8 {
    io::println("hello, %s!");
    ret 0;
}
`

// New creates a new project directory at dir, named name, containing a
// Summit.toml manifest and a src/main.sm entry point that prints a greeting.
func New(dir, name string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("scaffold: %s already exists", dir)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return fmt.Errorf("scaffold: %w", err)
	}

	cfg := config.Default(name)
	if err := config.Write(filepath.Join(dir, config.FileName), cfg); err != nil {
		return err
	}

	src := fmt.Sprintf(mainTemplate, name)
	mainPath := filepath.Join(dir, cfg.Project.Entry)
	if err := os.WriteFile(mainPath, []byte(src), 0o644); err != nil {
		return fmt.Errorf("scaffold: %w", err)
	}
	return nil
}
