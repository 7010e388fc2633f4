// Package toolchain wraps the external C compiler invocation that spec.md
// §1/§6.3 scopes out of the core: once internal/compiler has produced C
// text, something has to hand it to gcc and link a native executable. This
// mirrors the teacher's own external-tool discovery (findLLC/findOpt in
// cmd/malphas/main.go), retargeted from llc/opt to gcc/cc.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// BuildTimeout bounds how long the external compiler is allowed to run.
const BuildTimeout = 30 * time.Second

// FindGCC locates a C compiler, checking PATH first and then the common
// install prefixes the teacher's findLLC/findOpt also check.
func FindGCC() (string, error) {
	if path, err := exec.LookPath("gcc"); err == nil {
		return path, nil
	}
	if path, err := exec.LookPath("cc"); err == nil {
		return path, nil
	}

	brewPrefix := os.Getenv("HOMEBREW_PREFIX")
	prefixes := []string{"/opt/homebrew", "/usr/local"}
	if brewPrefix != "" {
		prefixes = []string{brewPrefix}
	}
	for _, prefix := range prefixes {
		for _, name := range []string{"bin/gcc", "bin/cc"} {
			candidate := filepath.Join(prefix, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("toolchain: gcc not found in PATH or common installation locations")
}

// Options controls a single Build invocation.
type Options struct {
	// CSource is the generated C11 translation unit text.
	CSource string
	// OutputPath is the path of the native executable to produce.
	OutputPath string
	// Freestanding links against the freestanding runtime support object
	// instead of libc, matching spec.md §4.4.8's two entry modes.
	Freestanding bool
	// RuntimeObject is the path to the freestanding support object
	// (startup glue + sm_std_io_* implementations) to link in. It is only
	// used when Freestanding is true, and is left off the link when empty.
	RuntimeObject string
}

// Build writes opts.CSource to a temp file, invokes gcc, and returns the
// path of the produced binary. It logs each step through log, matching the
// teacher's convention of structured rather than ad hoc stderr logging.
func Build(ctx context.Context, log *zap.Logger, opts Options) (string, error) {
	gccPath, err := FindGCC()
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "summit-build-")
	if err != nil {
		return "", fmt.Errorf("toolchain: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cFile := filepath.Join(tmpDir, "out.c")
	if err := os.WriteFile(cFile, []byte(opts.CSource), 0o644); err != nil {
		return "", fmt.Errorf("toolchain: %w", err)
	}

	args := buildArgs(cFile, opts)

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	log.Debug("invoking C toolchain", zap.String("gcc", gccPath), zap.Strings("args", args))
	cmd := exec.CommandContext(buildCtx, gccPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if buildCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("toolchain: gcc timed out after %s", BuildTimeout)
		}
		return "", fmt.Errorf("toolchain: gcc failed: %w", err)
	}

	log.Info("build succeeded", zap.String("output", opts.OutputPath))
	return opts.OutputPath, nil
}

func buildArgs(cFile string, opts Options) []string {
	args := []string{"-std=c11", "-w", cFile, "-o", opts.OutputPath}
	if opts.Freestanding {
		args = append(args, "-ffreestanding", "-nostdlib")
		if opts.RuntimeObject != "" {
			args = append(args, opts.RuntimeObject)
		}
	}
	return args
}

// Run builds opts into a temporary executable and runs it, streaming
// stdout/stderr to the current process, returning the child's exit error
// (if any).
func Run(ctx context.Context, log *zap.Logger, opts Options) error {
	binPath, err := Build(ctx, log, opts)
	if err != nil {
		return err
	}
	defer os.Remove(binPath)

	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
