// Command summit is the CLI dispatcher spec.md §1 names as an out-of-scope
// collaborator ("the CLI command dispatcher... and argument parsing"),
// implemented here as a thin shell over internal/compiler,
// internal/toolchain, internal/config, and internal/scaffold, the same way
// the teacher's cmd/malphas/main.go shells over its own pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/summit-lang/summit/internal/compiler"
	"github.com/summit-lang/summit/internal/config"
	"github.com/summit-lang/summit/internal/scaffold"
	"github.com/summit-lang/summit/internal/toolchain"
)

var debugFlag = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug-level logging",
}

// newLogger builds a *zap.Logger the same way the teacher's
// options.HandleLoggingParams does: a production config with caller/stack
// traces disabled and the level switched by the --debug flag.
func newLogger(ctx *cli.Context) *zap.Logger {
	level := zapcore.InfoLevel
	if ctx.GlobalBool("debug") || ctx.Bool("debug") {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.Encoding = "console"
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.Level = zap.NewAtomicLevelAt(level)

	logger, err := cc.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a malformed
		// config; this one is static, so fall back rather than panic.
		return zap.NewNop()
	}
	return logger
}

func loadProject(dir string) (config.ProjectConfig, string, error) {
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return config.ProjectConfig{}, "", err
	}
	entry := cfg.EntryPath(dir)
	src, err := os.ReadFile(entry)
	if err != nil {
		return config.ProjectConfig{}, "", fmt.Errorf("cannot read entry %s: %w", entry, err)
	}
	return cfg, string(src), nil
}

func newCommand(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("usage: summit new <name>", 1)
	}
	name := ctx.Args().Get(0)
	if err := scaffold.New(name, name); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Printf("created new Summit project in ./%s\n", name)
	return nil
}

func buildCommand(ctx *cli.Context) error {
	log := newLogger(ctx)
	defer log.Sync()

	dir := ctx.String("project")
	cfg, src, err := loadProject(dir)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cSource, err := compiler.CompileMode(src, cfg.Build.Freestanding)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	out := ctx.String("out")
	if out == "" {
		out = cfg.Project.Name
	}

	binPath, err := toolchain.Build(context.Background(), log, toolchain.Options{
		CSource:       cSource,
		OutputPath:    out,
		Freestanding:  cfg.Build.Freestanding,
		RuntimeObject: ctx.String("runtime"),
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Println(binPath)
	return nil
}

func runCommand(ctx *cli.Context) error {
	log := newLogger(ctx)
	defer log.Sync()

	dir := ctx.String("project")
	cfg, src, err := loadProject(dir)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cSource, err := compiler.CompileMode(src, cfg.Build.Freestanding)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	err = toolchain.Run(context.Background(), log, toolchain.Options{
		CSource:       cSource,
		OutputPath:    filepath.Join(os.TempDir(), cfg.Project.Name),
		Freestanding:  cfg.Build.Freestanding,
		RuntimeObject: ctx.String("runtime"),
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func cleanCommand(ctx *cli.Context) error {
	dir := ctx.String("project")
	out := ctx.String("out")
	if out == "" {
		cfg, err := config.LoadDir(dir)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		out = cfg.Project.Name
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return cli.NewExitError(err, 1)
	}
	return nil
}

// New assembles the summit CLI app the way the teacher's cli/app.New
// assembles its own urfave/cli.App.
func New() *cli.App {
	app := cli.NewApp()
	app.Name = "summit"
	app.Usage = "compiler for the Summit language"
	app.Version = "0.1.0"

	projectFlag := cli.StringFlag{Name: "project, p", Value: ".", Usage: "project directory containing Summit.toml"}
	outFlag := cli.StringFlag{Name: "out, o", Usage: "output binary path"}
	runtimeFlag := cli.StringFlag{Name: "runtime", Usage: "path to the freestanding runtime object to link"}

	app.Commands = []cli.Command{
		{
			Name:      "new",
			Usage:     "scaffold a new Summit project",
			ArgsUsage: "<name>",
			Action:    newCommand,
		},
		{
			Name:   "build",
			Usage:  "compile the project to a native executable",
			Action: buildCommand,
			Flags:  []cli.Flag{projectFlag, outFlag, runtimeFlag, debugFlag},
		},
		{
			Name:   "run",
			Usage:  "compile and run the project",
			Action: runCommand,
			Flags:  []cli.Flag{projectFlag, runtimeFlag, debugFlag},
		},
		{
			Name:   "clean",
			Usage:  "remove build artifacts",
			Action: cleanCommand,
			Flags:  []cli.Flag{projectFlag, outFlag},
		},
	}
	return app
}

func main() {
	if err := New().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
