// Command yambs is the CLI entry point of spec §6.1, grounded on the
// teacher's cmd/main.go App() construction, generalized from bake's
// task-derived subcommands to YAMBS's three fixed verbs and upgraded from
// urfave/cli (v1) to urfave/cli/v2, matching the version the rest of the
// pack (e.g. leapstack-labs-leapsql) uses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/yambs-build/yambs/internal/cache"
	"github.com/yambs-build/yambs/internal/compiler"
	"github.com/yambs-build/yambs/internal/concurrent"
	"github.com/yambs-build/yambs/internal/diag"
	"github.com/yambs-build/yambs/internal/driver"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/generate"
	"github.com/yambs-build/yambs/internal/info"
	"github.com/yambs-build/yambs/internal/logx"
	"github.com/yambs-build/yambs/internal/pkgconfig"
	"github.com/yambs-build/yambs/internal/progress"
	"github.com/yambs-build/yambs/internal/resolve"
	"github.com/yambs-build/yambs/internal/target"
)

const (
	exitSuccess       = 0
	exitResolverError = 1
	exitGeneratorError = 2
	exitDriverError   = 3
	exitUsageError    = 4
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	if err := app.Run(args); err != nil {
		if code, ok := err.(exitCoded); ok {
			return code.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	return exitSuccess
}

type exitCoded interface {
	error
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) ExitCode() int { return e.code }

func newApp() *cli.App {
	sharedFlags := []cli.Flag{
		&cli.StringFlag{Name: "build-root", Aliases: []string{"b"}, Required: true, Usage: "build root directory"},
		&cli.StringFlag{Name: "manifest-dir", Value: ".", Usage: "directory containing yambs.toml"},
		&cli.StringFlag{Name: "config", Value: "debug", Usage: "debug or release"},
		&cli.StringFlag{Name: "cxxstd", Aliases: []string{"c"}, Usage: "C++ standard, e.g. c++17"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "parallel jobs for the driver (default: logical CPUs)"},
		&cli.BoolFlag{Name: "verbose", Usage: "verbose logging"},
		&cli.StringFlag{Name: "format", Value: "human", Usage: "human or json"},
	}

	return &cli.App{
		Name:    "yambs",
		Usage:   "a meta build system for C++ projects",
		Version: info.Version,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "generate build files and invoke the driver",
				ArgsUsage: "[target]",
				Flags:     sharedFlags,
				Action:    actionBuild,
			},
			{
				Name:      "generate",
				Usage:     "generate build files only",
				ArgsUsage: "[target]",
				Flags:     sharedFlags,
				Action:    actionGenerate,
			},
			{
				Name:   "remake",
				Usage:  "re-run the driver over an existing generated tree",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "build-root", Aliases: []string{"b"}, Required: true},
					&cli.StringFlag{Name: "config", Value: "debug"},
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}},
					&cli.StringFlag{Name: "format", Value: "human"},
				},
				Action: actionRemake,
			},
		},
	}
}

func actionBuild(c *cli.Context) error {
	graph, opts, err := doGenerate(c)
	if err != nil {
		return err
	}

	return invokeDriver(c, opts, generate.ExpectedCompileUnits(graph))
}

func actionGenerate(c *cli.Context) error {
	_, _, err := doGenerate(c)
	return err
}

func actionRemake(c *cli.Context) error {
	opts := generate.Options{BuildRoot: c.String("build-root"), Config: c.String("config")}
	return invokeDriver(c, opts, 0)
}

// doGenerate implements the `build`/`generate` shared pipeline: parse,
// resolve, detect the compiler, cache it, and write the makefile tree.
func doGenerate(c *cli.Context) (*resolve.Graph, generate.Options, error) {
	fs := fsx.OS{}
	log := logx.FromEnv(c.Bool("verbose"))

	buildRoot := c.String("build-root")
	manifestDir := c.String("manifest-dir")
	manifestPath := filepath.Join(manifestDir, "yambs.toml")
	requestedTarget := c.Args().First()

	release, lockErr := cache.AcquireLock(buildRoot)
	if lockErr != nil {
		return nil, generate.Options{}, exitError{exitUsageError, lockErr}
	}
	defer release()

	log.Infof("resolving %s", manifestPath)
	reg := target.New()
	oracle := pkgconfig.NewReal(os.Environ())
	graph, diags := resolve.Resolve(reg, fs, oracle, manifestPath, requestedTarget)
	if diags.HasErrors() {
		return nil, generate.Options{}, reportAndExit(c, diags, exitResolverError)
	}
	log.Debugf("resolved %d target(s)", len(graph.Order))

	comp, err := compiler.Detect(os.Getenv("CXX"))
	if err != nil {
		log.Errorf("compiler detection failed: %s", err)
		return nil, generate.Options{}, reportAndExit(c, diag.New(diag.CompilerNotFound, err.Error(), "", nil, manifestPath, "", ""), exitResolverError)
	}
	log.Infof("using compiler %s (%s %s)", comp.Path, comp.Family, comp.Version)

	store := cache.New(fs, buildRoot)
	_ = store.StoreCompiler(comp)

	opts := generate.Options{
		BuildRoot: buildRoot,
		Config:    c.String("config"),
		Cxxstd:    c.String("cxxstd"),
		Compiler:  comp,
	}

	if _, err := generate.Generate(fs, graph, opts, store); err != nil {
		log.Errorf("generation failed: %s", err)
		return nil, generate.Options{}, reportAndExit(c, diag.New(diag.Io, err.Error(), "", nil, manifestPath, "", ""), exitGeneratorError)
	}
	log.Infof("generated build tree under %s", buildRoot)

	return graph, opts, nil
}

// invokeDriver spawns the build driver and, when totalCompileUnits is
// known (the `build` command, not `remake`), tails progress.json
// concurrently on a concurrent.Promise — generalized from the teacher's
// promise.go, which ran a background effect alongside a caller that keeps
// its own control flow rather than blocking on errgroup.Wait immediately.
func invokeDriver(c *cli.Context, opts generate.Options, totalCompileUnits int) error {
	log := logx.FromEnv(c.Bool("verbose"))
	layout := generate.Layout{BuildRoot: opts.BuildRoot, Config: opts.Config}
	if layout.Config != "release" {
		layout.Config = "debug"
	}

	logFile, err := os.OpenFile(filepath.Join(opts.BuildRoot, "yambs_log.txt"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return exitError{exitDriverError, err}
	}
	defer logFile.Close()

	stop := make(chan struct{})
	var reporterDone *concurrent.Promise[struct{}]
	if totalCompileUnits > 0 {
		log.Debugf("tailing progress for %d compile unit(s)", totalCompileUnits)
		reporter := progress.New(layout.ProgressFile(), totalCompileUnits)
		reporterDone = concurrent.NewPromise(func() (struct{}, error) {
			return struct{}{}, reporter.Run(stop)
		})
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	log.Infof("invoking driver in %s", layout.ConfigDir())
	err = driver.Invoke(ctx, driver.Options{
		Executable: os.Getenv("YAMBS_BUILD_SYSTEM_EXECUTABLE"),
		Dir:        layout.ConfigDir(),
		Jobs:       c.Int("jobs"),
		Log:        logFile,
	})

	close(stop)
	if reporterDone != nil {
		_, _ = reporterDone.Wait()
	}

	if err != nil {
		log.Warnf("driver reported an error: %s", err)
		if failed, ok := err.(driver.BuildFailed); ok {
			return reportAndExit(c, failed.Diagnostics(), exitDriverError)
		}
		return exitError{exitDriverError, err}
	}

	log.Infof("driver finished successfully")
	return nil
}

func reportAndExit(c *cli.Context, diags hcl.Diagnostics, code int) error {
	if c.String("format") == "json" {
		diag.WriteJSON(os.Stderr, diags)
	} else {
		diag.WriteHuman(os.Stderr, diags, isatty.IsTerminal(os.Stderr.Fd()))
	}
	return exitError{code, diags}
}
