// Package driver spawns the downstream build driver (spec §4.6), grounded
// on the teacher's internal/module/worker.Pool for the errgroup fan-out
// shape, narrowed here to the two pipes (stdout, stderr) of a single child
// process instead of a pool of independent goroutines.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yambs-build/yambs/internal/diag"
)

const stderrRingSize = 20

// Options configures one driver invocation, spec §4.6/§6.2.
type Options struct {
	// Executable is YAMBS_BUILD_SYSTEM_EXECUTABLE.
	Executable string
	// Dir is `<build_root>/<config>`, passed as `-C <dir>`.
	Dir string
	// Jobs is `-j N`; 0 selects runtime.NumCPU().
	Jobs int
	// Log receives a copy of both stdout and stderr (yambs_log.txt).
	Log io.Writer
	Stdout io.Writer
	Stderr io.Writer
}

// Invoke spawns the build driver and blocks until it exits, per spec §4.6:
// `-C <build_root>/<config> -j N`, streaming stdout/stderr to the host
// terminal and to the log tee concurrently. A non-zero exit produces a
// BuildFailed diagnostic carrying the exit code and the last N stderr
// lines.
func Invoke(ctx context.Context, opts Options) error {
	if opts.Executable == "" {
		return fmt.Errorf("YAMBS_BUILD_SYSTEM_EXECUTABLE is not set")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	cmd := exec.CommandContext(ctx, opts.Executable, "-C", opts.Dir, "-j", strconv.Itoa(jobs))

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	ring := newRingBuffer(stderrRingSize)

	group, _ := errgroup.WithContext(context.Background())
	group.Go(func() error {
		return drain(stdoutPipe, io.MultiWriter(destOr(opts.Stdout, os.Stdout), destOr(opts.Log, io.Discard)), nil)
	})
	group.Go(func() error {
		return drain(stderrPipe, io.MultiWriter(destOr(opts.Stderr, os.Stderr), destOr(opts.Log, io.Discard)), ring)
	})

	drainErr := group.Wait()
	waitErr := cmd.Wait()

	if drainErr != nil {
		return drainErr
	}

	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return waitErr
		}

		return buildFailed(exitErr.ExitCode(), ring.lines())
	}

	return nil
}

func destOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

func drain(r io.Reader, w io.Writer, ring *ringBuffer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(w, line)
		if ring != nil {
			ring.push(line)
		}
	}
	return scanner.Err()
}

// BuildFailed is the spec §4.6/§7 BuildFailed error: the driver's exit code
// plus the last N stderr lines it printed.
type BuildFailed struct {
	ExitCode       int
	LastStderrLines []string
}

func (e BuildFailed) Error() string {
	return fmt.Sprintf("build driver exited with status %d", e.ExitCode)
}

// Diagnostics renders e as the hcl.Diagnostics the CLI entry point
// aggregates and prints (spec §7).
func (e BuildFailed) Diagnostics() hcl.Diagnostics {
	detail := ""
	for _, line := range e.LastStderrLines {
		detail += line + "\n"
	}
	return diag.New(diag.BuildFailed, e.Error(), detail, nil, "", "", "")
}

func buildFailed(exitCode int, lastStderr []string) error {
	return BuildFailed{ExitCode: exitCode, LastStderrLines: lastStderr}
}

type ringBuffer struct {
	size int
	buf  []string
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{size: size}
}

func (r *ringBuffer) push(line string) {
	r.buf = append(r.buf, line)
	if len(r.buf) > r.size {
		r.buf = r.buf[len(r.buf)-r.size:]
	}
}

func (r *ringBuffer) lines() []string {
	return append([]string(nil), r.buf...)
}
