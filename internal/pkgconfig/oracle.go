// Package pkgconfig implements the pkg-config oracle of spec §4.3 step 4:
// given a dependency name and a search directory, ask pkg-config for
// include paths, library paths and linker flags. Grounded on the subprocess
// conventions of the pack's goplus-llar/pkgs/buildsys/cmake and
// goplus-llar/pkgs/buildsys/autotools packages (os/exec.Command, splitting
// captured stdout into fields), with a bounded one-retry policy layered on
// top via sethvargo/go-retry for the transient failures a build farm's
// PKG_CONFIG_PATH mount can produce.
package pkgconfig

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/yambs-build/yambs/internal/target"
)

// Oracle answers a pkg-config query. Tests substitute Fake for a process-free
// double, per spec §9's filesystem/process-as-traits design note.
type Oracle interface {
	Query(name, searchDir string) (target.PkgConfigResult, error)
}

// Real shells out to the pkg-config binary named by Binary (defaulting to
// "pkg-config"), setting PKG_CONFIG_PATH to searchDir.
type Real struct {
	Binary string
	Env    []string
}

// NewReal returns an Oracle backed by the real pkg-config binary.
func NewReal(env []string) *Real {
	return &Real{Binary: "pkg-config", Env: env}
}

func (o *Real) Query(name, searchDir string) (target.PkgConfigResult, error) {
	binary := o.Binary
	if binary == "" {
		binary = "pkg-config"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backoff := retry.WithMaxRetries(1, retry.NewConstant(200*time.Millisecond))

	var cflags, libs string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var runErr error
		cflags, runErr = o.run(searchDir, name, "--cflags")
		if runErr != nil {
			return retry.RetryableError(runErr)
		}
		libs, runErr = o.run(searchDir, name, "--libs")
		if runErr != nil {
			return retry.RetryableError(runErr)
		}
		return nil
	})
	if err != nil {
		return target.PkgConfigResult{}, fmt.Errorf("pkg-config %s: %w", name, err)
	}

	return parseFlags(cflags, libs), nil
}

func (o *Real) run(searchDir, name, flag string) (string, error) {
	binary := o.Binary
	if binary == "" {
		binary = "pkg-config"
	}

	cmd := exec.Command(binary, flag, name)
	cmd.Env = append(append([]string{}, o.Env...), "PKG_CONFIG_PATH="+searchDir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s %s: %w: %s", binary, flag, name, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// parseFlags splits pkg-config's --cflags/--libs output into the four
// slices ResolvedTarget carries (spec §3 ExternalDependency).
func parseFlags(cflags, libs string) target.PkgConfigResult {
	result := target.PkgConfigResult{}

	for _, tok := range strings.Fields(cflags) {
		switch {
		case strings.HasPrefix(tok, "-I"):
			result.IncludeDirs = append(result.IncludeDirs, strings.TrimPrefix(tok, "-I"))
		default:
			result.CompileFlags = append(result.CompileFlags, tok)
		}
	}

	for _, tok := range strings.Fields(libs) {
		switch {
		case strings.HasPrefix(tok, "-L"):
			result.LibDirs = append(result.LibDirs, strings.TrimPrefix(tok, "-L"))
		default:
			result.LinkerFlags = append(result.LinkerFlags, tok)
		}
	}

	return result
}
