package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yambs-build/yambs/internal/diag"
)

// AcquireLock creates <build_root>/.lock for the duration of a single
// invocation (spec §5): "concurrent yambs invocations over the same build
// root fail fast with BuildRootLocked." Implemented on raw os, not fsx.FS,
// because O_EXCL atomicity is a real-filesystem guarantee the in-memory
// fake cannot usefully emulate (see DESIGN.md); resolver/generator tests
// exercise their own lock-free paths and never call this.
func AcquireLock(buildRoot string) (func() error, error) {
	if err := os.MkdirAll(buildRoot, 0o755); err != nil {
		return nil, err
	}

	lockPath := filepath.Join(buildRoot, ".lock")
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			summary := fmt.Sprintf("build root %q is locked by another yambs invocation", buildRoot)
			return nil, diag.New(diag.BuildRootLocked, summary, "", nil, "", "", "")
		}
		return nil, err
	}
	file.Close()

	release := func() error {
		return os.Remove(lockPath)
	}

	return release, nil
}
