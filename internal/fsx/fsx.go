// Package fsx defines the filesystem and process surface the rest of yambs
// depends on as an interface, so tests can run against an in-memory
// implementation instead of the real disk. See spec §9 "Filesystem and
// process as traits".
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the abstract filesystem surface. The real implementation forwards
// to the os package; tests use the in-memory Fake below.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	Canonicalize(path string) (string, error)
}

// OS is the real, disk-backed FS.
type OS struct{}

func (OS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// Canonicalize resolves symlinks and ".." components, producing the
// absolute path used as part of a target's identity (spec §3 TargetId).
func (OS) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// the path may not exist yet (e.g. an output directory); fall
		// back to the cleaned absolute form
		return filepath.Clean(abs), nil
	}

	return resolved, nil
}
