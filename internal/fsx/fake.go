package fsx

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"time"
)

// Fake is an in-memory FS used by the resolver, generator and parser tests
// (spec §9): it lets the end-to-end scenarios of spec §8 run without
// touching disk.
type Fake struct {
	files map[string][]byte
	dirs  map[string]bool
}

func NewFake() *Fake {
	return &Fake{
		files: map[string][]byte{},
		dirs:  map[string]bool{"/": true},
	}
}

func (f *Fake) Put(p string, content string) {
	p = path.Clean(p)
	f.files[p] = []byte(content)
	for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
		f.dirs[dir] = true
	}
}

func (f *Fake) ReadFile(p string) ([]byte, error) {
	p = path.Clean(p)
	content, ok := f.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}

	return content, nil
}

func (f *Fake) WriteFile(p string, data []byte, _ os.FileMode) error {
	p = path.Clean(p)
	f.files[p] = data
	f.dirs[path.Dir(p)] = true
	return nil
}

func (f *Fake) MkdirAll(p string, _ os.FileMode) error {
	p = path.Clean(p)
	f.dirs[p] = true
	return nil
}

func (f *Fake) Stat(p string) (fs.FileInfo, error) {
	p = path.Clean(p)
	if _, ok := f.files[p]; ok {
		return fakeInfo{name: path.Base(p), size: int64(len(f.files[p]))}, nil
	}
	if f.dirs[p] {
		return fakeInfo{name: path.Base(p), isDir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (f *Fake) Canonicalize(p string) (string, error) {
	if !path.IsAbs(p) {
		p = path.Join("/", p)
	}
	return path.Clean(p), nil
}

// List returns every file path, sorted, for deterministic assertions.
func (f *Fake) List() []string {
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type fakeInfo struct {
	name  string
	size  int64
	isDir bool
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (i fakeInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (i fakeInfo) IsDir() bool        { return i.isDir }
func (i fakeInfo) Sys() interface{}   { return nil }
