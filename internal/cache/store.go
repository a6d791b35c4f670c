// Package cache implements the project cache of spec §4.4, grounded on the
// teacher's internal/lang/config/lock.go and internal/lock.go: JSON records
// written with an indenting encoder, one file per entity, read back with a
// tolerant decoder that treats a decode failure as a plain cache miss
// (spec §7 "cache corruption is recovered from locally").
package cache

import (
	"encoding/json"
	"path/filepath"

	"github.com/yambs-build/yambs/internal/compiler"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/manifest"
)

const (
	compilerSubdir = "compiler"
	manifestSubdir = "manifest"
	targetsSubdir  = "targets"
)

// ManifestRecord is the manifest/ sub-store's per-manifest record (spec
// §4.4): the manifest's own content hash plus one per enumerated source.
type ManifestRecord struct {
	Path         string            `json:"path"`
	ContentHash  string            `json:"content_hash"`
	SourceHashes map[string]string `json:"source_hashes"`
}

// TargetRecord is the targets/ sub-store's per-target record (spec §4.4):
// everything that, if changed, invalidates the target's generated fragment.
type TargetRecord struct {
	ID           string           `json:"id"`
	Manifest     string           `json:"manifest"`
	Cxxflags     []string         `json:"cxxflags"`
	Cppflags     []string         `json:"cppflags"`
	Defines      []manifest.Define `json:"defines"`
	Dependencies []string         `json:"dependencies"`
}

// Store is the on-disk cache rooted at <build_root>/cache/.
type Store struct {
	fs   fsx.FS
	root string
}

// New returns a Store rooted at <buildRoot>/cache.
func New(fs fsx.FS, buildRoot string) *Store {
	return &Store{fs: fs, root: filepath.Join(buildRoot, "cache")}
}

func (s *Store) path(subdir, key string) string {
	return filepath.Join(s.root, subdir, key)
}

func (s *Store) writeJSON(path string, v interface{}) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return s.fs.WriteFile(path, data, 0o644)
}

// readJSON decodes path into v. A missing file or malformed JSON both
// report ok=false (a cache miss), never an error — spec §7's
// CacheCorrupted policy is "equivalent to a miss", not fatal.
func (s *Store) readJSON(path string, v interface{}) bool {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false
	}

	return true
}

// StoreCompiler persists the compiler record used this invocation.
func (s *Store) StoreCompiler(c compiler.Compiler) error {
	return s.writeJSON(s.path(compilerSubdir, "compiler"), c)
}

// LoadCompiler returns the last-recorded compiler, if any.
func (s *Store) LoadCompiler() (compiler.Compiler, bool) {
	var c compiler.Compiler
	ok := s.readJSON(s.path(compilerSubdir, "compiler"), &c)
	return c, ok
}

// StoreManifest persists a manifest's fingerprint record, keyed by a
// truncated hash of its canonical path so unrelated manifests never
// collide on a shared filename.
func (s *Store) StoreManifest(canonicalPath string, rec ManifestRecord) error {
	key := FilenameKey(Fingerprint([]byte(canonicalPath)))
	return s.writeJSON(s.path(manifestSubdir, key), rec)
}

// LoadManifest returns the cached fingerprint record for canonicalPath.
func (s *Store) LoadManifest(canonicalPath string) (ManifestRecord, bool) {
	key := FilenameKey(Fingerprint([]byte(canonicalPath)))
	var rec ManifestRecord
	ok := s.readJSON(s.path(manifestSubdir, key), &rec)
	return rec, ok
}

// StoreTarget persists a target's generation-input record, keyed by its
// stable TargetId string.
func (s *Store) StoreTarget(id string, rec TargetRecord) error {
	key := FilenameKey(Fingerprint([]byte(id)))
	return s.writeJSON(s.path(targetsSubdir, key), rec)
}

// LoadTarget returns the cached generation-input record for id.
func (s *Store) LoadTarget(id string) (TargetRecord, bool) {
	key := FilenameKey(Fingerprint([]byte(id)))
	var rec TargetRecord
	ok := s.readJSON(s.path(targetsSubdir, key), &rec)
	return rec, ok
}

// NeedsRegeneration reports whether fresh differs from the cached record for
// id — a miss (no cached record) always requires regeneration, satisfying
// spec §4.4's "the cache is authoritative only for skipping regeneration".
func (s *Store) NeedsRegeneration(id string, fresh TargetRecord) bool {
	cached, ok := s.LoadTarget(id)
	if !ok {
		return true
	}

	return !recordsEqual(cached, fresh)
}

func recordsEqual(a, b TargetRecord) bool {
	data1, err1 := json.Marshal(a)
	data2, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(data1) == string(data2)
}
