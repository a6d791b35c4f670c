// Package generate lowers a resolved dependency graph into the makefile
// project tree of spec §6.4, grounded on the teacher's internal/lang/config
// package for the "write files atomically, one per logical unit" texture,
// generalized from bake's task/recipe.mk-less shell scripting to GNU Make
// fragments.
package generate

import "path/filepath"

// Layout computes every path under a build root named by spec §6.4.
type Layout struct {
	BuildRoot string
	Config    string // "debug" or "release"
}

func (l Layout) ConfigDir() string       { return filepath.Join(l.BuildRoot, l.Config) }
func (l Layout) MakeIncludeDir() string  { return filepath.Join(l.BuildRoot, "make_include") }
func (l Layout) Makefile() string        { return filepath.Join(l.ConfigDir(), "Makefile") }
func (l Layout) ProgressFile() string    { return filepath.Join(l.ConfigDir(), "progress.json") }
func (l Layout) LogFile() string         { return filepath.Join(l.BuildRoot, "yambs_log.txt") }
func (l Layout) LockFile() string        { return filepath.Join(l.BuildRoot, ".lock") }
func (l Layout) DefinesMk() string       { return filepath.Join(l.MakeIncludeDir(), "defines.mk") }
func (l Layout) DebugMk() string         { return filepath.Join(l.MakeIncludeDir(), "debug.mk") }
func (l Layout) ReleaseMk() string       { return filepath.Join(l.MakeIncludeDir(), "release.mk") }
func (l Layout) StrictMk() string        { return filepath.Join(l.MakeIncludeDir(), "strict.mk") }
func (l Layout) DefaultMakeMk() string   { return filepath.Join(l.MakeIncludeDir(), "default_make.mk") }
func (l Layout) ConfigFragment() string {
	if l.Config == "release" {
		return l.ReleaseMk()
	}
	return l.DebugMk()
}

// TargetFragment is the per-target fragment path, spec §4.5 "each
// per-target fragment", living alongside that configuration's objects.
func (l Layout) TargetFragment(name string) string {
	return filepath.Join(l.ConfigDir(), name+".mk")
}

// ObjectDir is where a target's .o/.d files are written.
func (l Layout) ObjectDir(name string) string {
	return filepath.Join(l.ConfigDir(), name+".objs")
}

// ArtifactPath is the final binary/library path, spec §6.4 "Artifact
// naming".
func (l Layout) ArtifactPath(artifactName string) string {
	return filepath.Join(l.ConfigDir(), artifactName)
}
