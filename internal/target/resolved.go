package target

import (
	"github.com/yambs-build/yambs/internal/manifest"
)

// LinkForm is a library's link-form, spec §3 ResolvedTarget.
type LinkForm string

const (
	LinkStatic LinkForm = "static"
	LinkShared LinkForm = "shared"
)

// EdgeKind tags a ResolvedDependencyEdge's variant (spec §3).
type EdgeKind int

const (
	EdgeInternal EdgeKind = iota
	EdgePrebuiltBinary
	EdgeHeaderOnly
	EdgePkgConfig
)

// ConfigPaths carries a per-BuildConfiguration value, spec §3 (used by
// PrebuiltBinary and PkgConfig external descriptors).
type ConfigPaths struct {
	Debug   string
	Release string
}

// PkgConfigResult is the oracle answer cached per (name, configuration),
// spec §4.3 step 4.
type PkgConfigResult struct {
	IncludeDirs []string
	LibDirs     []string
	LinkerFlags []string

	// CompileFlags are --cflags tokens other than -I (e.g. -pthread,
	// -DFOO), spec §4.5: "pkg-config --cflags feeds CPPFLAGS", not just
	// the include search path.
	CompileFlags []string
}

// ExternalDependency is the non-internal arm of a ResolvedDependencyEdge.
type ExternalDependency struct {
	Name string

	// PrebuiltBinary
	BinaryPath       ConfigPaths
	IncludeDirectory string
	SearchType       manifest.SearchType

	// HeaderOnly
	HeaderOnlyIncludeDirectory string

	// PkgConfig
	SearchDir ConfigPaths
	Debug     PkgConfigResult
	Release   PkgConfigResult
}

// ResolvedDependencyEdge points at another ResolvedTarget (internal) or at
// a per-configuration external descriptor, spec §3.
type ResolvedDependencyEdge struct {
	Kind     EdgeKind
	Internal *Resolved
	External *ExternalDependency
}

// Resolved is one DAG node: the post-resolution form of a TargetSpec,
// spec §3 ResolvedTarget.
type Resolved struct {
	ID ID

	// Sources are absolute paths, non-empty per spec §3 invariant.
	Sources []string

	Cxxflags []string
	Cppflags []string
	Defines  []manifest.Define

	Dependencies []ResolvedDependencyEdge

	// LinkFormOf is only meaningful for library targets.
	LinkFormOf LinkForm

	// ExportedIncludeDirs propagate transitively to dependents (spec §3):
	// a library's manifest-directory-relative include/ if present, else
	// its manifest directory.
	ExportedIncludeDirs []string

	// ManifestDir is the directory the owning manifest lives in.
	ManifestDir string

	// ManifestContentHash is the owning manifest's sha256 content hash
	// (manifest.Manifest.ContentHash), carried onto the resolved target so
	// the project cache (spec §4.4) can fingerprint it without re-reading
	// the manifest file from disk during generation.
	ManifestContentHash string
}

// ArtifactName is the generated binary's filename, spec §6.4. Libraries
// distinguish static from shared via LinkFormOf, not ID.Kind: the parser
// only ever tags a library target's Kind as StaticLibrary, to record that
// it IS a library, not which link form it takes — that lives in the manifest's type attribute, resolved onto
// LinkFormOf.
func (r *Resolved) ArtifactName() string {
	if r.ID.Kind == manifest.Executable {
		return r.ID.Name
	}
	if r.LinkFormOf == LinkShared {
		return "lib" + r.ID.Name + ".so"
	}
	return "lib" + r.ID.Name + ".a"
}
