package target

import (
	"github.com/yambs-build/yambs/internal/concurrent"
	"github.com/yambs-build/yambs/internal/manifest"
)

// Registry is the process-scoped mapping of spec §4.2: a
// canonical_manifest_path → Manifest store and a TargetId → ResolvedTarget
// store. First writer wins, generalizing the teacher's concurrent.Map (bake
// only ever needed plain Put/Get; a registry needs "resolve once, share the
// result" semantics, added to concurrent.Map as GetOrCreate).
//
// Design notes §9: "initialize explicitly at the start of a build/generate
// invocation and tear down at exit; never implicitly constructed at first
// use." Callers own a *Registry's lifetime; there is no package-level
// singleton.
type Registry struct {
	manifests *concurrent.Map[string, *manifest.Manifest]
	targets   *concurrent.Map[ID, *Resolved]
}

// New creates a fresh, empty registry. Tests construct one per case to stay
// hermetic, per spec §9.
func New() *Registry {
	return &Registry{
		manifests: concurrent.NewMapBy[string, *manifest.Manifest](concurrent.Identity[string]),
		targets:   concurrent.NewMapBy[ID, *Resolved](ID.String),
	}
}

// InternManifest returns the cached Manifest for canonicalPath, parsing it
// with load on the first call and returning the cached value on every
// later call — this is how a manifest visited through two dependency paths
// is only ever parsed once.
func (r *Registry) InternManifest(canonicalPath string, load func() (*manifest.Manifest, error)) (*manifest.Manifest, error) {
	return r.manifests.GetOrCreate(canonicalPath, load)
}

// LookupManifest returns a previously interned manifest, if any.
func (r *Registry) LookupManifest(canonicalPath string) (*manifest.Manifest, bool) {
	return r.manifests.Get(canonicalPath)
}

// Intern returns the cached ResolvedTarget for id, building it with build
// on the first call. This is how diamond dependencies collapse (spec
// §4.2): two dependents reaching the same target walk the same node.
func (r *Registry) Intern(id ID, build func() (*Resolved, error)) (*Resolved, error) {
	return r.targets.GetOrCreate(id, build)
}

// Lookup returns a previously interned target, if any.
func (r *Registry) Lookup(id ID) (*Resolved, bool) {
	return r.targets.Get(id)
}

// AllTargets returns every interned ResolvedTarget, in no particular order
// (callers needing determinism must sort by ID).
func (r *Registry) AllTargets() []*Resolved {
	return r.targets.Values()
}
