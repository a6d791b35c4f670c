// Package resolve implements the recursive dependency resolver of spec
// §4.3: it walks source dependencies, resolves binary/header/pkg-config
// dependencies in place, builds the target DAG, detects cycles, and
// computes a deterministic reverse-topological order.
//
// The gray/black depth-first cycle detector below is carried over from the
// teacher's internal/module/dependencies.go (topologicalSort) and
// internal/topo/dependencies.go (depthFirst): same three-color marking,
// same "cyclicalDependency" sentinel whose Detail is prepended with
// "%s -> %s" as the stack unwinds so the full cycle prints in traversal
// order (spec §8 Testable Property 3). It has been generalized from
// action.Address / hcl.Traversal edges to target.ID / DependencyDescriptor
// edges, since a TOML manifest has no expression language to walk.
package resolve

import (
	"fmt"

	"github.com/yambs-build/yambs/internal/diag"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/functional"
	"github.com/yambs-build/yambs/internal/manifest"
	"github.com/yambs-build/yambs/internal/pkgconfig"
	"github.com/yambs-build/yambs/internal/target"

	"github.com/hashicorp/hcl/v2"
)

type mark int

const (
	unmarked mark = iota
	gray
	black
)

// Graph is the resolved DAG of spec §3.
type Graph struct {
	// Order is every reachable target in the resolver's canonical
	// dependency-first order (leaves first), the ordering spec §4.5
	// requires generator iteration to use.
	Order []*target.Resolved
	// Roots are the requested targets (or every target in the root
	// manifest, if none was named).
	Roots []*target.Resolved
}

// LinkOrder returns t's transitive library dependencies in reverse of the
// graph's canonical order — spec §4.5's "post-order... so the linker sees
// each symbol provider after its consumers", spec §8 Testable Property 5.
func (g *Graph) LinkOrder(t *target.Resolved) []*target.Resolved {
	reachable := map[target.ID]bool{}
	var mark func(*target.Resolved)
	mark = func(n *target.Resolved) {
		for _, edge := range n.Dependencies {
			if edge.Kind != target.EdgeInternal {
				continue
			}
			if reachable[edge.Internal.ID] {
				continue
			}
			reachable[edge.Internal.ID] = true
			mark(edge.Internal)
		}
	}
	mark(t)

	result := make([]*target.Resolved, 0, len(reachable))
	for i := len(g.Order) - 1; i >= 0; i-- {
		if reachable[g.Order[i].ID] {
			result = append(result, g.Order[i])
		}
	}
	return result
}

type resolver struct {
	registry  *target.Registry
	fs        fsx.FS
	oracle    pkgconfig.Oracle
	marks     map[target.ID]mark
	stack     []target.ID
	order     []*target.Resolved
	pkgcache  map[string]target.PkgConfigResult
}

// Resolve is the entry point of spec §4.3.
func Resolve(reg *target.Registry, fs fsx.FS, oracle pkgconfig.Oracle, rootManifestPath, requestedTarget string) (*Graph, hcl.Diagnostics) {
	rootM, diags := manifest.Parse(fs, rootManifestPath)
	if diags.HasErrors() {
		return nil, diags
	}
	reg.InternManifest(rootM.Path, func() (*manifest.Manifest, error) { return rootM, nil })

	r := &resolver{
		registry: reg,
		fs:       fs,
		oracle:   oracle,
		marks:    map[target.ID]mark{},
		pkgcache: map[string]target.PkgConfigResult{},
	}

	var roots []*manifest.TargetSpec
	if requestedTarget != "" {
		spec, diags := findRequestedTarget(rootM, requestedTarget)
		if diags.HasErrors() {
			return nil, diags
		}
		roots = []*manifest.TargetSpec{spec}
	} else {
		roots = rootM.AllTargets()
		orderTargetsByID(rootM.Path, roots)
	}

	resolvedRoots := make([]*target.Resolved, 0, len(roots))
	for _, spec := range roots {
		id := target.ID{ManifestPath: rootM.Path, Kind: spec.Kind, Name: spec.Name}
		resolved, visitDiags := r.visit(id, spec)
		if visitDiags.HasErrors() {
			return nil, visitDiags
		}
		resolvedRoots = append(resolvedRoots, resolved)
	}

	return &Graph{Order: r.order, Roots: resolvedRoots}, nil
}

func findRequestedTarget(m *manifest.Manifest, name string) (*manifest.TargetSpec, hcl.Diagnostics) {
	for _, t := range m.AllTargets() {
		if t.Name == name {
			return t, nil
		}
	}

	names := functional.Map(m.AllTargets(), func(t *manifest.TargetSpec) string { return t.Name })
	suggestion := functional.Suggest(name, names)
	summary := fmt.Sprintf("couldn't find any target named %q", name)
	if suggestion != "" {
		summary += fmt.Sprintf(". Did you mean %q?", suggestion)
	}

	return nil, diag.New(diag.UsageError, summary, "", nil, m.Path, name, "")
}
