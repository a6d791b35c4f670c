package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yambs-build/yambs/internal/diag"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/functional"
	"github.com/yambs-build/yambs/internal/manifest"
	"github.com/yambs-build/yambs/internal/target"

	"github.com/hashicorp/hcl/v2"
)

const cyclicalDependency = "cyclical dependency detected"

// visit resolves id/spec into a *target.Resolved, recursing into its
// dependencies depth-first. It is the direct generalization of the
// teacher's topologicalSort.visit / depthFirst.visit.
func (r *resolver) visit(id target.ID, spec *manifest.TargetSpec) (*target.Resolved, hcl.Diagnostics) {
	if cached, ok := r.registry.Lookup(id); ok {
		return cached, nil
	}

	switch r.marks[id] {
	case black:
		if cached, ok := r.registry.Lookup(id); ok {
			return cached, nil
		}
	case gray:
		return nil, diag.New(diag.DependencyCycle, cyclicalDependency, id.String(), nil, id.ManifestPath, id.Name, "")
	}

	r.marks[id] = gray
	r.stack = append(r.stack, id)

	resolved := &target.Resolved{
		ID:                  id,
		ManifestDir:         spec.Manifest.Dir,
		ManifestContentHash: spec.Manifest.ContentHash,
		Cxxflags:            append([]string(nil), spec.CxxflagsAppend...),
		Cppflags:            append([]string(nil), spec.CppflagsAppend...),
		Defines:             append([]manifest.Define(nil), spec.Defines...),
	}

	for _, src := range spec.Sources {
		resolved.Sources = append(resolved.Sources, filepath.Join(spec.Manifest.Dir, src))
	}
	if len(resolved.Sources) == 0 {
		r.stack = r.stack[:len(r.stack)-1]
		return nil, diag.New(diag.ManifestSchema, fmt.Sprintf("target %q has no sources", id.Name), "", nil, spec.Manifest.Path, id.Name, "")
	}

	if spec.Kind != manifest.Executable {
		resolved.LinkFormOf = target.LinkStatic
		if spec.LibraryType == manifest.SharedLibrary {
			resolved.LinkFormOf = target.LinkShared
		}
		resolved.ExportedIncludeDirs = []string{exportedIncludeDir(r.fs, spec.Manifest.Dir)}
	}

	for _, depName := range spec.DependencyOrder {
		descriptor := spec.Dependencies[depName]
		edge, diags := r.resolveEdge(spec, descriptor)
		if diags.HasErrors() {
			for _, d := range diags {
				if d.Summary == cyclicalDependency {
					d.Detail = fmt.Sprintf("%s -> %s", id.String(), d.Detail)
				}
			}
			r.stack = r.stack[:len(r.stack)-1]
			return nil, diags
		}

		resolved.Dependencies = append(resolved.Dependencies, edge)
	}

	r.marks[id] = black
	r.stack = r.stack[:len(r.stack)-1]
	r.order = append(r.order, resolved)

	final, err := r.registry.Intern(id, func() (*target.Resolved, error) { return resolved, nil })
	if err != nil {
		if diags, ok := err.(hcl.Diagnostics); ok {
			return nil, diags
		}
		return nil, diag.New(diag.Io, err.Error(), "", nil, spec.Manifest.Path, id.Name, "")
	}

	return final, nil
}

// exportedIncludeDir is spec §3 ResolvedTarget: "its manifest directory's
// conventional include/ if present, else its manifest directory."
func exportedIncludeDir(fs fsx.FS, manifestDir string) string {
	conventional := filepath.Join(manifestDir, "include")
	if info, err := fs.Stat(conventional); err == nil && info.IsDir() {
		return conventional
	}
	return manifestDir
}

func (r *resolver) resolveEdge(owner *manifest.TargetSpec, desc *manifest.DependencyDescriptor) (target.ResolvedDependencyEdge, hcl.Diagnostics) {
	switch desc.Variant {
	case manifest.VariantSource:
		return r.resolveSourceEdge(owner, desc)
	case manifest.VariantPrebuiltBinary:
		return r.resolvePrebuiltEdge(owner, desc)
	case manifest.VariantHeaderOnly:
		return target.ResolvedDependencyEdge{
			Kind: target.EdgeHeaderOnly,
			External: &target.ExternalDependency{
				Name:                       desc.Name,
				HeaderOnlyIncludeDirectory: absolutize(owner.Manifest.Dir, desc.HeaderOnlyIncludeDirectory),
			},
		}, nil
	case manifest.VariantPkgConfig:
		return r.resolvePkgConfigEdge(owner, desc)
	default:
		return target.ResolvedDependencyEdge{}, diag.New(diag.ManifestSchema, "unknown dependency variant", "", nil, owner.Manifest.Path, owner.Name, "")
	}
}

func (r *resolver) resolveSourceEdge(owner *manifest.TargetSpec, desc *manifest.DependencyDescriptor) (target.ResolvedDependencyEdge, hcl.Diagnostics) {
	depDir := absolutize(owner.Manifest.Dir, desc.SourcePath)
	canonicalDir, err := r.fs.Canonicalize(depDir)
	if err != nil {
		return target.ResolvedDependencyEdge{}, diag.New(diag.Io, err.Error(), "", nil, owner.Manifest.Path, owner.Name, desc.SourcePath)
	}

	depManifestPath := filepath.Join(canonicalDir, "yambs.toml")
	depManifest, err := r.registry.InternManifest(depManifestPath, func() (*manifest.Manifest, error) {
		m, diags := manifest.Parse(r.fs, depManifestPath)
		if diags.HasErrors() {
			return nil, diags
		}
		return m, nil
	})
	if err != nil {
		if diags, ok := err.(hcl.Diagnostics); ok {
			return target.ResolvedDependencyEdge{}, diags
		}
		return target.ResolvedDependencyEdge{}, diag.New(diag.Io, err.Error(), "", nil, depManifestPath, "", "")
	}

	depSpec, diags := selectSourceTarget(depManifest, desc.NameOverride)
	if diags.HasErrors() {
		return target.ResolvedDependencyEdge{}, diags
	}

	depID := target.ID{ManifestPath: depManifest.Path, Kind: depSpec.Kind, Name: depSpec.Name}
	resolvedDep, visitDiags := r.visit(depID, depSpec)
	if visitDiags.HasErrors() {
		return target.ResolvedDependencyEdge{}, visitDiags
	}

	return target.ResolvedDependencyEdge{Kind: target.EdgeInternal, Internal: resolvedDep}, nil
}

// selectSourceTarget implements spec §4.3 step 3: "select the dependency's
// target (either explicitly named, or — if the dependency names only a
// path — the single library target in that manifest; fail if ambiguous)."
func selectSourceTarget(m *manifest.Manifest, nameOverride string) (*manifest.TargetSpec, hcl.Diagnostics) {
	if nameOverride != "" {
		if t, ok := m.Libraries[nameOverride]; ok {
			return t, nil
		}
		names := functional.Map(m.AllTargets(), func(t *manifest.TargetSpec) string { return t.Name })
		suggestion := functional.Suggest(nameOverride, names)
		summary := fmt.Sprintf("manifest %q has no library named %q", m.Path, nameOverride)
		if suggestion != "" {
			summary += fmt.Sprintf(". Did you mean %q?", suggestion)
		}
		return nil, diag.New(diag.DependencyAmbiguous, summary, "", nil, m.Path, nameOverride, "")
	}

	if len(m.Libraries) == 1 {
		for _, t := range m.Libraries {
			return t, nil
		}
	}

	if len(m.Libraries) == 0 {
		return nil, diag.New(diag.DependencyAmbiguous, fmt.Sprintf("manifest %q declares no library target", m.Path), "", nil, m.Path, "", "")
	}

	names := make([]string, 0, len(m.Libraries))
	for name := range m.Libraries {
		names = append(names, name)
	}
	return nil, diag.New(diag.DependencyAmbiguous,
		fmt.Sprintf("manifest %q declares %d library targets (%s); name one explicitly", m.Path, len(m.Libraries), strings.Join(names, ", ")),
		"", nil, m.Path, "", "")
}

func (r *resolver) resolvePrebuiltEdge(owner *manifest.TargetSpec, desc *manifest.DependencyDescriptor) (target.ResolvedDependencyEdge, hcl.Diagnostics) {
	debug := absolutize(owner.Manifest.Dir, desc.DebugBinaryPath)
	release := absolutize(owner.Manifest.Dir, desc.ReleaseBinaryPath)

	for _, p := range []string{debug, release} {
		if _, err := r.fs.Stat(p); err != nil {
			return target.ResolvedDependencyEdge{}, diag.New(diag.Io, fmt.Sprintf("prebuilt binary %q not found", p), "", nil, owner.Manifest.Path, owner.Name, p)
		}
	}

	return target.ResolvedDependencyEdge{
		Kind: target.EdgePrebuiltBinary,
		External: &target.ExternalDependency{
			Name:             desc.Name,
			BinaryPath:       target.ConfigPaths{Debug: debug, Release: release},
			IncludeDirectory: absolutize(owner.Manifest.Dir, desc.IncludeDirectory),
			SearchType:       desc.SearchType,
		},
	}, nil
}

func (r *resolver) resolvePkgConfigEdge(owner *manifest.TargetSpec, desc *manifest.DependencyDescriptor) (target.ResolvedDependencyEdge, hcl.Diagnostics) {
	debugDir := absolutize(owner.Manifest.Dir, desc.DebugSearchDir)
	releaseDir := absolutize(owner.Manifest.Dir, desc.ReleaseSearchDir)

	debugResult, err := r.queryPkgConfig(desc.Name, debugDir)
	if err != nil {
		return target.ResolvedDependencyEdge{}, diag.New(diag.PkgConfigFailed, err.Error(), "", nil, owner.Manifest.Path, owner.Name, desc.Name)
	}
	releaseResult, err := r.queryPkgConfig(desc.Name, releaseDir)
	if err != nil {
		return target.ResolvedDependencyEdge{}, diag.New(diag.PkgConfigFailed, err.Error(), "", nil, owner.Manifest.Path, owner.Name, desc.Name)
	}

	return target.ResolvedDependencyEdge{
		Kind: target.EdgePkgConfig,
		External: &target.ExternalDependency{
			Name:      desc.Name,
			SearchDir: target.ConfigPaths{Debug: debugDir, Release: releaseDir},
			Debug:     debugResult,
			Release:   releaseResult,
		},
	}, nil
}

// queryPkgConfig caches results per (name, searchDir), spec §4.3 step 4:
// "invoke the pkg-config oracle once per (name, configuration) and cache
// the result."
func (r *resolver) queryPkgConfig(name, searchDir string) (target.PkgConfigResult, error) {
	key := name + "\x00" + searchDir
	if cached, ok := r.pkgcache[key]; ok {
		return cached, nil
	}

	result, err := r.oracle.Query(name, searchDir)
	if err != nil {
		return target.PkgConfigResult{}, err
	}

	r.pkgcache[key] = result
	return result, nil
}

func absolutize(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
