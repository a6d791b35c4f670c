package generate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yambs-build/yambs/internal/manifest"
	"github.com/yambs-build/yambs/internal/resolve"
	"github.com/yambs-build/yambs/internal/target"
)

// targetFragment renders one ResolvedTarget's makefile fragment, spec
// §4.5: SRCS/OBJS declarations, target-local CXXFLAGS/CPPFLAGS in the
// mandated order, a link/archive rule, and .d-file inclusion.
func targetFragment(l Layout, graph *resolve.Graph, t *target.Resolved) string {
	var b strings.Builder

	objDir := l.ObjectDir(t.ID.Name)

	fmt.Fprintf(&b, "# %s\n", t.ID.String())
	fmt.Fprintf(&b, "%s_SRCS := %s\n", varPrefix(t), strings.Join(t.Sources, " "))
	fmt.Fprintf(&b, "%s_OBJS := $(patsubst %%,%s/%%.o,$(notdir $(%s_SRCS)))\n", varPrefix(t), objDir, varPrefix(t))
	fmt.Fprintf(&b, "%s_DEPS := $(%s_OBJS:.o=.d)\n", varPrefix(t), varPrefix(t))

	cxxflags := cxxflagsFor(t, l.Config)
	cppflags := cppflagsFor(t, l.Config)

	fmt.Fprintf(&b, "%s_CXXFLAGS := $(CXXFLAGS_CONFIG) $(CXXFLAGS_STRICT) %s\n", varPrefix(t), strings.Join(cxxflags, " "))
	fmt.Fprintf(&b, "%s_CPPFLAGS := %s\n", varPrefix(t), strings.Join(cppflags, " "))

	fmt.Fprintf(&b, "\nOBJDIRS += %s\n", objDir)
	fmt.Fprintf(&b, "-include $(%s_DEPS)\n\n", varPrefix(t))

	for _, src := range t.Sources {
		obj := filepath.Join(objDir, filepath.Base(src)+".o")
		fmt.Fprintf(&b, "%s: %s\n", obj, src)
		fmt.Fprintf(&b, "\t@mkdir -p %s\n", objDir)
		fmt.Fprintf(&b, "\t$(CXX) $(CXXSTD) $(%s_CPPFLAGS) $(%s_CXXFLAGS) -MMD -MP -c $< -o $@\n", varPrefix(t), varPrefix(t))
		fmt.Fprintf(&b, "\t@echo '{\"target\": \"%s\", \"source\": \"%s\", \"timestamp\": \"'$$(date -u +%%Y-%%m-%%dT%%H:%%M:%%SZ)'\", \"status\": \"ok\"}' >> %s\n\n",
			t.ID.Name, src, l.ProgressFile())
	}

	artifact := l.ArtifactPath(t.ArtifactName())
	fmt.Fprintf(&b, "TARGETS += %s\n", artifact)

	switch {
	case t.ID.Kind == manifest.Executable:
		linkLibs := append(linkLibraryPaths(l, graph.LinkOrder(t)), externalBinaryPaths(t, l.Config)...)
		linkerFlags := externalLinkerFlags(t, l.Config)
		fmt.Fprintf(&b, "%s: $(%s_OBJS) %s\n", artifact, varPrefix(t), strings.Join(linkLibs, " "))
		fmt.Fprintf(&b, "\t$(CXX) $(CXXSTD) $(%s_OBJS) %s -o $@ %s\n\n", varPrefix(t), strings.Join(linkLibs, " "), strings.Join(linkerFlags, " "))

	case t.LinkFormOf == target.LinkShared:
		fmt.Fprintf(&b, "%s_CXXFLAGS += -fPIC\n", varPrefix(t))
		fmt.Fprintf(&b, "%s: $(%s_OBJS)\n", artifact, varPrefix(t))
		fmt.Fprintf(&b, "\t$(CXX) -shared $(%s_OBJS) -o $@\n\n", varPrefix(t))

	default:
		fmt.Fprintf(&b, "%s: $(%s_OBJS)\n", artifact, varPrefix(t))
		fmt.Fprintf(&b, "\tar rcs $@ $(%s_OBJS)\n\n", varPrefix(t))
	}

	return b.String()
}

// varPrefix derives a legal make variable prefix from a target name.
func varPrefix(t *target.Resolved) string {
	name := strings.NewReplacer("-", "_", ".", "_").Replace(t.ID.Name)
	return strings.ToUpper(name)
}

// cxxflagsFor implements spec §4.5's mandated CXXFLAGS token order: target
// cxxflags_append, then propagated -I entries from dependency exports, then
// this target's own -D defines. Configuration defaults and warnings are
// prepended by the caller from the shared CXXFLAGS_CONFIG/CXXFLAGS_STRICT
// make variables.
func cxxflagsFor(t *target.Resolved, config string) []string {
	var flags []string
	flags = append(flags, t.Cxxflags...)
	flags = append(flags, dependencyIncludes(t, config)...)

	for _, def := range t.Defines {
		if def.Value != "" {
			flags = append(flags, fmt.Sprintf("-D%s=%s", def.Macro, def.Value))
		} else {
			flags = append(flags, "-D"+def.Macro)
		}
	}

	return flags
}

// cppflagsFor implements spec §4.5's CPPFLAGS: dependency include roots
// plus pkg-config's --cflags output for the requested configuration.
func cppflagsFor(t *target.Resolved, config string) []string {
	flags := append([]string(nil), t.Cppflags...)
	flags = append(flags, dependencyIncludes(t, config)...)
	return append(flags, externalCompileFlags(t, config)...)
}

// externalCompileFlags collects the non--I --cflags tokens of a target's
// pkg-config dependencies (spec §4.5: "pkg-config --cflags feeds
// CPPFLAGS"), e.g. -pthread or a -D define pkg-config itself contributes.
func externalCompileFlags(t *target.Resolved, config string) []string {
	var flags []string
	for _, edge := range t.Dependencies {
		if edge.Kind == target.EdgePkgConfig {
			flags = append(flags, pkgConfigResultFor(edge.External, config).CompileFlags...)
		}
	}
	return flags
}

// dependencyIncludes collects -I flags from every dependency edge kind
// (spec §4.5: "propagated -I entries from dependency exports"). Internal
// edges are walked transitively — spec §3 ResolvedTarget: "exported include
// dirs propagate transitively to dependents" — so a library whose headers
// are reachable only through an intermediate dependency still shows up on
// the top-level compile command, mirroring the reachability walk
// Graph.LinkOrder performs for the link line.
func dependencyIncludes(t *target.Resolved, config string) []string {
	var flags []string
	seen := map[string]bool{}
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		flags = append(flags, "-I"+dir)
	}

	visited := map[target.ID]bool{}
	var walkInternal func(dep *target.Resolved)
	walkInternal = func(dep *target.Resolved) {
		if visited[dep.ID] {
			return
		}
		visited[dep.ID] = true
		for _, inc := range dep.ExportedIncludeDirs {
			add(inc)
		}
		for _, edge := range dep.Dependencies {
			if edge.Kind == target.EdgeInternal {
				walkInternal(edge.Internal)
			}
		}
	}

	for _, edge := range t.Dependencies {
		switch edge.Kind {
		case target.EdgeInternal:
			walkInternal(edge.Internal)
		case target.EdgePrebuiltBinary:
			if edge.External.IncludeDirectory != "" {
				add(edge.External.IncludeDirectory)
			}
		case target.EdgeHeaderOnly:
			add(edge.External.HeaderOnlyIncludeDirectory)
		case target.EdgePkgConfig:
			for _, inc := range pkgConfigResultFor(edge.External, config).IncludeDirs {
				add(inc)
			}
		}
	}
	return flags
}

// pkgConfigResultFor selects the debug or release oracle answer cached on
// an ExternalDependency, per the configuration being generated.
func pkgConfigResultFor(ext *target.ExternalDependency, config string) target.PkgConfigResult {
	if config == "release" {
		return ext.Release
	}
	return ext.Debug
}

// externalLinkerFlags collects the linker-facing flags of a target's
// pkg-config dependencies for the given configuration.
func externalLinkerFlags(t *target.Resolved, config string) []string {
	var flags []string
	for _, edge := range t.Dependencies {
		if edge.Kind == target.EdgePkgConfig {
			result := pkgConfigResultFor(edge.External, config)
			for _, dir := range result.LibDirs {
				flags = append(flags, "-L"+dir)
			}
			flags = append(flags, result.LinkerFlags...)
		}
	}
	return flags
}

// externalBinaryPaths returns the configuration-selected binary path of
// every PrebuiltBinary dependency (spec S6: "building in debug links
// libgtestd.a; building in release links libgtest.a").
func externalBinaryPaths(t *target.Resolved, config string) []string {
	var paths []string
	for _, edge := range t.Dependencies {
		if edge.Kind != target.EdgePrebuiltBinary {
			continue
		}
		if config == "release" {
			paths = append(paths, edge.External.BinaryPath.Release)
		} else {
			paths = append(paths, edge.External.BinaryPath.Debug)
		}
	}
	return paths
}

// linkLibraryPaths builds the executable's internal-library link-line list
// in the order spec §8 Property 5 requires: reverse topological, so every
// dependency library appears after every library that depends on it.
func linkLibraryPaths(l Layout, order []*target.Resolved) []string {
	var out []string
	for _, dep := range order {
		if dep.ID.Kind == manifest.Executable {
			continue
		}
		out = append(out, l.ArtifactPath(dep.ArtifactName()))
	}
	return out
}
