package generate

import (
	"sort"
	"strings"

	"github.com/yambs-build/yambs/internal/cache"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/resolve"
	"github.com/yambs-build/yambs/internal/target"
)

// targetRecords builds one cache.TargetRecord per target in graph.Order
// (spec §4.4), plus the combined fingerprint used to invalidate a target
// when anything it transitively depends on changes. graph.Order is
// dependency-first (leaves first), so a dependency's fingerprint is always
// available in fingerprints before its dependents need it.
func targetRecords(fs fsx.FS, graph *resolve.Graph, config string, store *cache.Store) map[target.ID]cache.TargetRecord {
	manifests := manifestFingerprints(fs, graph, store)

	records := make(map[target.ID]cache.TargetRecord, len(graph.Order))
	fingerprints := make(map[target.ID]string, len(graph.Order))

	for _, t := range graph.Order {
		deps := make([]string, 0, len(t.Dependencies))
		for _, edge := range t.Dependencies {
			deps = append(deps, dependencyFingerprint(edge, fingerprints))
		}

		rec := cache.TargetRecord{
			ID:           t.ID.String(),
			Manifest:     manifests[t.ID.ManifestPath],
			Cxxflags:     cxxflagsFor(t, config),
			Cppflags:     cppflagsFor(t, config),
			Defines:      t.Defines,
			Dependencies: deps,
		}
		records[t.ID] = rec

		seed := strings.Join([]string{
			manifests[t.ID.ManifestPath],
			strings.Join(rec.Cxxflags, ","),
			strings.Join(rec.Cppflags, ","),
			strings.Join(deps, ","),
		}, "\x00")
		fingerprints[t.ID] = cache.Fingerprint([]byte(seed))
	}

	return records
}

// manifestFingerprints hashes every manifest reachable in graph into a
// cache.ManifestRecord — its own content hash plus every declared source's
// content hash (spec §4.4) — persists the fresh record when store is
// non-nil, and returns a combined per-manifest fingerprint. Every target a
// manifest declares shares that fingerprint, so a source edit anywhere in
// the manifest invalidates every one of its targets rather than risking a
// stale hit. A source that can't be read degrades to a fingerprint that
// never matches a cached one instead of failing generation outright.
func manifestFingerprints(fs fsx.FS, graph *resolve.Graph, store *cache.Store) map[string]string {
	contentHashes := map[string]string{}
	sources := map[string]map[string]bool{}
	for _, t := range graph.Order {
		contentHashes[t.ID.ManifestPath] = t.ManifestContentHash
		set, ok := sources[t.ID.ManifestPath]
		if !ok {
			set = map[string]bool{}
			sources[t.ID.ManifestPath] = set
		}
		for _, src := range t.Sources {
			set[src] = true
		}
	}

	result := make(map[string]string, len(contentHashes))
	for path, contentHash := range contentHashes {
		srcPaths := make([]string, 0, len(sources[path]))
		for src := range sources[path] {
			srcPaths = append(srcPaths, src)
		}
		sort.Strings(srcPaths)

		hashes := make(map[string]string, len(srcPaths))
		var seed strings.Builder
		seed.WriteString(contentHash)
		for _, src := range srcPaths {
			hash, err := cache.FingerprintFile(fs, src)
			if err != nil {
				hash = "unreadable"
			}
			hashes[src] = hash
			seed.WriteString("\x00")
			seed.WriteString(src)
			seed.WriteString("=")
			seed.WriteString(hash)
		}

		if store != nil {
			_ = store.StoreManifest(path, cache.ManifestRecord{Path: path, ContentHash: contentHash, SourceHashes: hashes})
		}

		result[path] = cache.Fingerprint([]byte(seed.String()))
	}

	return result
}

// dependencyFingerprint reduces one dependency edge to a string that
// changes whenever anything about it would change the owning target's
// compile or link command: an internal edge folds in the dependency's own
// combined fingerprint, so changes propagate transitively.
func dependencyFingerprint(edge target.ResolvedDependencyEdge, fingerprints map[target.ID]string) string {
	switch edge.Kind {
	case target.EdgeInternal:
		return edge.Internal.ID.String() + "@" + fingerprints[edge.Internal.ID]
	case target.EdgePrebuiltBinary:
		return edge.External.Name + "@" + edge.External.BinaryPath.Debug + "|" + edge.External.BinaryPath.Release + "|" + edge.External.IncludeDirectory
	case target.EdgeHeaderOnly:
		return edge.External.Name + "@" + edge.External.HeaderOnlyIncludeDirectory
	case target.EdgePkgConfig:
		return edge.External.Name + "@" +
			strings.Join(edge.External.Debug.IncludeDirs, ",") + "|" + strings.Join(edge.External.Debug.LibDirs, ",") + "|" + strings.Join(edge.External.Debug.LinkerFlags, ",") + "|" + strings.Join(edge.External.Debug.CompileFlags, ",") + "@" +
			strings.Join(edge.External.Release.IncludeDirs, ",") + "|" + strings.Join(edge.External.Release.LibDirs, ",") + "|" + strings.Join(edge.External.Release.LinkerFlags, ",") + "|" + strings.Join(edge.External.Release.CompileFlags, ",")
	default:
		return ""
	}
}
