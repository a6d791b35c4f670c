package generate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yambs-build/yambs/internal/cache"
	"github.com/yambs-build/yambs/internal/compiler"
	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/resolve"
	"github.com/yambs-build/yambs/internal/target"
)

// Options configures one generate invocation.
type Options struct {
	BuildRoot string
	Config    string // "debug" or "release"
	Cxxstd    string
	Compiler  compiler.Compiler
}

// Generate lowers graph into the makefile project tree of spec §6.4,
// writing every file through fs so tests run against fsx.Fake. It returns
// the ordered list of target names it wrote or skipped, matching the
// resolver's canonical order (spec §4.5's determinism requirement).
//
// When store is non-nil, each target's fragment is only rewritten if
// store.NeedsRegeneration reports a miss against the fresh cache.TargetRecord
// built from its manifest, sources, flags and dependencies (spec §4.4,
// spec §8 Testable Property 7): "invoking build again ... regenerates no
// fragments, cache hit on all targets." Passing a nil store always
// regenerates every fragment, e.g. for the resolver/generator unit tests.
func Generate(fs fsx.FS, graph *resolve.Graph, opts Options, store *cache.Store) ([]string, error) {
	if opts.Config != "release" {
		opts.Config = "debug"
	}
	l := Layout{BuildRoot: opts.BuildRoot, Config: opts.Config}

	if err := fs.MkdirAll(l.ConfigDir(), 0o755); err != nil {
		return nil, err
	}

	if err := writeSharedFragments(fs, l, opts.Compiler, opts.Cxxstd); err != nil {
		return nil, err
	}

	if err := fs.WriteFile(l.ProgressFile(), []byte{}, 0o644); err != nil {
		return nil, err
	}

	records := map[target.ID]cache.TargetRecord{}
	if store != nil {
		records = targetRecords(fs, graph, opts.Config, store)
	}

	names := make([]string, 0, len(graph.Order))
	includes := make([]string, 0, len(graph.Order))
	for _, t := range graph.Order {
		fragPath := l.TargetFragment(t.ID.Name)

		write := true
		rec, hasRecord := records[t.ID]
		if store != nil && hasRecord {
			write = store.NeedsRegeneration(rec.ID, rec)
		}

		if write {
			fragment := targetFragment(l, graph, t)
			if err := fs.WriteFile(fragPath, []byte(fragment), 0o644); err != nil {
				return nil, err
			}
			if store != nil {
				_ = store.StoreTarget(rec.ID, rec)
			}
		}

		names = append(names, t.ID.Name)
		includes = append(includes, fragPath)
	}

	makefile := topLevelMakefile(l, includes)
	if err := fs.WriteFile(l.Makefile(), []byte(makefile), 0o644); err != nil {
		return nil, err
	}

	return names, nil
}

// topLevelMakefile assembles the fixed include order spec §4.5 requires:
// defines.mk, the selected configuration fragment, strict.mk,
// default_make.mk, then each per-target fragment in canonical order.
func topLevelMakefile(l Layout, targetIncludes []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "include %s\n", relTo(l.ConfigDir(), l.DefinesMk()))
	fmt.Fprintf(&b, "include %s\n", relTo(l.ConfigDir(), l.ConfigFragment()))
	fmt.Fprintf(&b, "include %s\n", relTo(l.ConfigDir(), l.StrictMk()))
	fmt.Fprintf(&b, "include %s\n", relTo(l.ConfigDir(), l.DefaultMakeMk()))

	for _, inc := range targetIncludes {
		fmt.Fprintf(&b, "include %s\n", relTo(l.ConfigDir(), inc))
	}

	return b.String()
}

func relTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
