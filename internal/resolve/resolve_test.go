package resolve

import (
	"strings"
	"testing"

	"github.com/yambs-build/yambs/internal/fsx"
	"github.com/yambs-build/yambs/internal/pkgconfig"
	"github.com/yambs-build/yambs/internal/target"
)

func TestResolveMinimalExecutable(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]
`)

	graph, diags := Resolve(target.New(), fake, pkgconfig.NewFake(), "/app/yambs.toml", "")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	if len(graph.Roots) != 1 || graph.Roots[0].ID.Name != "x" {
		t.Fatalf("unexpected roots: %#v", graph.Roots)
	}
}

func TestResolveSourceDependency(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]

[executable.x.dependencies.lib]
path = "../lib"
`)
	fake.Put("/lib/src/lib.cpp", "void lib() {}")
	fake.Put("/lib/yambs.toml", `
[library.lib]
sources = ["src/lib.cpp"]
`)

	graph, diags := Resolve(target.New(), fake, pkgconfig.NewFake(), "/app/yambs.toml", "")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	root := graph.Roots[0]
	if len(root.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency edge, got %d", len(root.Dependencies))
	}

	edge := root.Dependencies[0]
	if edge.Kind != target.EdgeInternal || edge.Internal.ID.Name != "lib" {
		t.Fatalf("unexpected dependency edge: %#v", edge)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/a/main.cpp", "void a() {}")
	fake.Put("/a/yambs.toml", `
[library.a]
sources = ["main.cpp"]

[library.a.dependencies.b]
path = "../b"
`)
	fake.Put("/b/src.cpp", "void b() {}")
	fake.Put("/b/yambs.toml", `
[library.b]
sources = ["src.cpp"]

[library.b.dependencies.a]
path = "../a"
`)

	_, diags := Resolve(target.New(), fake, pkgconfig.NewFake(), "/a/yambs.toml", "")
	if !diags.HasErrors() {
		t.Fatal("expected a DependencyCycle error")
	}

	found := false
	for _, d := range diags {
		if strings.Contains(d.Summary, "cyclical") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cyclical dependency diagnostic, got %#v", diags)
	}
}

func TestResolveDiamondDedup(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/a/main.cpp", "int main(){return 0;}")
	fake.Put("/a/yambs.toml", `
[executable.a]
sources = ["main.cpp"]

[executable.a.dependencies.b]
path = "../b"

[executable.a.dependencies.c]
path = "../c"
`)
	fake.Put("/b/src.cpp", "void b() {}")
	fake.Put("/b/yambs.toml", `
[library.b]
sources = ["src.cpp"]

[library.b.dependencies.d]
path = "../d"
`)
	fake.Put("/c/src.cpp", "void c() {}")
	fake.Put("/c/yambs.toml", `
[library.c]
sources = ["src.cpp"]

[library.c.dependencies.d]
path = "../d"
`)
	fake.Put("/d/src.cpp", "void d() {}")
	fake.Put("/d/yambs.toml", `
[library.d]
sources = ["src.cpp"]
`)

	graph, diags := Resolve(target.New(), fake, pkgconfig.NewFake(), "/a/yambs.toml", "")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	count := 0
	for _, node := range graph.Order {
		if node.ID.Name == "d" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one D node in the resolved graph, got %d", count)
	}

	root := graph.Roots[0]
	order := graph.LinkOrder(root)
	if len(order) != 3 {
		t.Fatalf("expected 3 transitive libraries in link order, got %d: %#v", len(order), order)
	}

	if order[len(order)-1].ID.Name != "d" {
		t.Fatalf("expected D last in link order (after B and C), got %#v", namesOf(order))
	}
}

func namesOf(nodes []*target.Resolved) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.ID.Name
	}
	return names
}

func TestResolvePkgConfigDependency(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]

[executable.x.dependencies.zlib]
[executable.x.dependencies.zlib.debug]
pkg_config_search_dir = "/opt/zlib/debug/pkgconfig"
[executable.x.dependencies.zlib.release]
pkg_config_search_dir = "/opt/zlib/release/pkgconfig"
`)

	oracle := pkgconfig.NewFake()
	oracle.Put("zlib", "/opt/zlib/debug/pkgconfig", target.PkgConfigResult{IncludeDirs: []string{"/opt/zlib/include"}})
	oracle.Put("zlib", "/opt/zlib/release/pkgconfig", target.PkgConfigResult{IncludeDirs: []string{"/opt/zlib/include"}})

	graph, diags := Resolve(target.New(), fake, oracle, "/app/yambs.toml", "")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	root := graph.Roots[0]
	if len(root.Dependencies) != 1 || root.Dependencies[0].Kind != target.EdgePkgConfig {
		t.Fatalf("expected a pkg-config edge, got %#v", root.Dependencies)
	}
	if len(oracle.Queries) != 2 {
		t.Fatalf("expected one query per configuration, got %d", len(oracle.Queries))
	}
}
