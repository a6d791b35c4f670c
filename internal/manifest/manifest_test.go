package manifest

import (
	"testing"

	"github.com/yambs-build/yambs/internal/fsx"
)

func TestParseMinimalExecutable(t *testing.T) {
	// arrange
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]
`)

	// act
	m, diags := Parse(fake, "/app/yambs.toml")

	// assert
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	target, ok := m.Target(Executable, "x")
	if !ok {
		t.Fatal("expected executable \"x\" to be present")
	}

	if len(target.Sources) != 1 || target.Sources[0] != "main.cpp" {
		t.Errorf("unexpected sources: %#v", target.Sources)
	}
}

func TestParsePreservesDefinesOrder(t *testing.T) {
	// arrange
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]

[executable.x.defines]
FIRST = "1"
SECOND = "2"
THIRD = "3"
`)

	// act
	m, diags := Parse(fake, "/app/yambs.toml")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	target, _ := m.Target(Executable, "x")
	want := []string{"FIRST", "SECOND", "THIRD"}
	if len(target.Defines) != len(want) {
		t.Fatalf("expected %d defines, got %d", len(want), len(target.Defines))
	}

	for i, macro := range want {
		if target.Defines[i].Macro != macro {
			t.Errorf("define %d: expected %q, got %q", i, macro, target.Defines[i].Macro)
		}
	}
}

func TestParseRejectsUnknownTopLevelTable(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[nonsense.x]
sources = ["main.cpp"]
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected an error for an unknown top-level table")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]
typo_key = true
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestParseRejectsBadFlagToken(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]
cxxflags_append = ["rm -rf /"]
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected an error for a malformed flag token")
	}
}

func TestParseRejectsBadTargetName(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[executable."1bad"]
sources = ["main.cpp"]
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected an error for a bad target name")
	}
}

func TestParseRejectsTypeOnExecutable(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]
type = "shared"
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected an error for a type key on an executable")
	}
}

func TestParseLibraryDefaultsToStatic(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/src/lib.cpp", "void lib() {}")
	fake.Put("/app/yambs.toml", `
[library.lib]
sources = ["src/lib.cpp"]
`)

	m, diags := Parse(fake, "/app/yambs.toml")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	target, _ := m.Target(StaticLibrary, "lib")
	if target.LibraryType != StaticLibrary {
		t.Errorf("expected default library type static, got %s", target.LibraryType)
	}
}

func TestParseDependencyVariants(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/main.cpp", "int main(){return 0;}")
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]

[executable.x.dependencies.lib]
path = "../lib"

[executable.x.dependencies.gtest]
include_directory = "/usr/include/gtest"
[executable.x.dependencies.gtest.debug]
binary_path = "/usr/lib/libgtestd.a"
[executable.x.dependencies.gtest.release]
binary_path = "/usr/lib/libgtest.a"

[executable.x.dependencies.hdr]
include_directory = "/opt/hdr/include"

[executable.x.dependencies.zlib]
[executable.x.dependencies.zlib.debug]
pkg_config_search_dir = "/opt/zlib/debug/pkgconfig"
[executable.x.dependencies.zlib.release]
pkg_config_search_dir = "/opt/zlib/release/pkgconfig"
`)

	m, diags := Parse(fake, "/app/yambs.toml")
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	target, _ := m.Target(Executable, "x")
	cases := map[string]DependencyVariant{
		"lib":   VariantSource,
		"gtest": VariantPrebuiltBinary,
		"hdr":   VariantHeaderOnly,
		"zlib":  VariantPkgConfig,
	}

	for name, want := range cases {
		dep, ok := target.Dependencies[name]
		if !ok {
			t.Fatalf("expected dependency %q", name)
		}
		if dep.Variant != want {
			t.Errorf("dependency %q: expected variant %s, got %s", name, want, dep.Variant)
		}
	}
}

func TestParseRejectsAmbiguousDependency(t *testing.T) {
	fake := fsx.NewFake()
	fake.Put("/app/yambs.toml", `
[executable.x]
sources = ["main.cpp"]

[executable.x.dependencies.bad]
path = "../lib"
include_directory = "/opt/include"
`)

	_, diags := Parse(fake, "/app/yambs.toml")
	if !diags.HasErrors() {
		t.Fatal("expected a DependencyAmbiguous error")
	}
}
