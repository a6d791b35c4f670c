package pkgconfig

import (
	"testing"

	"github.com/yambs-build/yambs/internal/target"
)

func TestParseFlagsSplitsIncludeAndLibDirs(t *testing.T) {
	result := parseFlags("-I/usr/include/zlib -pthread", "-L/usr/lib -lz")

	if len(result.IncludeDirs) != 1 || result.IncludeDirs[0] != "/usr/include/zlib" {
		t.Fatalf("unexpected include dirs: %#v", result.IncludeDirs)
	}
	if len(result.LibDirs) != 1 || result.LibDirs[0] != "/usr/lib" {
		t.Fatalf("unexpected lib dirs: %#v", result.LibDirs)
	}

	if len(result.CompileFlags) != 1 || result.CompileFlags[0] != "-pthread" {
		t.Fatalf("unexpected compile flags: %#v", result.CompileFlags)
	}
	if len(result.LinkerFlags) != 1 || result.LinkerFlags[0] != "-lz" {
		t.Fatalf("unexpected linker flags: %#v", result.LinkerFlags)
	}
}

func TestParseFlagsEmptyOutput(t *testing.T) {
	result := parseFlags("", "")
	if len(result.IncludeDirs) != 0 || len(result.LibDirs) != 0 || len(result.LinkerFlags) != 0 || len(result.CompileFlags) != 0 {
		t.Fatalf("expected an empty result, got %#v", result)
	}
}

func TestFakeQueryMissReturnsError(t *testing.T) {
	fake := NewFake()
	if _, err := fake.Query("zlib", "/opt/zlib"); err == nil {
		t.Fatal("expected an error for an unseeded query")
	}
	if len(fake.Queries) != 1 || fake.Queries[0] != "zlib\x00/opt/zlib" {
		t.Fatalf("expected the query to be recorded, got %#v", fake.Queries)
	}
}

func TestFakeQueryHit(t *testing.T) {
	fake := NewFake()
	want := target.PkgConfigResult{IncludeDirs: []string{"/opt/zlib/include"}}
	fake.Put("zlib", "/opt/zlib", want)

	got, err := fake.Query("zlib", "/opt/zlib")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.IncludeDirs) != 1 || got.IncludeDirs[0] != "/opt/zlib/include" {
		t.Fatalf("unexpected result: %#v", got)
	}
}
