package cache

import (
	"testing"

	"github.com/yambs-build/yambs/internal/compiler"
	"github.com/yambs-build/yambs/internal/fsx"
)

func TestStoreCompilerRoundTrip(t *testing.T) {
	fake := fsx.NewFake()
	store := New(fake, "/build")

	comp := compiler.Compiler{Path: "/usr/bin/g++", Family: compiler.FamilyGCC, Version: "g++ 12.2.0"}
	if err := store.StoreCompiler(comp); err != nil {
		t.Fatal(err)
	}

	got, ok := store.LoadCompiler()
	if !ok {
		t.Fatal("expected a cached compiler record")
	}
	if got != comp {
		t.Errorf("expected %#v, got %#v", comp, got)
	}
}

func TestLoadManifestMissIsNotAnError(t *testing.T) {
	fake := fsx.NewFake()
	store := New(fake, "/build")

	_, ok := store.LoadManifest("/app/yambs.toml")
	if ok {
		t.Fatal("expected a miss for an unrecorded manifest")
	}
}

func TestNeedsRegenerationDetectsMiss(t *testing.T) {
	fake := fsx.NewFake()
	store := New(fake, "/build")

	fresh := TargetRecord{ID: "x", Cxxflags: []string{"-Wall"}}
	if !store.NeedsRegeneration("x", fresh) {
		t.Fatal("expected regeneration on first sight of a target")
	}

	if err := store.StoreTarget("x", fresh); err != nil {
		t.Fatal(err)
	}

	if store.NeedsRegeneration("x", fresh) {
		t.Fatal("expected no regeneration when the fresh record matches the cache")
	}

	changed := fresh
	changed.Cxxflags = []string{"-Wall", "-Wextra"}
	if !store.NeedsRegeneration("x", changed) {
		t.Fatal("expected regeneration when flags change")
	}
}

func TestManifestRecordRoundTrip(t *testing.T) {
	fake := fsx.NewFake()
	store := New(fake, "/build")

	rec := ManifestRecord{
		Path:         "/app/yambs.toml",
		ContentHash:  "abc123",
		SourceHashes: map[string]string{"main.cpp": "deadbeef"},
	}
	if err := store.StoreManifest(rec.Path, rec); err != nil {
		t.Fatal(err)
	}

	got, ok := store.LoadManifest(rec.Path)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.ContentHash != rec.ContentHash || got.SourceHashes["main.cpp"] != "deadbeef" {
		t.Errorf("unexpected record: %#v", got)
	}
}
