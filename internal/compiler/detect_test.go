package compiler

import "testing"

func TestClassifyGCC(t *testing.T) {
	banner := "g++ (Ubuntu 12.2.0-1) 12.2.0\nCopyright (C) 2022 Free Software Foundation, Inc.\n"
	if got := classify(banner); got != FamilyGCC {
		t.Fatalf("expected FamilyGCC, got %s", got)
	}
}

func TestClassifyClang(t *testing.T) {
	banner := "Debian clang version 14.0.6\nTarget: x86_64-pc-linux-gnu\n"
	if got := classify(banner); got != FamilyClang {
		t.Fatalf("expected FamilyClang, got %s", got)
	}
}

func TestClassifyUnknown(t *testing.T) {
	if got := classify("some other compiler v1\n"); got != FamilyUnknown {
		t.Fatalf("expected FamilyUnknown, got %s", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo\nthree"); got != "one" {
		t.Fatalf("expected %q, got %q", "one", got)
	}
	if got := firstLine("solo"); got != "solo" {
		t.Fatalf("expected %q, got %q", "solo", got)
	}
}

func TestDetectRequiresCXX(t *testing.T) {
	if _, err := Detect(""); err == nil {
		t.Fatal("expected an error when CXX is unset")
	}
}

func TestDetectUnknownBinary(t *testing.T) {
	if _, err := Detect("yambs-nonexistent-compiler-binary"); err == nil {
		t.Fatal("expected an error for a compiler not on PATH")
	}
}
