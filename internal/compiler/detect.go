// Package compiler detects the host C++ compiler named by CXX (spec §6.2)
// and classifies its family, grounded on the teacher's environment/PATH
// probing in internal/lang/config (which discovers the shell used to run a
// recipe's commands the same way: read an env var, spawn it with a
// diagnostic flag, inspect the output).
package compiler

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Family is the compiler vendor family, used to select warning-flag
// vocabulary in the strict.mk fragment (spec §4.5).
type Family string

const (
	FamilyGCC     Family = "gcc"
	FamilyClang   Family = "clang"
	FamilyUnknown Family = "unknown"
)

// Compiler is the cached record of spec §4.4's compiler/ sub-store.
type Compiler struct {
	Path    string `json:"path"`
	Family  Family `json:"family"`
	Version string `json:"version"`
}

// Detect resolves CXX to an absolute path and classifies it by spawning
// `<CXX> --version` and pattern-matching the banner, per spec §6.2 (CXX is
// required; its absence is a CompilerNotFound error).
func Detect(cxx string) (Compiler, error) {
	if cxx == "" {
		return Compiler{}, fmt.Errorf("CXX is not set")
	}

	path, err := exec.LookPath(cxx)
	if err != nil {
		return Compiler{}, fmt.Errorf("compiler %q not found on PATH: %w", cxx, err)
	}

	var stdout bytes.Buffer
	cmd := exec.Command(path, "--version")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return Compiler{}, fmt.Errorf("failed to run %q --version: %w", path, err)
	}

	banner := stdout.String()
	family := classify(banner)
	if family == FamilyUnknown {
		return Compiler{}, fmt.Errorf("unsupported compiler family for %q: %s", path, firstLine(banner))
	}

	return Compiler{Path: path, Family: family, Version: firstLine(banner)}, nil
}

func classify(banner string) Family {
	lower := strings.ToLower(banner)
	switch {
	case strings.Contains(lower, "clang"):
		return FamilyClang
	case strings.Contains(lower, "gcc") || strings.Contains(lower, "g++") || strings.Contains(lower, "free software foundation"):
		return FamilyGCC
	default:
		return FamilyUnknown
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
