package generate

import (
	"fmt"
	"strings"

	"github.com/yambs-build/yambs/internal/compiler"
	"github.com/yambs-build/yambs/internal/fsx"
)

// writeSharedFragments emits the five fixed files under make_include/ (spec
// §6.4), in the fixed content spec §4.5 requires the top-level Makefile to
// include in order.
func writeSharedFragments(fs fsx.FS, l Layout, comp compiler.Compiler, cxxstd string) error {
	if err := fs.MkdirAll(l.MakeIncludeDir(), 0o755); err != nil {
		return err
	}

	if err := writeFile(fs, l.DefinesMk(), definesMk(comp, cxxstd)); err != nil {
		return err
	}
	if err := writeFile(fs, l.DebugMk(), debugMk()); err != nil {
		return err
	}
	if err := writeFile(fs, l.ReleaseMk(), releaseMk()); err != nil {
		return err
	}
	if err := writeFile(fs, l.StrictMk(), strictMk(comp.Family)); err != nil {
		return err
	}
	return writeFile(fs, l.DefaultMakeMk(), defaultMakeMk())
}

func definesMk(comp compiler.Compiler, cxxstd string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CXX := %s\n", comp.Path)
	if cxxstd != "" {
		fmt.Fprintf(&b, "CXXSTD := -std=%s\n", cxxstd)
	} else {
		fmt.Fprintf(&b, "CXXSTD :=\n")
	}
	return b.String()
}

func debugMk() string {
	return "CXXFLAGS_CONFIG := -g -O0\n"
}

func releaseMk() string {
	return "CXXFLAGS_CONFIG := -O3 -DNDEBUG\n"
}

// strictMk emits the warning-flag vocabulary for comp's family. gcc and
// clang share the same core flag set; an unrecognized family falls back to
// the portable subset both accept.
func strictMk(family compiler.Family) string {
	switch family {
	case compiler.FamilyGCC, compiler.FamilyClang:
		return "CXXFLAGS_STRICT := -Wall -Wextra -Wpedantic\n"
	default:
		return "CXXFLAGS_STRICT := -Wall\n"
	}
}

func defaultMakeMk() string {
	return `.PHONY: all clean

all: $(TARGETS)

clean:
	rm -rf $(OBJDIRS) $(TARGETS)

%.o: %.cpp
	$(CXX) $(CXXSTD) $(CPPFLAGS) $(CXXFLAGS) -MMD -MP -c $< -o $@
`
}

func writeFile(fs fsx.FS, path, content string) error {
	return fs.WriteFile(path, []byte(content), 0o644)
}
