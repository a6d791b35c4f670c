// Package manifest implements the yambs.toml parser and schema validation
// (spec §4.1), grounded on the teacher's HCL-based recipe parser
// (internal/lang/schema.go, internal/module/content.go) but retargeted at
// TOML: pelletier/go-toml's Tree preserves declaration order and exposes
// per-key source positions, which the teacher's hcl body/schema pair gave
// for free from HCL syntax.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/yambs-build/yambs/internal/fsx"

	"github.com/hashicorp/hcl/v2"
	toml "github.com/pelletier/go-toml"
)

// Parse reads and validates the yambs.toml at path, returning a normalized
// Manifest (spec §4.1) or the first batch of schema diagnostics found.
func Parse(fs fsx.FS, path string) (*Manifest, hcl.Diagnostics) {
	canonical, err := fs.Canonicalize(path)
	if err != nil {
		return nil, errIo(path, err)
	}

	raw, err := fs.ReadFile(canonical)
	if err != nil {
		return nil, errIo(canonical, err)
	}

	tree, err := toml.LoadBytes(raw)
	if err != nil {
		return nil, errTomlParse(canonical, err)
	}

	sum := sha256.Sum256(raw)
	m := &Manifest{
		Path:        canonical,
		Dir:         filepath.Dir(canonical),
		ContentHash: hex.EncodeToString(sum[:]),
	}

	diags := hcl.Diagnostics{}
	for _, table := range tree.Keys() {
		if table != ExecutableTable && table != LibraryTable {
			pos := tree.GetPosition(table)
			diags = diags.Extend(errUnknownTable(canonical, table, rangeAt(canonical, raw, pos.Line, pos.Col)))
			continue
		}

		kind := Executable
		if table == LibraryTable {
			kind = StaticLibrary
		}

		sub, ok := tree.Get(table).(*toml.Tree)
		if !ok {
			continue
		}

		for _, name := range keysInDeclOrder(sub) {
			targetTree, ok := sub.Get(name).(*toml.Tree)
			if !ok {
				continue
			}

			target, targetDiags := parseTarget(fs, m.Dir, canonical, raw, kind, name, targetTree)
			diags = diags.Extend(targetDiags)
			if targetDiags.HasErrors() {
				continue
			}

			m.addTarget(target)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	return m, nil
}

func parseTarget(fs fsx.FS, dir, path string, raw []byte, kind Kind, name string, tree *toml.Tree) (*TargetSpec, hcl.Diagnostics) {
	diags := hcl.Diagnostics{}

	if !ValidTargetName(name) {
		diags = diags.Extend(errBadTargetName(path, name, nil))
	}

	for _, key := range tree.Keys() {
		if !targetAttrs[key] {
			pos := tree.GetPosition(key)
			diags = diags.Extend(errUnknownKey(path, name, key, rangeAt(path, raw, pos.Line, pos.Col)))
		}
	}

	target := &TargetSpec{
		Kind:        kind,
		Name:        name,
		LibraryType: StaticLibrary,
	}

	if !tree.Has(SourcesAttr) {
		diags = diags.Extend(errMissingRequired(path, name, SourcesAttr))
	} else {
		sources, ok := toStringSlice(tree.Get(SourcesAttr))
		if !ok {
			diags = diags.Extend(errMissingRequired(path, name, SourcesAttr))
		} else {
			for _, src := range sources {
				if !RecognizedSourceExtension(src) {
					diags = diags.Extend(errSourceNotFound(path, name, src))
					continue
				}
				if _, statErr := fs.Stat(filepath.Join(dir, src)); statErr != nil {
					diags = diags.Extend(errSourceNotFound(path, name, src))
					continue
				}
				target.Sources = append(target.Sources, src)
			}
		}
	}

	if v := tree.Get(CxxflagsAppendAttr); v != nil {
		flags, _ := toStringSlice(v)
		for _, tok := range flags {
			if !ValidFlagToken(tok) {
				pos := tree.GetPosition(CxxflagsAppendAttr)
				diags = diags.Extend(errBadFlagToken(path, name, tok, rangeAt(path, raw, pos.Line, pos.Col)))
				continue
			}
			target.CxxflagsAppend = append(target.CxxflagsAppend, tok)
		}
	}

	if v := tree.Get(CppflagsAppendAttr); v != nil {
		flags, _ := toStringSlice(v)
		for _, tok := range flags {
			if !ValidFlagToken(tok) {
				pos := tree.GetPosition(CppflagsAppendAttr)
				diags = diags.Extend(errBadFlagToken(path, name, tok, rangeAt(path, raw, pos.Line, pos.Col)))
				continue
			}
			target.CppflagsAppend = append(target.CppflagsAppend, tok)
		}
	}

	target.Defines = parseDefines(tree.Get(DefinesAttr))

	if kind == Executable {
		if tree.Has(TypeAttr) {
			pos := tree.GetPosition(TypeAttr)
			diags = diags.Extend(errUnknownKey(path, name, TypeAttr, rangeAt(path, raw, pos.Line, pos.Col)))
		}
	} else if v, ok := tree.Get(TypeAttr).(string); ok {
		switch v {
		case "static":
			target.LibraryType = StaticLibrary
		case "shared":
			target.LibraryType = SharedLibrary
		default:
			diags = diags.Extend(errUnknownKey(path, name, fmt.Sprintf("type=%q", v), nil))
		}
	}

	if depsTree, ok := tree.Get(DependenciesAttr).(*toml.Tree); ok {
		target.Dependencies = map[string]*DependencyDescriptor{}
		for _, depName := range keysInDeclOrder(depsTree) {
			depTree, ok := depsTree.Get(depName).(*toml.Tree)
			if !ok {
				continue
			}

			desc, depDiags := parseDependency(path, name, depName, depTree)
			diags = diags.Extend(depDiags)
			if depDiags.HasErrors() {
				continue
			}

			target.Dependencies[depName] = desc
			target.DependencyOrder = append(target.DependencyOrder, depName)
		}
	}

	return target, diags
}

// keysInDeclOrder returns tree's keys in source order. go-toml's Tree.Keys
// ranges over a map, so the order is recovered from each key's recorded
// (line, column) position; keys without a distinct position sort by name.
func keysInDeclOrder(tree *toml.Tree) []string {
	keys := tree.Keys()
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := tree.GetPosition(keys[i]), tree.GetPosition(keys[j])
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		if pi.Col != pj.Col {
			return pi.Col < pj.Col
		}
		return keys[i] < keys[j]
	})
	return keys
}

// parseDefines returns defines in declaration order when defines is a TOML
// table, matching spec §8 Testable Property 1. A plain map value carries no
// positions, so that form falls back to sorted-by-key order.
func parseDefines(v interface{}) []Define {
	switch defines := v.(type) {
	case *toml.Tree:
		result := make([]Define, 0, len(defines.Keys()))
		for _, key := range keysInDeclOrder(defines) {
			if s, ok := defines.Get(key).(string); ok {
				result = append(result, Define{Macro: key, Value: s})
			}
		}
		return result
	case map[string]interface{}:
		keys := make([]string, 0, len(defines))
		for k := range defines {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		result := make([]Define, 0, len(keys))
		for _, k := range keys {
			if s, ok := defines[k].(string); ok {
				result = append(result, Define{Macro: k, Value: s})
			}
		}
		return result
	default:
		return nil
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}

	return result, true
}
