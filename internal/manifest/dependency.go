package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	toml "github.com/pelletier/go-toml"
)

// parseDependency disambiguates one [*.dependencies.<name>] table into a
// DependencyDescriptor by which keys are present (spec §4.1): "a descriptor
// is disambiguated by which keys are present; the resolver rejects a
// descriptor that mixes keys from different variants."
func parseDependency(path, target, name string, tree *toml.Tree) (*DependencyDescriptor, hcl.Diagnostics) {
	keys := map[string]bool{}
	for _, k := range tree.Keys() {
		keys[k] = true
	}

	hasPath := keys[DepPathAttr]
	hasDebug := keys[DepDebugAttr]
	hasRelease := keys[DepReleaseAttr]
	hasIncludeDir := keys[DepIncludeDirAttr]

	switch {
	case hasPath:
		for k := range keys {
			if !sourceDepAttrs[k] {
				return nil, errDependencyAmbiguous(path, target, name,
					fmt.Sprintf("key %q is not valid on a source dependency", k))
			}
		}

		desc := &DependencyDescriptor{Name: name, Variant: VariantSource}
		if s, ok := tree.Get(DepPathAttr).(string); ok {
			desc.SourcePath = s
		}
		if s, ok := tree.Get(DepNameAttr).(string); ok {
			desc.NameOverride = s
		}
		return desc, nil

	case hasDebug && hasRelease:
		debugTree, dok := tree.Get(DepDebugAttr).(*toml.Tree)
		releaseTree, rok := tree.Get(DepReleaseAttr).(*toml.Tree)
		if !dok || !rok {
			return nil, errDependencyAmbiguous(path, target, name, "debug and release must be tables")
		}

		if debugTree.Has(DepBinaryPathAttr) || releaseTree.Has(DepBinaryPathAttr) {
			return parsePrebuiltBinary(path, target, name, tree, debugTree, releaseTree, keys)
		}

		if debugTree.Has(DepPkgConfigSearchDirAttr) || releaseTree.Has(DepPkgConfigSearchDirAttr) {
			return parsePkgConfig(path, target, name, tree, debugTree, releaseTree, keys)
		}

		return nil, errDependencyAmbiguous(path, target, name,
			"debug/release tables must both declare binary_path or both declare pkg_config_search_dir")

	case hasIncludeDir && !hasDebug && !hasRelease:
		for k := range keys {
			if !headerOnlyDepAttrs[k] {
				return nil, errDependencyAmbiguous(path, target, name,
					fmt.Sprintf("key %q is not valid on a header-only dependency", k))
			}
		}

		return &DependencyDescriptor{
			Name:                       name,
			Variant:                    VariantHeaderOnly,
			HeaderOnlyIncludeDirectory: tree.Get(DepIncludeDirAttr).(string),
		}, nil

	default:
		return nil, errDependencyAmbiguous(path, target, name,
			"dependency table matches no known shape: expected path, debug/release, or include_directory")
	}
}

func parsePrebuiltBinary(path, target, name string, tree, debugTree, releaseTree *toml.Tree, keys map[string]bool) (*DependencyDescriptor, hcl.Diagnostics) {
	for k := range keys {
		if !prebuiltDepAttrs[k] {
			return nil, errDependencyAmbiguous(path, target, name,
				fmt.Sprintf("key %q is not valid on a prebuilt-binary dependency", k))
		}
	}

	debugPath, _ := debugTree.Get(DepBinaryPathAttr).(string)
	releasePath, _ := releaseTree.Get(DepBinaryPathAttr).(string)
	if debugPath == "" || releasePath == "" {
		return nil, errDependencyAmbiguous(path, target, name,
			"prebuilt-binary dependency requires debug.binary_path and release.binary_path")
	}

	includeDir, _ := tree.Get(DepIncludeDirAttr).(string)

	search := SearchSystem
	if s, ok := tree.Get(DepSearchTypeAttr).(string); ok {
		switch s {
		case string(SearchSystem), string(SearchUser):
			search = SearchType(s)
		default:
			return nil, errDependencyAmbiguous(path, target, name,
				fmt.Sprintf("search_type must be %q or %q, got %q", SearchSystem, SearchUser, s))
		}
	}

	return &DependencyDescriptor{
		Name:              name,
		Variant:           VariantPrebuiltBinary,
		DebugBinaryPath:   debugPath,
		ReleaseBinaryPath: releasePath,
		IncludeDirectory:  includeDir,
		SearchType:        search,
	}, nil
}

func parsePkgConfig(path, target, name string, tree, debugTree, releaseTree *toml.Tree, keys map[string]bool) (*DependencyDescriptor, hcl.Diagnostics) {
	for k := range keys {
		if !pkgConfigDepAttrs[k] {
			return nil, errDependencyAmbiguous(path, target, name,
				fmt.Sprintf("key %q is not valid on a pkg-config dependency", k))
		}
	}

	debugDir, _ := debugTree.Get(DepPkgConfigSearchDirAttr).(string)
	releaseDir, _ := releaseTree.Get(DepPkgConfigSearchDirAttr).(string)
	if debugDir == "" || releaseDir == "" {
		return nil, errDependencyAmbiguous(path, target, name,
			"pkg-config dependency requires debug.pkg_config_search_dir and release.pkg_config_search_dir")
	}

	return &DependencyDescriptor{
		Name:             name,
		Variant:          VariantPkgConfig,
		DebugSearchDir:   debugDir,
		ReleaseSearchDir: releaseDir,
	}, nil
}
