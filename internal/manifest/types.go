package manifest

// Kind distinguishes a target's build product per spec §3 TargetSpec.
type Kind string

const (
	Executable    Kind = "executable"
	StaticLibrary Kind = "static"
	SharedLibrary Kind = "shared"
)

// Manifest is the parsed content of one yambs.toml (spec §3). Its lifetime
// ends once the resolver has lowered its targets into the registry (spec §9
// "destroyed when the resolver finishes").
type Manifest struct {
	// Path is the canonical absolute path to the yambs.toml file.
	Path string
	// Dir is the directory containing Path.
	Dir string
	// ContentHash is the sha256 hex digest of the raw manifest bytes,
	// used by the project cache (spec §4.4).
	ContentHash string

	Executables map[string]*TargetSpec
	Libraries   map[string]*TargetSpec

	// declOrder preserves the order targets were declared in, so the
	// generator's determinism requirement (spec §4.5) can be satisfied
	// without depending on Go map iteration.
	declOrder []*TargetSpec
}

// Target looks up a target by kind and name.
func (m *Manifest) Target(kind Kind, name string) (*TargetSpec, bool) {
	switch kind {
	case Executable:
		t, ok := m.Executables[name]
		return t, ok
	default:
		t, ok := m.Libraries[name]
		return t, ok
	}
}

// AllTargets returns every target in declaration order.
func (m *Manifest) AllTargets() []*TargetSpec {
	result := make([]*TargetSpec, len(m.declOrder))
	copy(result, m.declOrder)
	return result
}

// addTarget records t both in its kind-indexed map and in declaration
// order. Called only by the parser while building a Manifest.
func (m *Manifest) addTarget(t *TargetSpec) {
	t.Manifest = m
	if m.Executables == nil {
		m.Executables = map[string]*TargetSpec{}
	}
	if m.Libraries == nil {
		m.Libraries = map[string]*TargetSpec{}
	}

	switch t.Kind {
	case Executable:
		m.Executables[t.Name] = t
	default:
		m.Libraries[t.Name] = t
	}
	m.declOrder = append(m.declOrder, t)
}

// Define is one macro→value pair. Defines are kept as an ordered slice, not
// a bare map, because spec §8 Testable Property 1 requires the declared
// order of `defines` to round-trip.
type Define struct {
	Macro string
	Value string
}

// TargetSpec is the raw, pre-resolution description of one target
// (executable or library), spec §3.
type TargetSpec struct {
	Kind Kind
	Name string

	// LibraryType is only meaningful when Kind != Executable: it is the
	// declared `type` field, "static" (default) or "shared".
	LibraryType Kind

	// Sources are relative paths from Dir, in declaration order.
	Sources []string

	CxxflagsAppend []string
	CppflagsAppend []string

	Defines []Define

	// Dependencies maps a dependency's local name to its descriptor.
	Dependencies map[string]*DependencyDescriptor
	// DependencyOrder is the declaration order of Dependencies' keys.
	DependencyOrder []string

	// Manifest is set by the parser once the owning Manifest exists.
	Manifest *Manifest
}

// DependencyVariant tags which arm of DependencyDescriptor is populated
// (spec §3 "Either-typed dependency descriptor... a tagged variant over
// four arms").
type DependencyVariant int

const (
	VariantSource DependencyVariant = iota
	VariantPrebuiltBinary
	VariantHeaderOnly
	VariantPkgConfig
)

func (v DependencyVariant) String() string {
	switch v {
	case VariantSource:
		return "source"
	case VariantPrebuiltBinary:
		return "prebuilt binary"
	case VariantHeaderOnly:
		return "header-only"
	case VariantPkgConfig:
		return "pkg-config"
	default:
		return "unknown"
	}
}

// SearchType is the include-path visibility of a PrebuiltBinary dependency.
type SearchType string

const (
	SearchSystem SearchType = "system"
	SearchUser   SearchType = "user"
)

// DependencyDescriptor is a tagged variant over the four dependency arms of
// spec §3.
type DependencyDescriptor struct {
	Name    string
	Variant DependencyVariant

	// Source
	SourcePath   string
	NameOverride string

	// PrebuiltBinary
	DebugBinaryPath   string
	ReleaseBinaryPath string
	IncludeDirectory  string
	SearchType        SearchType

	// HeaderOnly
	HeaderOnlyIncludeDirectory string

	// PkgConfig
	DebugSearchDir   string
	ReleaseSearchDir string
}
