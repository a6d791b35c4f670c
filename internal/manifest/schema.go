package manifest

// Table and attribute names recognized by the parser (spec §4.1). Unknown
// keys anywhere in these tables are a hard MissingRequired/UnknownKey error
// — "prevents silent typos".
const (
	ExecutableTable = "executable"
	LibraryTable    = "library"
)

const (
	SourcesAttr         = "sources"
	CxxflagsAppendAttr  = "cxxflags_append"
	CppflagsAppendAttr  = "cppflags_append"
	DefinesAttr         = "defines"
	DependenciesAttr    = "dependencies"
	TypeAttr            = "type"
)

var targetAttrs = map[string]bool{
	SourcesAttr:        true,
	CxxflagsAppendAttr: true,
	CppflagsAppendAttr: true,
	DefinesAttr:        true,
	DependenciesAttr:   true,
	TypeAttr:           true,
}

// The Dep*Attr keys and the per-variant key sets below disambiguate a
// DependencyDescriptor by which keys are present in its TOML table (spec §4.1). Mixing keys from two
// variants is a hard DependencyAmbiguous error.
const (
	DepPathAttr    = "path"
	DepNameAttr    = "name"
	DepDebugAttr   = "debug"
	DepReleaseAttr = "release"
	DepIncludeDirAttr = "include_directory"
	DepSearchTypeAttr = "search_type"
	DepBinaryPathAttr = "binary_path"
	DepPkgConfigSearchDirAttr = "pkg_config_search_dir"
)

var sourceDepAttrs = map[string]bool{
	DepPathAttr: true,
	DepNameAttr: true,
}

var prebuiltDepAttrs = map[string]bool{
	DepDebugAttr:      true,
	DepReleaseAttr:    true,
	DepIncludeDirAttr: true,
	DepSearchTypeAttr: true,
}

var headerOnlyDepAttrs = map[string]bool{
	DepIncludeDirAttr: true,
}

var pkgConfigDepAttrs = map[string]bool{
	DepDebugAttr:   true,
	DepReleaseAttr: true,
}

// recognizedSourceExtensions is the allow-list a manifest's `sources`
// entries are matched against.
var recognizedSourceExtensions = []string{
	"*.cpp", "*.cc", "*.cxx", "*.c++", "*.C",
}
