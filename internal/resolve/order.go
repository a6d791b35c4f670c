package resolve

import (
	"golang.org/x/exp/slices"

	"github.com/yambs-build/yambs/internal/manifest"
	"github.com/yambs-build/yambs/internal/target"
)

// orderTargetsByID sorts specs lexicographically by the TargetId they will
// be assigned, satisfying spec §4.3's tie-break rule when the resolver is
// asked to resolve every target in a manifest rather than one named root.
func orderTargetsByID(manifestPath string, specs []*manifest.TargetSpec) {
	slices.SortFunc(specs, func(a, b *manifest.TargetSpec) bool {
		idA := target.ID{ManifestPath: manifestPath, Kind: a.Kind, Name: a.Name}
		idB := target.ID{ManifestPath: manifestPath, Kind: b.Kind, Name: b.Name}
		return idA.Less(idB)
	})
}
