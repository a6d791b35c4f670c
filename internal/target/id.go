// Package target holds target identity (spec §4.2) and the resolved-graph
// node type (spec §3 ResolvedTarget), generalized from the teacher's
// action.Address / cty.Path identity scheme to a plain, comparable struct —
// yambs targets have no expression language, so a string tuple is enough.
package target

import (
	"fmt"

	"github.com/yambs-build/yambs/internal/manifest"
)

// ID is the stable identity of a target: (manifest_absolute_path, kind,
// name), spec §3. Equality and ordering derive from this tuple.
type ID struct {
	ManifestPath string
	Kind         manifest.Kind
	Name         string
}

func (id ID) String() string {
	return fmt.Sprintf("%s:%s:%s", id.ManifestPath, id.Kind, id.Name)
}

// Less orders IDs lexicographically by (ManifestPath, Kind, Name), the tie
// break spec §4.3 requires for the deterministic topological order.
func (id ID) Less(other ID) bool {
	if id.ManifestPath != other.ManifestPath {
		return id.ManifestPath < other.ManifestPath
	}
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Name < other.Name
}
