package generate

import "github.com/yambs-build/yambs/internal/resolve"

// ExpectedCompileUnits counts every source file the generator emitted a
// compile rule for, across the whole graph — the denominator the progress
// reporter needs to render a percentage (spec §4.7: "counts total expected
// compile units from the generator's manifest of work").
func ExpectedCompileUnits(graph *resolve.Graph) int {
	total := 0
	for _, t := range graph.Order {
		total += len(t.Sources)
	}
	return total
}
