package chunkgraph

import (
	"fmt"
	"iter"
)

// A SourceKind distinguishes a module's production sources from its test sources.
type SourceKind int

const (
	Production SourceKind = iota
	Test
)

func (k SourceKind) String() string {
	switch k {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// A SourceSet is one kind of a module's sources, used as a graph node for fine-grained cycle
// analysis: splitting each module into its production and test halves can show that only the test
// sources of two modules are circular while their production sources are not.
//
// SourceSet values have no identity beyond their field values; two SourceSets with the same
// module and kind are the same node.
type SourceSet[M comparable] struct {
	Module M
	Kind   SourceKind
}

func (s SourceSet[M]) String() string {
	return fmt.Sprintf("%v (%v)", s.Module, s.Kind)
}

// ExpandSourceSets expands a module-level dependency graph into a [SourceSet]-level graph:
//
//   - Each module contributes a (module, [Production]) node if has(module, Production) and a
//     (module, [Test]) node if has(module, Test), in the order of the modules slice.
//   - A module dependency m -> d contributes an edge (m, kind) -> (d, kind) for each kind of m
//     that d also has.  (Test sources depend on a dependency's test sources because test fixtures
//     and helpers live there; a dependency without sources of that kind contributes no edge.)
//   - A (m, [Test]) node always depends on (m, [Production]) when both exist: a module's tests
//     exercise its own production code.
//
// The result is an ordinary [Graph]; feed it to [Condense], [SortedChunks] or [WouldCreateCycle]
// as-is.  The deps and has callbacks are consulted lazily; the algorithms snapshot the graph so
// each is consulted at most once per node per query.
func ExpandSourceSets[M comparable](modules []M, deps func(M) iter.Seq[M], has func(M, SourceKind) bool) Graph[SourceSet[M]] {
	nodes := []SourceSet[M](nil)
	for _, m := range modules {
		for _, k := range []SourceKind{Production, Test} {
			if has(m, k) {
				nodes = append(nodes, SourceSet[M]{Module: m, Kind: k})
			}
		}
	}
	return New(nodes, func(s SourceSet[M]) iter.Seq[SourceSet[M]] {
		return func(yield func(SourceSet[M]) bool) {
			for d := range deps(s.Module) {
				if has(d, s.Kind) && !yield(SourceSet[M]{Module: d, Kind: s.Kind}) {
					return
				}
			}
			if s.Kind == Test && has(s.Module, Production) {
				yield(SourceSet[M]{Module: s.Module, Kind: Production})
			}
		}
	})
}
