package chunkgraph

import (
	"iter"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Graph is a directed graph over an opaque node type.  The node type carries whatever identity
// the caller cares about (a module name, a (module, source kind) pair, a [Chunk]); this package
// never inspects node values beyond comparing them for equality.
//
// An edge n -> d means "n depends on d" (d must be processed before n).  Edges are derived on
// demand from [Graph.In], so a Graph may be a thin adapter over a live project model; see
// [Snapshot] for how the algorithms in this package insulate themselves from that.
type Graph[N comparable] interface {
	// Nodes returns every node in the graph.  The iteration order must be stable for a given
	// graph instance; it determines the relative order of nodes within a [Chunk] and the
	// tie-breaking order of the sorted chunk sequence.  Duplicate nodes are tolerated (the first
	// occurrence wins).
	Nodes() iter.Seq[N]

	// In returns the nodes that the given node depends on.  Duplicates are tolerated (treated as
	// a single edge).  A yielded node that is not a member of [Graph.Nodes] is treated as "no
	// such edge" and ignored by the algorithms in this package.  Called only with nodes yielded
	// by [Graph.Nodes].
	In(n N) iter.Seq[N]
}

// New returns a [Graph] over the given nodes with edges derived from the given dependency
// callback.  The callback is invoked lazily, possibly multiple times per node; wrap the result in
// [Snapshot] (or pass it to one of the algorithms in this package, which do so themselves) if the
// callback is expensive or reads mutable state.
func New[N comparable](nodes []N, deps func(N) iter.Seq[N]) Graph[N] {
	return &funcGraph[N]{nodes: nodes, deps: deps}
}

type funcGraph[N comparable] struct {
	nodes []N
	deps  func(N) iter.Seq[N]
}

var _ Graph[int] = (*funcGraph[int])(nil)

func (g *funcGraph[N]) Nodes() iter.Seq[N] {
	return slices.Values(g.nodes)
}

func (g *funcGraph[N]) In(n N) iter.Seq[N] {
	return g.deps(n)
}

// Snapshot materializes the given graph's node set and edge lists into an immutable [Graph].
// [Graph.Nodes] and [Graph.In] of the input are each consumed exactly once, so a dependency
// callback that queries a live project model is not re-queried by repeated traversals, and a
// mutation of the underlying model after Snapshot returns cannot change the graph mid-algorithm.
//
// Duplicate nodes and duplicate edges are collapsed (first occurrence wins), and edges to nodes
// outside the node set are dropped.  Snapshotting a snapshot returns it unchanged.
//
// Snapshot holds no locks of its own, so a dependency callback is free to acquire whatever locks
// it needs without risk of deadlocking against this package.
func Snapshot[N comparable](g Graph[N]) Graph[N] {
	if snap, ok := g.(*snapshot[N]); ok {
		return snap
	}
	snap := &snapshot[N]{
		index: map[N]int{},
		in:    map[N][]N{},
	}
	for n := range g.Nodes() {
		if _, ok := snap.index[n]; ok {
			continue
		}
		snap.index[n] = len(snap.nodes)
		snap.nodes = append(snap.nodes, n)
	}
	for _, n := range snap.nodes {
		seen := mapset.NewThreadUnsafeSet[N]()
		for d := range g.In(n) {
			if _, ok := snap.index[d]; !ok {
				continue
			}
			if seen.Add(d) {
				snap.in[n] = append(snap.in[n], d)
			}
		}
	}
	return snap
}

type snapshot[N comparable] struct {
	nodes []N
	index map[N]int // Node to position in nodes.
	in    map[N][]N // Deduplicated, membership-checked dependency lists.
}

var _ Graph[int] = (*snapshot[int])(nil)

func (g *snapshot[N]) Nodes() iter.Seq[N] {
	return slices.Values(g.nodes)
}

func (g *snapshot[N]) In(n N) iter.Seq[N] {
	return slices.Values(g.in[n])
}

func (g *snapshot[N]) contains(n N) bool {
	_, ok := g.index[n]
	return ok
}
