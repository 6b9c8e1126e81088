package chunkgraph

import (
	"fmt"
	"iter"

	"github.com/rhansen/chunkgraph/internal/itertools"
)

// A CycleWitness is evidence that a proposed dependency edge would create a cycle: the [Chunk]
// that the edge's endpoints would share.  See [WouldCreateCycle].
type CycleWitness[N comparable] struct {
	// Chunk is the full set of nodes implicated in the would-be cycle, including both endpoints
	// of the probed edge.  Always has at least two members.
	Chunk *Chunk[N]
}

// Pair returns two distinct members of the implicated chunk.  Two members are enough to tell a
// user "adding this dependency would make A and B circular"; the full membership is available
// from [CycleWitness.Chunk].
func (w *CycleWitness[N]) Pair() (N, N) {
	return w.Chunk.nodes[0], w.Chunk.nodes[1]
}

func (w *CycleWitness[N]) String() string {
	return fmt.Sprintf("cycle through %v", w.Chunk)
}

// WouldCreateCycle reports whether adding the dependency edge from -> to would introduce a new
// dependency cycle.  The given graph is not modified, and no mutable overlay is involved: the
// hypothetical edge exists only in a merged view constructed for the duration of the call, so
// there is nothing to roll back no matter how the call ends.
//
// A nil witness with a nil error means the proposed edge is safe.  Notably, if from and to are
// already mutually reachable in the current graph, the edge does not introduce a *new* cycle and
// the result is "safe"; callers that care about the pre-existing cycle can find it with
// [CyclicChunks].
//
// Probing a self-edge (from == to) is a caller error, as is probing an endpoint that is not a
// node of the graph.
func WouldCreateCycle[N comparable](g Graph[N], from, to N) (*CycleWitness[N], error) {
	if from == to {
		return nil, fmt.Errorf("cannot probe a self-edge: both endpoints are %v", from)
	}
	snap := Snapshot(g).(*snapshot[N])
	for _, n := range []N{from, to} {
		if !snap.contains(n) {
			return nil, fmt.Errorf("probe endpoint %v is not a node of the graph", n)
		}
	}
	before := Condense(snap)
	if before.ChunkOf(from) == before.ChunkOf(to) {
		// Already circular without the proposed edge; adding it changes nothing.
		return nil, nil
	}
	after := Condense(&overlayGraph[N]{base: snap, from: from, to: to})
	if ch := after.ChunkOf(from); ch.Contains(to) {
		return &CycleWitness[N]{Chunk: ch}, nil
	}
	return nil, nil
}

// An overlayGraph is its base graph plus one extra edge from -> to.  The duplicate edge that
// results when the base already contains from -> to is harmless; [Snapshot] collapses duplicates.
type overlayGraph[N comparable] struct {
	base     Graph[N]
	from, to N
}

var _ Graph[int] = (*overlayGraph[int])(nil)

func (g *overlayGraph[N]) Nodes() iter.Seq[N] {
	return g.base.Nodes()
}

func (g *overlayGraph[N]) In(n N) iter.Seq[N] {
	if n != g.from {
		return g.base.In(n)
	}
	return itertools.Cat(g.base.In(n), itertools.One(g.to))
}
