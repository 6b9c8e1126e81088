package chunkgraph

import (
	"iter"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Condensation is the chunk-level view of a [Graph]: its nodes are the graph's strongly
// connected components (see [Chunk]), and it has an edge chunk A -> chunk B iff some member of A
// depends on some member of B (A != B).  A condensation is acyclic by construction; [Toposort]
// relies on that and [SortedChunks] verifies it.
//
// A Condensation is itself a [Graph] over *[Chunk], so every algorithm in this package can be
// applied to it.
type Condensation[N comparable] struct {
	chunks  []*Chunk[N] // Ordered by each chunk's first member's position in the input graph.
	chunkOf map[N]*Chunk[N]
	in      map[*Chunk[N]][]*Chunk[N]
}

var _ Graph[*Chunk[int]] = (*Condensation[int])(nil)

// Chunks yields every chunk.  The chunks partition the input graph's node set.  The order is
// deterministic for identical input graphs (chunks appear in the order of their first member in
// the input node sequence) but is not a dependency order; use [Toposort] or [SortedChunks] for
// that.
func (c *Condensation[N]) Chunks() iter.Seq[*Chunk[N]] {
	return slices.Values(c.chunks)
}

// ChunkOf returns the chunk owning the given node, or nil if the node is not in the condensed
// graph.
func (c *Condensation[N]) ChunkOf(n N) *Chunk[N] {
	return c.chunkOf[n]
}

// Nodes implements [Graph].  Equivalent to [Condensation.Chunks].
func (c *Condensation[N]) Nodes() iter.Seq[*Chunk[N]] {
	return c.Chunks()
}

// In implements [Graph].  It yields the chunks that the given chunk depends on; never the chunk
// itself (intra-chunk edges are not edges of the condensation).
func (c *Condensation[N]) In(ch *Chunk[N]) iter.Seq[*Chunk[N]] {
	return slices.Values(c.in[ch])
}

// Condense partitions the given graph's nodes into strongly connected components and returns the
// resulting [Condensation].  The input is passed through [Snapshot] first, so the caller's
// dependency callback is consulted exactly once per node.
//
// A node that participates in no cycle forms a trivial singleton chunk.  A node that depends on
// itself forms a singleton chunk that reports [Chunk.Cyclic] true; a self-dependency is a real
// (if degenerate) cycle, not a no-op.
func Condense[N comparable](g Graph[N]) *Condensation[N] {
	snap := Snapshot(g).(*snapshot[N])
	nn := len(snap.nodes)

	// Tarjan's algorithm.  Nodes are identified by their position in the snapshot's node
	// sequence; 0 in index means "not yet visited" so discovery indices start at 1.
	index := make([]int, nn)
	low := make([]int, nn)
	onStack := make([]bool, nn)
	stack := []int(nil)
	next := 1
	comps := [][]int(nil)
	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, d := range snap.in[snap.nodes[v]] {
			w := snap.index[d]
			if index[w] == 0 {
				strongconnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] == index[v] {
			comp := []int(nil)
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			comps = append(comps, comp)
		}
	}
	for v := range nn {
		if index[v] == 0 {
			strongconnect(v)
		}
	}

	cond := &Condensation[N]{
		chunkOf: make(map[N]*Chunk[N], nn),
		in:      map[*Chunk[N]][]*Chunk[N]{},
	}
	for _, comp := range comps {
		slices.Sort(comp)
		members := make([]N, len(comp))
		for i, v := range comp {
			members[i] = snap.nodes[v]
		}
		ch := newChunk(members)
		for _, m := range members {
			cond.chunkOf[m] = ch
			if slices.Contains(snap.in[m], m) {
				ch.self = true
			}
		}
		cond.chunks = append(cond.chunks, ch)
	}
	slices.SortFunc(cond.chunks, func(a, b *Chunk[N]) int {
		return snap.index[a.nodes[0]] - snap.index[b.nodes[0]]
	})

	seen := map[*Chunk[N]]mapset.Set[*Chunk[N]]{}
	for _, n := range snap.nodes {
		cn := cond.chunkOf[n]
		if seen[cn] == nil {
			seen[cn] = mapset.NewThreadUnsafeSet[*Chunk[N]]()
		}
		for _, d := range snap.in[n] {
			cd := cond.chunkOf[d]
			if cd != cn && seen[cn].Add(cd) {
				cond.in[cn] = append(cond.in[cn], cd)
			}
		}
	}
	return cond
}
