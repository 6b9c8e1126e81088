package chunkgraph

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Chunk is a non-empty set of mutually reachable nodes (a strongly connected component) of some
// [Graph].  Chunks partition the graph's node set: every node belongs to exactly one chunk of the
// [Condensation] it came from.  A chunk with two or more members, or a single member that depends
// on itself, represents a real dependency cycle; see [Chunk.Cyclic].
//
// Chunks are comparable by pointer identity, which is only meaningful between chunks of the same
// [Condensation].
type Chunk[N comparable] struct {
	nodes []N // Ordered by position in the originating graph's node sequence.
	set   mapset.Set[N]
	self  bool // A member depends on itself.
}

func newChunk[N comparable](nodes []N) *Chunk[N] {
	if len(nodes) == 0 {
		panic("bug: a chunk must have at least one member")
	}
	return &Chunk[N]{nodes: nodes, set: mapset.NewThreadUnsafeSet(nodes...)}
}

// Nodes yields the chunk's members.  The order matches the relative order of the members in the
// originating graph's node sequence, so it is reproducible for identical input graphs.
func (c *Chunk[N]) Nodes() iter.Seq[N] {
	return slices.Values(c.nodes)
}

// Contains reports whether n is a member of this chunk.
func (c *Chunk[N]) Contains(n N) bool {
	return c.set.Contains(n)
}

// Len returns the number of members.  Always at least 1.
func (c *Chunk[N]) Len() int {
	return len(c.nodes)
}

// Cyclic reports whether the chunk represents a real dependency cycle: either it has two or more
// members, or its single member depends on itself.  A single-member chunk without a
// self-dependency is a trivial chunk.
func (c *Chunk[N]) Cyclic() bool {
	return len(c.nodes) > 1 || c.self
}

func (c *Chunk[N]) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, n := range c.nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", n)
	}
	sb.WriteString("}")
	return sb.String()
}
