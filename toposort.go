package chunkgraph

import (
	"fmt"
	"slices"

	"github.com/rhansen/chunkgraph/internal/itertools"
)

// ErrCyclic is returned (wrapped) by [Toposort] when the input graph contains a cycle.
var ErrCyclic error = cyclicError{}

type cyclicError struct{}

func (cyclicError) Error() string { return "graph is cyclic" }

// Toposort returns the graph's nodes ordered so that dependencies precede dependents: for every
// edge x -> y, y appears before x in the returned slice.  A consumer that processes the nodes in
// the returned order never encounters a node before all of the nodes it depends on.
//
// The order is derived from the finishing times of a depth-first spanning forest rooted at the
// nodes in [Graph.Nodes] order, so it is deterministic for identical input graphs.  The input is
// passed through [Snapshot] first.
//
// If the graph contains a cycle, an error wrapping [ErrCyclic] is returned and no partial order is
// produced.  Condense first (see [Condense] and [SortedChunks]) to order a graph that may be
// cyclic.
func Toposort[N comparable](g Graph[N]) ([]N, error) {
	g = Snapshot(g)
	const (
		white = iota // Not yet visited.
		grey         // Visit in progress; reaching a grey node again means a cycle.
		black        // Finished.
	)
	color := map[N]int{}
	order := []N(nil)
	var visit func(n N) error
	visit = func(n N) error {
		switch color[n] {
		case black:
			return nil
		case grey:
			return fmt.Errorf("%w: node %v depends on itself, possibly transitively", ErrCyclic, n)
		}
		color[n] = grey
		for d := range g.In(n) {
			if err := visit(d); err != nil {
				return err
			}
		}
		color[n] = black
		order = append(order, n)
		return nil
	}
	for n := range g.Nodes() {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// SortedChunks condenses the given graph and returns its chunks in dependency order: if any
// member of chunk X depends on any member of chunk Y, Y appears before X in the returned slice.
// This is the order in which the chunks must be built.
//
// A condensation is acyclic by construction, so a cycle among the chunks can only mean a bug in
// this package (or a node type whose equality is broken); SortedChunks panics in that case rather
// than returning an arbitrary partial order.
func SortedChunks[N comparable](g Graph[N]) []*Chunk[N] {
	chunks, err := Toposort[*Chunk[N]](Condense(g))
	if err != nil {
		panic(fmt.Errorf("bug: condensation should always be acyclic: %w", err))
	}
	return chunks
}

// CyclicChunks condenses the given graph and returns only the chunks that represent real
// dependency cycles (see [Chunk.Cyclic]), in dependency order.  An empty result means the graph
// is free of circular dependencies.
func CyclicChunks[N comparable](g Graph[N]) []*Chunk[N] {
	return slices.Collect(
		itertools.Filter(slices.Values(SortedChunks(g)), (*Chunk[N]).Cyclic))
}
