package chunkgraph

import (
	"fmt"
	"slices"

	"github.com/crillab/gophersat/solver"
)

// An Edge is a single dependency: From depends on To.
type Edge[N comparable] struct {
	From, To N
}

func (e Edge[N]) String() string {
	return fmt.Sprintf("%v -> %v", e.From, e.To)
}

// BreakCycle returns a minimum set of dependency edges whose removal makes the given cyclic
// chunk's members acyclic (a minimum feedback edge set).  This is the cheapest way to fix the
// circular dependency that the chunk represents, suitable for presenting as a suggestion next to
// a cycle warning.  Removing the returned edges and recondensing splits the chunk into trivial
// chunks.
//
// The chunk must be a chunk of the given graph (see [Condense] and [Condensation.ChunkOf]).  For
// a trivial chunk there is nothing to remove and the result is empty.  Self-dependencies are
// always part of the result; every feedback edge set contains them.
//
// Minimality is exact, not heuristic: the intra-chunk edges and a candidate ordering of the
// chunk's members are encoded as a Boolean satisfiability problem, and a SAT solver is asked for
// a solution removing at most k edges for increasing k.  The cost is exponential in the worst
// case but cyclic chunks are nearly always small.
func BreakCycle[N comparable](g Graph[N], c *Chunk[N]) ([]Edge[N], error) {
	snap := Snapshot(g).(*snapshot[N])
	idx := map[N]int{}
	for i, m := range c.nodes {
		if !snap.contains(m) {
			return nil, fmt.Errorf("chunk member %v is not a node of the graph", m)
		}
		idx[m] = i
	}
	removed := []Edge[N](nil)
	edges := []Edge[N](nil)
	for _, u := range c.nodes {
		for _, v := range snap.in[u] {
			switch {
			case v == u:
				// A self-dependency is in every feedback edge set.
				removed = append(removed, Edge[N]{From: u, To: v})
			case c.Contains(v):
				edges = append(edges, Edge[N]{From: u, To: v})
			}
		}
	}
	if len(edges) < 2 {
		// Zero intra-chunk edges (trivial or self-only chunk), or a single edge that cannot form
		// a cycle by itself.
		return removed, nil
	}

	// Variables 0..len(edges)-1: edge i is kept.  The remaining variables encode a strict total
	// order over the chunk's members: for a < b, ordVar(a, b) means member a precedes member b.
	keepLit := func(e int) int {
		return int(solver.Var(e).Int())
	}
	precLit := func(a, b int) int {
		// Index into the upper triangle of the member-pair matrix.
		pair := func(a, b int) int {
			return len(edges) + a*len(c.nodes) + b
		}
		if a < b {
			return int(solver.Var(pair(a, b)).Int())
		}
		return -int(solver.Var(pair(b, a)).Int())
	}
	base := []solver.PBConstr(nil)
	for e, edge := range edges {
		// A kept edge u -> v forces v to precede u.
		base = append(base, solver.PropClause(-keepLit(e), precLit(idx[edge.To], idx[edge.From])))
	}
	for a := range c.nodes {
		for b := range c.nodes {
			for d := range c.nodes {
				if a == b || b == d || a == d {
					continue
				}
				// Precedence is transitive.
				base = append(base, solver.PropClause(-precLit(a, b), -precLit(b, d), precLit(a, d)))
			}
		}
	}
	removedLits := make([]int, len(edges))
	for e := range edges {
		removedLits[e] = -keepLit(e)
	}
	for k := 1; k <= len(edges); k++ {
		constrs := append(slices.Clone(base), solver.AtMost(removedLits, k))
		s := solver.New(solver.ParsePBConstrs(constrs))
		if s.Solve() != solver.Sat {
			continue
		}
		model := s.Model()
		for e, edge := range edges {
			if !model[e] {
				removed = append(removed, edge)
			}
		}
		return removed, nil
	}
	return nil, fmt.Errorf("bug: removing all %v edges of chunk %v must leave it acyclic", len(edges), c)
}
