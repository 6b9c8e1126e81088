package chunkgraph_test

import (
	"fmt"
	"iter"
	"slices"

	"github.com/rhansen/chunkgraph"
)

func Example() {
	// Describe the project: an ordered module list plus each module's declared dependencies.
	// The a, b and c modules depend on each other in a ring; app depends on the ring.
	deps := map[string][]string{
		"app":  {"a", "util"},
		"a":    {"b"},
		"b":    {"c", "util"},
		"c":    {"a"},
		"util": {},
	}
	g := chunkgraph.New([]string{"app", "a", "b", "c", "util"},
		func(m string) iter.Seq[string] { return slices.Values(deps[m]) })

	// The build order: each chunk's dependencies precede it.
	for i, c := range chunkgraph.SortedChunks(g) {
		cycle := ""
		if c.Cyclic() {
			cycle = " (cycle)"
		}
		fmt.Printf("%d: %v%s\n", i, c, cycle)
	}

	// Would a new dependency from util to app close a loop?
	w, err := chunkgraph.WouldCreateCycle(g, "util", "app")
	if err != nil {
		panic(err)
	}
	x, y := w.Pair()
	fmt.Printf("util -> app would make %v and %v circular\n", x, y)

	// app already depends on util, so proposing that edge again changes nothing.
	if w, err := chunkgraph.WouldCreateCycle(g, "app", "util"); err != nil {
		panic(err)
	} else if w == nil {
		fmt.Println("app -> util is safe")
	}

	// Output:
	// 0: {util}
	// 1: {a, b, c} (cycle)
	// 2: {app}
	// util -> app would make app and a circular
	// app -> util is safe
}
