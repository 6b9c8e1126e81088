// Package chunkgraph orders build modules by their dependencies and analyzes circular dependency
// groups.
//
// # Quick Start
//
// (The following is also available as a package-level example.)
//
// Describe the current project as a [Graph]: an ordered list of modules plus a callback that
// yields each module's declared dependencies:
//
//	deps := map[string][]string{
//		"app":  {"core", "util"},
//		"core": {"util"},
//		"util": {},
//	}
//	g := chunkgraph.New([]string{"app", "core", "util"},
//		func(m string) iter.Seq[string] { return slices.Values(deps[m]) })
//
// Use [SortedChunks] to get the build order.  Each [Chunk] is a set of modules that must be built
// together because they depend on each other; dependencies always come before dependents:
//
//	for _, c := range chunkgraph.SortedChunks(g) {
//		fmt.Println(c)
//	}
//
// Use [CyclicChunks] to list only the circular dependency groups, and [WouldCreateCycle] to ask
// whether a dependency the user is about to add would create a new one:
//
//	if w, err := chunkgraph.WouldCreateCycle(g, "util", "app"); err != nil {
//		return err
//	} else if w != nil {
//		a, b := w.Pair()
//		fmt.Printf("adding it would make %v and %v circular\n", a, b)
//	}
//
// # Introduction
//
// A build system needs two answers from a module dependency graph: in what order can the modules
// be built, and which modules are involved in dependency cycles.  The two questions are really
// one.  Collapsing each strongly connected component of the graph into a single node (a [Chunk])
// yields the [Condensation], which is acyclic by construction; a topological sort of the
// condensation is the build order, and any chunk with more than one member (or a member that
// depends on itself) is a cycle to report.
//
// This package is that engine and nothing more.  It does not decide what a dependency edge means
// (compile scope, test scope, classpath visibility) and it performs no I/O: the caller supplies
// node identities and a dependency callback, and every query is a pure in-memory computation over
// a snapshot of them (see [Snapshot]).
//
// # Terminology
//
//   - A node is whatever the caller says it is: this package only compares nodes for equality.
//     Typically a node is a module, or a (module, source kind) pair (see [SourceSet]).
//   - An edge n -> d means n depends on d: d must be built before n.
//   - A chunk is a maximal set of mutually reachable nodes.  Chunks partition the node set.
//   - The condensation is the graph whose nodes are chunks; it is always acyclic.
//   - A witness (see [CycleWitness]) is the chunk proving that a proposed edge creates a cycle.
//
// # Determinism
//
// All results are deterministic functions of the input graph: chunk membership, the member order
// within a chunk, the chunk order of [SortedChunks], and the outcome of [WouldCreateCycle] are
// reproducible for identical inputs.  The node iteration order of the input [Graph] is the
// tiebreaker everywhere, so callers control presentation order by controlling their module list
// order.  Running a query twice on an unchanged graph yields identical results.
//
// # Concurrency
//
// Queries are synchronous and single-threaded: a call runs to completion on the calling
// goroutine, and the engine never holds a lock of its own while invoking a caller-supplied
// callback.  Concurrent queries over the same underlying data are safe exactly when the caller's
// callbacks are safe for concurrent reads; this package adds no synchronization of its own.  The
// one deliberately concurrent entry point is [WalkChunks], which visits independent chunks in
// parallel for build scheduling after snapshotting the input up front.
package chunkgraph
