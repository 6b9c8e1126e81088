package chunkgraph_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/rhansen/chunkgraph"
)

func TestToposort(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc  string
		nodes []string
		deps  tDeps
	}{
		{
			desc:  "chain",
			nodes: []string{"a", "b", "c"},
			deps:  tDeps{"a": {"b"}, "b": {"c"}},
		},
		{
			desc:  "diamond",
			nodes: []string{"top", "left", "right", "bottom"},
			deps:  tDeps{"top": {"left", "right"}, "left": {"bottom"}, "right": {"bottom"}},
		},
		{
			desc:  "disconnected",
			nodes: []string{"a", "b", "c", "d"},
			deps:  tDeps{"a": {"b"}, "c": {"d"}},
		},
		{
			desc:  "wide fan-in",
			nodes: []string{"hub", "s1", "s2", "s3", "s4"},
			deps:  tDeps{"s1": {"hub"}, "s2": {"hub"}, "s3": {"hub"}, "s4": {"hub"}},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			order, err := Toposort(newGraph(tc.nodes, tc.deps))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(
				slices.Sorted(slices.Values(tc.nodes)),
				slices.Sorted(slices.Values(order))); diff != "" {
				t.Errorf("order is not a permutation of the nodes (-want +got):\n%s", diff)
			}
			// Order validity: every dependency precedes its dependent.
			pos := map[string]int{}
			for i, n := range order {
				pos[n] = i
			}
			for n, deps := range tc.deps {
				for _, d := range deps {
					if pos[n] <= pos[d] {
						t.Errorf("%v depends on %v but is ordered at %v <= %v", n, d, pos[n], pos[d])
					}
				}
			}
		})
	}
}

func TestToposort_Cyclic(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc  string
		nodes []string
		deps  tDeps
	}{
		{
			desc:  "self-edge",
			nodes: []string{"a"},
			deps:  tDeps{"a": {"a"}},
		},
		{
			desc:  "two-node cycle",
			nodes: []string{"a", "b"},
			deps:  tDeps{"a": {"b"}, "b": {"a"}},
		},
		{
			desc:  "cycle behind a chain",
			nodes: []string{"a", "b", "c"},
			deps:  tDeps{"a": {"b"}, "b": {"c"}, "c": {"b"}},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			order, err := Toposort(newGraph(tc.nodes, tc.deps))
			if !errors.Is(err, ErrCyclic) {
				t.Errorf("got error %v, want %v", err, ErrCyclic)
			}
			if order != nil {
				t.Errorf("got partial order %v, want none", order)
			}
		})
	}
}

func TestSortedChunks(t *testing.T) {
	t.Parallel()
	// Modules a, b, c are mutually cyclic and d depends on the cycle, so the {a,b,c} chunk must
	// come first.
	g := newGraph([]string{"a", "b", "c", "d"},
		tDeps{"a": {"b"}, "b": {"c"}, "c": {"a"}, "d": {"a"}})
	got := SortedChunks(g)
	want := [][]string{{"a", "b", "c"}, {"d"}}
	if diff := cmp.Diff(want, chunkMembers(got)); diff != "" {
		t.Errorf("sorted chunks differ (-want +got):\n%s", diff)
	}
}

func TestSortedChunks_OrderValidity(t *testing.T) {
	t.Parallel()
	nodes := []string{"app", "web", "api", "core", "util", "legacy"}
	deps := tDeps{
		"app":    {"web", "api"},
		"web":    {"core", "api"},
		"api":    {"core", "legacy"},
		"core":   {"util"},
		"legacy": {"api", "util"}, // api <-> legacy cycle.
	}
	g := newGraph(nodes, deps)
	chunks := SortedChunks(g)
	pos := map[string]int{}
	for i, c := range chunks {
		for n := range c.Nodes() {
			pos[n] = i
		}
	}
	for n, ds := range deps {
		for _, d := range ds {
			if pos[n] < pos[d] {
				t.Errorf("%v depends on %v but its chunk is ordered at %v < %v", n, d, pos[n], pos[d])
			}
		}
	}
}

func TestCyclicChunks(t *testing.T) {
	t.Parallel()
	g := newGraph([]string{"a", "b", "c", "d", "e"},
		tDeps{"a": {"b"}, "b": {"a"}, "c": {"c", "a"}, "d": {"c"}})
	got := CyclicChunks(g)
	want := [][]string{{"a", "b"}, {"c"}}
	if diff := cmp.Diff(want, chunkMembers(got)); diff != "" {
		t.Errorf("cyclic chunks differ (-want +got):\n%s", diff)
	}
}
