package chunkgraph_test

import (
	"iter"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/rhansen/chunkgraph"
)

// Convenience types to simplify test code.
type tDeps = map[string][]string

func newGraph(nodes []string, deps tDeps) Graph[string] {
	return New(nodes, func(n string) iter.Seq[string] {
		return slices.Values(deps[n])
	})
}

// chunkMembers returns each chunk's members sorted, preserving chunk order.  Chunk membership is
// a set; tests must not depend on internal discovery order.
func chunkMembers(chunks []*Chunk[string]) [][]string {
	ret := [][]string(nil)
	for _, c := range chunks {
		ms := slices.Sorted(c.Nodes())
		ret = append(ret, ms)
	}
	return ret
}

// chunkSets is chunkMembers with the chunk order normalized away too.
func chunkSets(chunks []*Chunk[string]) [][]string {
	ret := chunkMembers(chunks)
	slices.SortFunc(ret, slices.Compare)
	return ret
}

func TestSnapshot_DepsConsultedOnce(t *testing.T) {
	t.Parallel()
	calls := map[string]int{}
	g := New([]string{"a", "b"}, func(n string) iter.Seq[string] {
		calls[n]++
		if n == "a" {
			return slices.Values([]string{"b"})
		}
		return slices.Values([]string(nil))
	})
	snap := Snapshot(g)
	for range 10 {
		for n := range snap.Nodes() {
			for range snap.In(n) {
			}
		}
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 1}, calls); diff != "" {
		t.Errorf("dependency callback call counts differ (-want +got):\n%s", diff)
	}
	if got := Snapshot(snap); got != snap {
		t.Errorf("snapshotting a snapshot should be a no-op")
	}
}

func TestSnapshot_Normalization(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc  string
		nodes []string
		deps  tDeps
		want  tDeps
	}{
		{
			desc:  "duplicate edges collapse",
			nodes: []string{"a", "b"},
			deps:  tDeps{"a": {"b", "b", "b"}},
			want:  tDeps{"a": {"b"}, "b": nil},
		},
		{
			desc:  "duplicate nodes collapse",
			nodes: []string{"a", "b", "a"},
			deps:  tDeps{"a": {"b"}},
			want:  tDeps{"a": {"b"}, "b": nil},
		},
		{
			desc:  "edge to unknown node is no edge",
			nodes: []string{"a"},
			deps:  tDeps{"a": {"ghost", "a"}},
			want:  tDeps{"a": {"a"}},
		},
		{
			desc:  "first-seen edge order kept",
			nodes: []string{"a", "b", "c"},
			deps:  tDeps{"a": {"c", "b", "c"}},
			want:  tDeps{"a": {"c", "b"}, "b": nil, "c": nil},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			snap := Snapshot(newGraph(tc.nodes, tc.deps))
			got := tDeps{}
			for n := range snap.Nodes() {
				got[n] = slices.Collect(snap.In(n))
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("snapshot differs (-want +got):\n%s", diff)
			}
		})
	}
}
