package chunkgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// WalkChunks condenses the given graph and calls the visit callback once per chunk, with every
// chunk's dependencies visited strictly before the chunk itself.  Chunks with no ordering
// relationship are visited concurrently, which makes this suitable for driving a parallel build:
// each visit can compile one chunk as soon as everything it depends on has been compiled.
//
// If a callback returns an error, the [context.Context] passed to the callbacks is canceled and
// the walk stops.  (It may take some time to conclude in-progress visits.)  The first error
// encountered is returned.
//
// The callback must be safe for concurrent invocation.  The graph itself is snapshotted up front
// (see [Snapshot]), so the caller's dependency callback is not called concurrently.
func WalkChunks[N comparable](ctx context.Context, g Graph[N], visit func(ctx context.Context, c *Chunk[N]) error) (retErr error) {
	cond := Condense(g)
	chunks, err := Toposort[*Chunk[N]](cond)
	if err != nil {
		panic(fmt.Errorf("bug: condensation should always be acyclic: %w", err))
	}
	slog.DebugContext(ctx, "WalkChunks start", "chunks", len(chunks))
	var nVisited atomic.Int32
	defer func() {
		slog.DebugContext(ctx, "WalkChunks done", "visited", nVisited.Load(), "err", retErr)
	}()
	done := make(map[*Chunk[N]]chan struct{}, len(chunks))
	for _, c := range chunks {
		done[c] = make(chan struct{})
	}
	gr, ctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		gr.Go(func() error {
			for dep := range cond.In(c) {
				select {
				case <-ctx.Done():
					return context.Cause(ctx)
				case <-done[dep]:
				}
			}
			slog.DebugContext(ctx, "WalkChunks: visiting chunk", "chunk", c)
			err := visit(ctx, c)
			slog.DebugContext(ctx, "WalkChunks: done visiting chunk", "chunk", c, "err", err)
			if err != nil {
				return err
			}
			nVisited.Add(1)
			close(done[c])
			return nil
		})
	}
	return gr.Wait()
}
