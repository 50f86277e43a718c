package main

import (
	"context"
	"fmt"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// replay drags a pointer through the centers of ids on w and releases it.
// It returns the pointer-up result and the render state right after it.
func replay(ctx context.Context, w *lock.Widget, ids []int) (lock.Result, lock.RenderState, error) {
	rs, err := w.Snapshot(ctx)
	if err != nil {
		return lock.Result{}, rs, err
	}
	centers := make(map[int]lock.Point, len(rs.Nodes))
	for _, n := range rs.Nodes {
		centers[n.ID] = n.Center
	}
	if len(centers) == 0 {
		return lock.Result{}, rs, fmt.Errorf("replay: %w", lock.ErrNotReady)
	}

	start := lock.Point{}
	if len(ids) > 0 {
		start = centers[ids[0]]
	}
	if _, err := w.PointerDown(ctx, start.X, start.Y); err != nil {
		return lock.Result{}, rs, err
	}
	last := start
	for _, id := range ids {
		c, ok := centers[id]
		if !ok {
			return lock.Result{}, rs, fmt.Errorf("replay: no node %d", id)
		}
		if _, err := w.PointerMove(ctx, c.X, c.Y); err != nil {
			return lock.Result{}, rs, err
		}
		last = c
	}

	res, err := w.PointerUp(ctx, last.X, last.Y)
	if err != nil {
		return res, rs, err
	}
	rs, err = w.Snapshot(ctx)
	return res, rs, err
}

// newReplayWidget builds a widget laid out at width with the configured
// secret.
func newReplayWidget(ctx context.Context, cfg Config, width float64) (*lock.Widget, error) {
	opts := lock.DefaultOptions()
	opts.ResetDelay = cfg.ResetDelay
	w, err := lock.NewWidget(opts)
	if err != nil {
		return nil, err
	}
	if _, err := w.Layout(ctx, width); err != nil {
		w.Close()
		return nil, err
	}
	if cfg.HasSecret {
		if err := w.SetSecret(ctx, cfg.Secret); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}
