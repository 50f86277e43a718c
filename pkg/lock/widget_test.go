package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 40 * time.Millisecond

func newTestWidget(t *testing.T, opts Options, secret string) *Widget {
	t.Helper()
	if opts.ResetDelay == 0 {
		opts.ResetDelay = testDelay
	}
	w, err := NewWidget(opts)
	require.NoError(t, err)
	t.Cleanup(w.Close)

	ctx := context.Background()
	ready, err := w.Layout(ctx, testWidth)
	require.NoError(t, err)
	require.True(t, ready)
	if secret != "" {
		require.NoError(t, w.SetSecret(ctx, secret))
	}
	return w
}

func drag(t *testing.T, w *Widget, ids ...int) {
	t.Helper()
	ctx := context.Background()
	_, err := w.PointerDown(ctx, 0, 0)
	require.NoError(t, err)
	for _, id := range ids {
		c := center(id)
		_, err := w.PointerMove(ctx, c.X, c.Y)
		require.NoError(t, err)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, time.Second, opts.ResetDelay)
	assert.Zero(t, opts.ResultBuffer)
}

func TestWidgetGestureAndAutoReset(t *testing.T) {
	w := newTestWidget(t, Options{}, "258")
	ctx := context.Background()

	var mu sync.Mutex
	var got []bool
	require.NoError(t, w.OnFinish(func(matched bool) {
		mu.Lock()
		got = append(got, matched)
		mu.Unlock()
	}))

	drag(t, w, 2, 5, 8)
	res, err := w.PointerUp(ctx, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.ArmReset)
	assert.True(t, res.Outcome.Matched)
	assert.Equal(t, "258", res.Outcome.Code)

	mu.Lock()
	assert.Equal(t, []bool{true}, got, "listener runs before PointerUp returns")
	mu.Unlock()

	require.Eventually(t, func() bool {
		rs, err := w.Snapshot(ctx)
		return err == nil && rs.State == Idle
	}, time.Second, 5*time.Millisecond)

	rs, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, rs.Finished)
	assert.Empty(t, rs.Trail)
	for _, n := range rs.Nodes {
		assert.False(t, n.Touched)
	}
	mu.Lock()
	assert.Len(t, got, 1, "reset must not notify")
	mu.Unlock()
}

func TestWidgetLatchDuringResetWindow(t *testing.T) {
	w := newTestWidget(t, Options{ResetDelay: 300 * time.Millisecond}, "01")
	ctx := context.Background()

	drag(t, w, 0, 4)
	res, err := w.PointerUp(ctx, 0, 0)
	require.NoError(t, err)
	require.False(t, res.Outcome.Matched)

	before, err := w.Snapshot(ctx)
	require.NoError(t, err)

	c := center(8)
	res, err = w.PointerMove(ctx, c.X, c.Y)
	require.NoError(t, err)
	assert.Equal(t, Latched, res.Disposition)
	res, err = w.PointerUp(ctx, c.X, c.Y)
	require.NoError(t, err)
	assert.False(t, res.ArmReset)

	after, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, after.Mismatch())
}

func TestWidgetOnReset(t *testing.T) {
	w := newTestWidget(t, Options{}, "4")
	var resets atomic.Int32
	require.NoError(t, w.OnReset(func() { resets.Add(1) }))

	drag(t, w, 4)
	_, err := w.PointerUp(context.Background(), 0, 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return resets.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * testDelay)
	assert.Equal(t, int32(1), resets.Load())
}

func TestWidgetIgnoresInputBeforeLayout(t *testing.T) {
	w, err := NewWidget(Options{ResetDelay: testDelay})
	require.NoError(t, err)
	defer w.Close()

	ctx := context.Background()
	res, err := w.PointerUp(ctx, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, NotReady, res.Disposition)

	ready, err := w.Layout(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ready)

	rs, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, rs.Nodes)
}

func TestWidgetSecretChangeWhileActive(t *testing.T) {
	w := newTestWidget(t, Options{}, "0")
	ctx := context.Background()
	drag(t, w, 0)

	assert.ErrorIs(t, w.SetSecret(ctx, "1"), ErrGestureActive)
	assert.ErrorIs(t, w.ClearSecret(ctx), ErrGestureActive)
}

func TestWidgetCloseCancelsReset(t *testing.T) {
	w, err := NewWidget(Options{ResetDelay: testDelay})
	require.NoError(t, err)
	ctx := context.Background()
	_, err = w.Layout(ctx, testWidth)
	require.NoError(t, err)

	var resets atomic.Int32
	require.NoError(t, w.OnReset(func() { resets.Add(1) }))

	c := center(3)
	_, err = w.PointerMove(ctx, c.X, c.Y)
	require.NoError(t, err)
	_, err = w.PointerUp(ctx, c.X, c.Y)
	require.NoError(t, err)

	w.Close()
	w.Close() // idempotent

	time.Sleep(3 * testDelay)
	assert.Zero(t, resets.Load())

	_, err = w.Snapshot(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = w.PointerDown(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, w.SetSecret(ctx, "1"), ErrClosed)
}

func TestWidgetContextCancelled(t *testing.T) {
	w := newTestWidget(t, Options{}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The command may still be accepted before cancellation is observed,
	// but a cancelled call must never block.
	_, err := w.PointerMove(ctx, 1, 1)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWidgetResultsChannel(t *testing.T) {
	w := newTestWidget(t, Options{ResultBuffer: 4}, "12")
	ctx := context.Background()

	drag(t, w, 1, 2)
	_, err := w.PointerUp(ctx, 0, 0)
	require.NoError(t, err)

	select {
	case o := <-w.Results():
		assert.True(t, o.Finished)
		assert.True(t, o.Matched)
		assert.Equal(t, "12", o.Code)
	case <-time.After(time.Second):
		t.Fatal("no outcome published")
	}
}

func TestWidgetResultsDropOldest(t *testing.T) {
	w := newTestWidget(t, Options{ResultBuffer: 1, ResetDelay: 5 * time.Millisecond}, "3")
	ctx := context.Background()

	for _, id := range []int{4, 3} {
		require.Eventually(t, func() bool {
			rs, err := w.Snapshot(ctx)
			return err == nil && rs.State == Idle
		}, time.Second, time.Millisecond)
		drag(t, w, id)
		_, err := w.PointerUp(ctx, 0, 0)
		require.NoError(t, err)
	}

	o := <-w.Results()
	assert.Equal(t, "3", o.Code, "newest outcome kept")
	assert.True(t, o.Matched)
	select {
	case extra := <-w.Results():
		t.Fatalf("unexpected extra outcome %+v", extra)
	default:
	}
}

func TestWidgetResultsNilWhenDisabled(t *testing.T) {
	w := newTestWidget(t, Options{}, "")
	assert.Nil(t, w.Results())
}

func TestWidgetConcurrentInput(t *testing.T) {
	w := newTestWidget(t, Options{ResetDelay: 2 * time.Millisecond}, "0")
	ctx := context.Background()

	var finished atomic.Int32
	require.NoError(t, w.OnFinish(func(bool) { finished.Add(1) }))

	var wg sync.WaitGroup
	var ups atomic.Int32
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c := center(i % NodeCount)
				_, _ = w.PointerMove(ctx, c.X, c.Y)
				res, err := w.PointerUp(ctx, c.X, c.Y)
				if err == nil && res.ArmReset {
					ups.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, ups.Load(), finished.Load(), "one notification per finished gesture")
	assert.Positive(t, ups.Load())
}
