package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultResetDelay is how long a finished gesture stays on screen.
const DefaultResetDelay = 1000 * time.Millisecond

// Options configures a Widget.
type Options struct {
	ResetDelay   time.Duration // delay before a finished gesture is cleared
	ResultBuffer int           // capacity of the Results channel, 0 disables it
}

// DefaultOptions returns the standard widget options.
func DefaultOptions() Options {
	return Options{
		ResetDelay: DefaultResetDelay,
	}
}

// Widget owns a Machine on a single goroutine. Pointer input, secret
// changes, snapshots and the reset timer are all delivered to that goroutine
// as commands, so the machine never sees concurrent access.
//
// Listeners registered with OnFinish and OnReset run on the widget goroutine
// and must not call back into the Widget.
type Widget struct {
	opts    Options
	cmds    chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	results chan Outcome

	// Owned by the widget goroutine
	m       *Machine
	timer   *time.Timer
	gen     uint64
	onReset func()
}

// NewWidget creates a widget and starts its goroutine. Call Close to stop
// it.
func NewWidget(opts Options) (*Widget, error) {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	m, err := NewMachine()
	if err != nil {
		return nil, err
	}

	w := &Widget{
		opts:    opts,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		m:       m,
	}
	if opts.ResultBuffer > 0 {
		w.results = make(chan Outcome, opts.ResultBuffer)
	}

	go w.loop()
	return w, nil
}

func (w *Widget) loop() {
	defer close(w.stopped)
	for {
		select {
		case fn := <-w.cmds:
			fn()
		case <-w.done:
			if w.timer != nil {
				w.timer.Stop()
				w.timer = nil
			}
			return
		}
	}
}

// do runs fn on the widget goroutine and waits for it to complete.
func (w *Widget) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case w.cmds <- func() { fn(); close(finished) }:
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-w.stopped:
		// The loop may have run fn just before stopping
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the pending reset timer and the widget goroutine. Calls made
// after Close return ErrClosed. Close must not be called from a listener.
func (w *Widget) Close() {
	w.once.Do(func() {
		close(w.done)
	})
	<-w.stopped
}

// Results returns the channel carrying one Outcome per finished gesture, or
// nil when Options.ResultBuffer is zero. When the buffer is full the oldest
// outcome is dropped.
func (w *Widget) Results() <-chan Outcome {
	return w.results
}

// Layout supplies the available width. Only the first positive width is
// used.
func (w *Widget) Layout(ctx context.Context, width float64) (bool, error) {
	var ready bool
	err := w.do(ctx, func() {
		ready = w.m.Layout(width)
	})
	return ready, err
}

// SetSecret sets the code gestures are compared against. It fails with
// ErrGestureActive unless the widget is idle.
func (w *Widget) SetSecret(ctx context.Context, code string) error {
	var serr error
	if err := w.do(ctx, func() {
		serr = w.m.SetSecret(code)
	}); err != nil {
		return err
	}
	return serr
}

// ClearSecret unsets the secret.
func (w *Widget) ClearSecret(ctx context.Context) error {
	var serr error
	if err := w.do(ctx, func() {
		serr = w.m.ClearSecret()
	}); err != nil {
		return err
	}
	return serr
}

// OnFinish registers the listener told about each finished gesture.
// A nil listener clears it.
func (w *Widget) OnFinish(listener func(matched bool)) error {
	return w.do(context.Background(), func() {
		w.m.OnFinish(listener)
	})
}

// OnReset registers a function called after the reset timer has cleared a
// gesture. Hosts use it to redraw.
func (w *Widget) OnReset(fn func()) error {
	return w.do(context.Background(), func() {
		w.onReset = fn
	})
}

// PointerDown delivers a pointer-down event.
func (w *Widget) PointerDown(ctx context.Context, x, y float64) (Result, error) {
	var res Result
	err := w.do(ctx, func() {
		res = w.m.Down(Point{X: x, Y: y})
	})
	return res, err
}

// PointerMove delivers a pointer-move event.
func (w *Widget) PointerMove(ctx context.Context, x, y float64) (Result, error) {
	var res Result
	err := w.do(ctx, func() {
		res = w.m.Move(Point{X: x, Y: y})
	})
	return res, err
}

// PointerUp delivers a pointer-up event. When it finishes a gesture the
// returned Result carries the Outcome and the reset timer is started.
func (w *Widget) PointerUp(ctx context.Context, x, y float64) (Result, error) {
	var res Result
	err := w.do(ctx, func() {
		res = w.m.Up(Point{X: x, Y: y})
		if res.ArmReset {
			w.armReset()
			w.publish(res.Outcome)
		}
	})
	return res, err
}

// Snapshot returns the current render state.
func (w *Widget) Snapshot(ctx context.Context) (RenderState, error) {
	var rs RenderState
	err := w.do(ctx, func() {
		rs = w.m.RenderState()
	})
	return rs, err
}

// Path returns the visited node identities of the current gesture.
func (w *Widget) Path(ctx context.Context) ([]int, error) {
	var ids []int
	err := w.do(ctx, func() {
		ids = w.m.Path()
	})
	return ids, err
}

// armReset starts the one-shot reset timer. Its callback only posts a
// command; the reset itself runs on the widget goroutine.
func (w *Widget) armReset() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.opts.ResetDelay, func() {
		select {
		case w.cmds <- func() { w.fireReset(gen) }:
		case <-w.done:
		}
	})
}

func (w *Widget) fireReset(gen uint64) {
	if gen != w.gen {
		log.Tracef("Dropping stale reset %d (current %d)", gen, w.gen)
		return
	}
	w.timer = nil
	if !w.m.Reset() {
		return
	}
	if w.onReset != nil {
		w.onReset()
	}
}

// publish offers o on the results channel without ever blocking.
func (w *Widget) publish(o Outcome) {
	if w.results == nil {
		return
	}
	for {
		select {
		case w.results <- o:
			return
		default:
		}
		select {
		case old := <-w.results:
			log.Warnf("Result buffer full, dropped outcome matched=%v", old.Matched)
		default:
		}
	}
}

// String describes the widget configuration.
func (w *Widget) String() string {
	return fmt.Sprintf("Widget{reset=%s, buffer=%d}", w.opts.ResetDelay, w.opts.ResultBuffer)
}
