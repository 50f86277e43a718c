package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/gesture-lock/pkg/feedback"
	"github.com/ha1tch/gesture-lock/pkg/lock"
)

func TestFitCanvas(t *testing.T) {
	tests := []struct {
		w, h      int
		wantCols  int
		wantOrigX int
		wantOrigY int
	}{
		{80, 24, 42, 19, 0},   // limited by rows, rounded down to a multiple of 6
		{200, 60, 114, 43, 0}, // wide terminal
		{40, 100, 36, 2, 40},  // tall terminal
		{3, 3, 6, 0, 0},       // minimum grid
	}

	for _, tt := range tests {
		c := fitCanvas(tt.w, tt.h, statusRows)
		if c.cols != tt.wantCols || c.originX != tt.wantOrigX || c.originY != tt.wantOrigY {
			t.Errorf("fitCanvas(%d,%d) = %+v, want cols=%d origin=%d,%d",
				tt.w, tt.h, c, tt.wantCols, tt.wantOrigX, tt.wantOrigY)
		}
	}
}

func TestCanvasRoundTrip(t *testing.T) {
	c := canvas{originX: 5, originY: 2, cols: 60}
	for _, cell := range [][2]int{{5, 2}, {30, 10}, {64, 31}} {
		x, y := c.toCell(c.toUnits(cell[0], cell[1]))
		if x != cell[0] || y != cell[1] {
			t.Errorf("cell %v round tripped to %d,%d", cell, x, y)
		}
	}
}

func newTestApp(t *testing.T, secret string) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 32)
	t.Cleanup(screen.Fini)

	opts := lock.DefaultOptions()
	opts.ResetDelay = time.Hour
	w, err := lock.NewWidget(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Close)

	app := &App{screen: screen, widget: w, canvas: fitCanvas(80, 32, statusRows), hasSecret: true}
	ctx := context.Background()
	if _, err := w.Layout(ctx, app.canvas.width()); err != nil {
		t.Fatal(err)
	}
	if err := w.SetSecret(ctx, secret); err != nil {
		t.Fatal(err)
	}
	return app, screen
}

// nodeCell returns the screen cell at the center of node id.
func nodeCell(t *testing.T, app *App, id int) (int, int) {
	t.Helper()
	rs, err := app.widget.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return app.canvas.toCell(rs.Nodes[id].Center)
}

func TestMouseDragDrawsPattern(t *testing.T) {
	app, screen := newTestApp(t, "01")
	ctx := context.Background()

	x0, y0 := nodeCell(t, app, 0)
	x1, y1 := nodeCell(t, app, 1)
	steps := []*tcell.EventMouse{
		tcell.NewEventMouse(x0, y0, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(x1, y1, tcell.Button1, tcell.ModNone),
	}
	for _, ev := range steps {
		if err := app.handleMouse(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	if err := app.draw(ctx); err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := screen.GetContent(x0, y0); r != '●' {
		t.Errorf("touched node 0 cell shows %q, want ●", r)
	}
	midX := (x0 + x1) / 2
	if r, _, _, _ := screen.GetContent(midX, y0); r != '•' {
		t.Errorf("path cell between nodes shows %q, want •", r)
	}

	if err := app.handleMouse(ctx, tcell.NewEventMouse(x1, y1, tcell.ButtonNone, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	rs, err := app.widget.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !rs.Finished || !rs.Matched {
		t.Errorf("expected a finished match, got %+v", rs)
	}
	if rs.State != lock.Resetting {
		t.Errorf("state = %s, want resetting", rs.State)
	}
}

func TestMouseMotionWithoutButtonIgnored(t *testing.T) {
	app, _ := newTestApp(t, "0")
	ctx := context.Background()
	x, y := nodeCell(t, app, 0)

	if err := app.handleMouse(ctx, tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	rs, _ := app.widget.Snapshot(ctx)
	if rs.State != lock.Idle || len(rs.Trail) != 0 {
		t.Errorf("hover changed state: %+v", rs)
	}
}

func TestInterruptCountsResults(t *testing.T) {
	app, _ := newTestApp(t, "0")
	app.handleInterrupt(tcell.NewEventInterrupt(resultEvent{outcome: lock.Outcome{Finished: true, Matched: true}}))
	app.handleInterrupt(tcell.NewEventInterrupt(resultEvent{outcome: lock.Outcome{Finished: true}}))
	app.handleInterrupt(tcell.NewEventInterrupt(resetEvent{}))

	if app.attempts != 2 || app.matches != 1 {
		t.Errorf("attempts=%d matches=%d", app.attempts, app.matches)
	}
	if app.last == nil || app.last.Matched {
		t.Errorf("last outcome = %+v", app.last)
	}

	if app.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)) {
		t.Error("c should not quit")
	}
	if app.attempts != 0 || app.last != nil {
		t.Error("c should clear the counters")
	}
	if !app.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
}

// rowText returns the runes on screen row y.
func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

// drag presses on the first node, drags through the rest and releases.
func drag(t *testing.T, app *App, ids ...int) {
	t.Helper()
	ctx := context.Background()
	var x, y int
	for i, id := range ids {
		x, y = nodeCell(t, app, id)
		if err := app.handleMouse(ctx, tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone)); err != nil {
			t.Fatalf("drag step %d: %v", i, err)
		}
	}
	if err := app.handleMouse(ctx, tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestStatusBarShowsPath(t *testing.T) {
	app, screen := newTestApp(t, "048")
	ctx := context.Background()

	x0, y0 := nodeCell(t, app, 0)
	x4, y4 := nodeCell(t, app, 4)
	for _, ev := range []*tcell.EventMouse{
		tcell.NewEventMouse(x0, y0, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(x4, y4, tcell.Button1, tcell.ModNone),
	} {
		if err := app.handleMouse(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := app.draw(ctx); err != nil {
		t.Fatal(err)
	}

	_, h := screen.Size()
	status := rowText(screen, h-statusRows)
	if !strings.Contains(status, "tracing  path:04 ") {
		t.Errorf("status bar %q does not show the path", status)
	}
	if strings.Contains(status, "no secret") {
		t.Errorf("status bar %q claims no secret", status)
	}
}

func TestForgetSecretKey(t *testing.T) {
	app, screen := newTestApp(t, "0")
	ctx := context.Background()

	if app.handleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatal("x should not quit")
	}
	if app.hasSecret {
		t.Error("x should clear the secret")
	}

	drag(t, app, 0)
	rs, err := app.widget.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !rs.Finished || rs.Matched {
		t.Errorf("gesture without a secret matched: %+v", rs)
	}

	if err := app.draw(ctx); err != nil {
		t.Fatal(err)
	}
	_, h := screen.Size()
	if status := rowText(screen, h-statusRows); !strings.Contains(status, "no secret") {
		t.Errorf("status bar %q does not report the missing secret", status)
	}
}

func TestForgetSecretKeepsSecretMidGesture(t *testing.T) {
	app, _ := newTestApp(t, "0")
	ctx := context.Background()

	drag(t, app, 0) // result is shown until the reset, an hour away
	app.handleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if !app.hasSecret {
		t.Error("secret must survive x while a result is shown")
	}
}

func TestAudioLatencyIsFixed(t *testing.T) {
	if n := feedback.SampleRate.N(audioLatency); n != 4410 {
		t.Errorf("speaker buffer = %d frames, want 4410", n)
	}
}
