package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/sync/errgroup"

	"github.com/ha1tch/gesture-lock/pkg/feedback"
	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// statusRows are reserved below the grid for status and help.
const statusRows = 2

// audioLatency is the speaker buffer length.
const audioLatency = time.Second / 10

// resultEvent carries a finished gesture to the UI loop.
type resultEvent struct {
	outcome lock.Outcome
}

// resetEvent tells the UI loop the widget cleared a gesture.
type resetEvent struct{}

// App holds terminal front end state. Only the UI goroutine touches it.
type App struct {
	screen tcell.Screen
	widget *lock.Widget
	canvas canvas

	leftDown  bool
	hasSecret bool
	attempts  int
	matches   int
	last      *lock.Outcome
}

func cmdRun(args []string) {
	ca, err := parseArgs(args)
	if err != nil || len(ca.positional) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: gesturelock run [--secret code] [--config file]")
		os.Exit(1)
	}
	// The terminal belongs to tcell, so only log to a file
	cfg, closeLog, err := loadSettings(ca, io.Discard)
	if err != nil {
		fail("loading settings: %v", err)
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fail("creating screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		fail("initializing screen: %v", err)
	}
	screen.EnableMouse()
	screen.Clear()

	err = runApp(context.Background(), screen, cfg)
	screen.Fini()
	if err != nil {
		fail("running: %v", err)
	}
}

// runApp runs the lock on screen until the user quits.
func runApp(ctx context.Context, screen tcell.Screen, cfg Config) error {
	opts := lock.DefaultOptions()
	opts.ResetDelay = cfg.ResetDelay
	opts.ResultBuffer = 8
	widget, err := lock.NewWidget(opts)
	if err != nil {
		return err
	}
	defer widget.Close()
	log.Infof("Started %v", widget)

	w, h := screen.Size()
	app := &App{
		screen:    screen,
		widget:    widget,
		canvas:    fitCanvas(w, h, statusRows),
		hasSecret: cfg.HasSecret,
	}
	if _, err := widget.Layout(ctx, app.canvas.width()); err != nil {
		return err
	}
	if cfg.HasSecret {
		if err := widget.SetSecret(ctx, cfg.Secret); err != nil {
			return err
		}
	}

	if cfg.Sound {
		if err := speaker.Init(feedback.SampleRate, feedback.SampleRate.N(audioLatency)); err != nil {
			log.Warnf("Audio initialization failed: %v", err)
		} else {
			player := feedback.NewPlayer(feedback.SampleRate, cfg.Volume, speaker.Play)
			if err := widget.OnFinish(player.Gesture); err != nil {
				return err
			}
		}
	}
	if err := widget.OnReset(func() {
		screen.PostEvent(tcell.NewEventInterrupt(resetEvent{}))
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case o := <-widget.Results():
				screen.PostEvent(tcell.NewEventInterrupt(resultEvent{outcome: o}))
			case <-gctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		return app.loop(gctx)
	})
	return g.Wait()
}

func (a *App) loop(ctx context.Context) error {
	for {
		if err := a.draw(ctx); err != nil {
			return err
		}
		a.screen.Show()

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ctx, ev) {
				return nil
			}
		case *tcell.EventMouse:
			if err := a.handleMouse(ctx, ev); err != nil {
				return err
			}
		case *tcell.EventInterrupt:
			a.handleInterrupt(ev)
		}
	}
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'c', 'C':
			a.attempts, a.matches, a.last = 0, 0, nil
		case 'x', 'X':
			if err := a.widget.ClearSecret(ctx); err != nil {
				log.Warnf("Keeping secret: %v", err)
				break
			}
			a.hasSecret = false
			log.Infof("Secret cleared")
		}
	}
	return false
}

// handleMouse turns left-button press, drag and release into pointer
// events. A press also counts as a move so a node under it is hit.
func (a *App) handleMouse(ctx context.Context, ev *tcell.EventMouse) error {
	x, y := ev.Position()
	p := a.canvas.toUnits(x, y)
	pressed := ev.Buttons()&tcell.Button1 != 0

	var res lock.Result
	var err error
	switch {
	case pressed && !a.leftDown:
		a.leftDown = true
		if res, err = a.widget.PointerDown(ctx, p.X, p.Y); err == nil {
			res, err = a.widget.PointerMove(ctx, p.X, p.Y)
		}
	case pressed:
		res, err = a.widget.PointerMove(ctx, p.X, p.Y)
	case a.leftDown:
		a.leftDown = false
		res, err = a.widget.PointerUp(ctx, p.X, p.Y)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if res.Disposition != lock.Accepted {
		log.Tracef("Pointer event at %d,%d %v", x, y, res.Disposition)
	}
	return nil
}

func (a *App) handleInterrupt(ev *tcell.EventInterrupt) {
	switch data := ev.Data().(type) {
	case resultEvent:
		o := data.outcome
		a.last = &o
		a.attempts++
		if o.Matched {
			a.matches++
		}
	case resetEvent:
		// redraw only
	}
}

func (a *App) draw(ctx context.Context) error {
	rs, err := a.widget.Snapshot(ctx)
	if err != nil {
		return err
	}
	ids, err := a.widget.Path(ctx)
	if err != nil {
		return err
	}

	a.screen.Clear()
	a.canvas.draw(a.screen, rs)
	a.drawStatusBar(rs, lock.EncodePath(ids))
	return nil
}

func (a *App) drawStatusBar(rs lock.RenderState, code string) {
	w, h := a.screen.Size()
	y := h - statusRows

	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	status := fmt.Sprintf(" %s  path:%s  attempts:%d  matches:%d ", rs.State, code, a.attempts, a.matches)
	if !a.hasSecret {
		status += " no secret "
	}
	drawString(a.screen, 0, y, status, styleStatus)

	if a.last != nil {
		msg, style := " NO MATCH ", styleMsgError
		if a.last.Matched {
			msg, style = " MATCH ", styleMsgSuccess
		}
		drawString(a.screen, w-len(msg), y, msg, style)
	}

	drawString(a.screen, 1, y+1, "drag with the left button to draw a pattern   c: clear   x: forget secret   q: quit", styleHelp)
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
