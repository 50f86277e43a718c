package lock

import (
	"fmt"

	"github.com/ha1tch/gesture-lock/pkg/lifecycle"
)

// State is a phase of the gesture lifecycle.
type State int

const (
	Idle      State = iota // no gesture, all nodes untouched
	Tracing                // pointer moving, path accumulating
	Evaluated              // pointer released, result computed
	Resetting              // result shown until the reset timer fires
)

var stateNames = [...]string{"idle", "tracing", "evaluated", "resetting"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// parseState maps a lifecycle state name to a State. Unknown names yield
// State(-1).
func parseState(name string) State {
	for i, n := range stateNames {
		if n == name {
			return State(i)
		}
	}
	return State(-1)
}

// Lifecycle events.
const (
	EventDown  = "down"
	EventMove  = "move"
	EventUp    = "up"
	EventArm   = "arm"
	EventTimer = "timer"
)

// historyLimit bounds the lifecycle history kept by a Machine.
const historyLimit = 64

// Lifecycle returns the transition table driving a Machine.
// Pointer events missing from a state are ignored in that state.
func Lifecycle() *lifecycle.Table {
	t := lifecycle.New("gesture")
	for _, s := range stateNames {
		t.AddState(s)
	}
	for _, from := range []State{Idle, Tracing} {
		t.AddTransition(from.String(), EventDown, from.String())
		t.AddTransition(from.String(), EventMove, Tracing.String())
		t.AddTransition(from.String(), EventUp, Evaluated.String())
	}
	t.AddTransition(Evaluated.String(), EventArm, Resetting.String())
	t.AddTransition(Resetting.String(), EventTimer, Idle.String())
	t.SetInitial(Idle.String())
	return t
}

// Disposition says what a Machine did with a pointer event.
type Disposition int

const (
	Accepted Disposition = iota // event applied
	Latched                     // ignored, waiting for the reset timer
	NotReady                    // ignored, grid not laid out
)

func (d Disposition) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Latched:
		return "latched"
	case NotReady:
		return "not ready"
	}
	return fmt.Sprintf("Disposition(%d)", int(d))
}

// Outcome is the result of the last completed gesture.
type Outcome struct {
	Finished bool   // true from pointer-up until the reset
	Matched  bool   // valid only when Finished
	Code     string // encoding of the evaluated path
}

// Result reports the effect of a single pointer event.
type Result struct {
	Disposition Disposition
	State       State
	Outcome     Outcome
	Visited     bool // a node was appended to the path
	ArmReset    bool // the gesture finished; the reset timer must start
}

// Machine is the synchronous gesture state machine. It is not safe for
// concurrent use; Widget serializes access to one.
type Machine struct {
	grid      Grid
	path      Path
	runner    *lifecycle.Runner
	notifier  Notifier
	secret    string
	secretSet bool
	outcome   Outcome
}

// NewMachine creates a machine in the Idle state with no secret and no
// geometry.
func NewMachine() (*Machine, error) {
	table := Lifecycle()
	if unreachable := table.UnreachableStates(); len(unreachable) > 0 {
		return nil, fmt.Errorf("lifecycle has unreachable states %v", unreachable)
	}
	runner, err := lifecycle.NewRunner(table, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("building lifecycle: %w", err)
	}
	return &Machine{runner: runner}, nil
}

// Layout lays out the grid from width. See Grid.Layout.
func (m *Machine) Layout(width float64) bool {
	return m.grid.Layout(width)
}

// SetSecret sets the code gestures are compared against.
func (m *Machine) SetSecret(code string) error {
	if m.State() != Idle {
		return fmt.Errorf("set secret: %w", ErrGestureActive)
	}
	m.secret = code
	m.secretSet = true
	return nil
}

// ClearSecret unsets the secret. Every gesture then fails to match.
func (m *Machine) ClearSecret() error {
	if m.State() != Idle {
		return fmt.Errorf("clear secret: %w", ErrGestureActive)
	}
	m.secret = ""
	m.secretSet = false
	return nil
}

// HasSecret reports whether a secret is set.
func (m *Machine) HasSecret() bool {
	return m.secretSet
}

// OnFinish registers the listener told about each completed gesture.
func (m *Machine) OnFinish(listener func(matched bool)) {
	m.notifier.Set(listener)
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return parseState(m.runner.Current())
}

// Outcome returns the outcome of the gesture being shown, if any.
func (m *Machine) Outcome() Outcome {
	return m.outcome
}

// Path returns the visited node identities in order.
func (m *Machine) Path() []int {
	return m.path.IDs()
}

// Nodes returns the grid nodes with their touched flags.
func (m *Machine) Nodes() []Node {
	return m.grid.Nodes()
}

// History returns recent lifecycle steps, oldest first.
func (m *Machine) History() []lifecycle.Step {
	return m.runner.History()
}

// guard decides whether a pointer event may be applied.
func (m *Machine) guard(event string) (Result, bool) {
	if !m.grid.Ready() {
		log.Tracef("Ignoring %s: %v", event, ErrNotReady)
		return Result{Disposition: NotReady, State: m.State()}, false
	}
	if m.outcome.Finished || !m.runner.Can(event) {
		log.Tracef("Ignoring %s while %s", event, m.State())
		return Result{Disposition: Latched, State: m.State(), Outcome: m.outcome}, false
	}
	return Result{}, true
}

func (m *Machine) step(event string) {
	if _, err := m.runner.Step(event); err != nil {
		log.Errorf("Lifecycle: %v", err)
	}
}

// Down handles pointer-down. It changes nothing beyond the latch check.
func (m *Machine) Down(p Point) Result {
	if r, ok := m.guard(EventDown); !ok {
		return r
	}
	m.step(EventDown)
	return Result{Disposition: Accepted, State: m.State()}
}

// Move handles pointer-move: it tracks the trailing coordinate and adds any
// node under p to the path.
func (m *Machine) Move(p Point) Result {
	if r, ok := m.guard(EventMove); !ok {
		return r
	}

	m.path.SetTrail(p)
	visited := false
	if id, hit := HitTest(m.grid.nodes, p); hit {
		m.grid.setTouched(id, true)
		if m.path.Visit(id) {
			visited = true
			log.Debugf("Visited node %d (%d on path)", id, m.path.Len())
		}
	}
	m.step(EventMove)
	return Result{Disposition: Accepted, State: m.State(), Visited: visited}
}

// Up handles pointer-up: it evaluates the path against the secret and
// notifies the listener. A result with ArmReset set is returned exactly
// once per gesture.
func (m *Machine) Up(p Point) Result {
	if r, ok := m.guard(EventUp); !ok {
		return r
	}

	m.path.FreezeTrail()
	code := m.path.Encoding()
	matched := m.secretSet && code == m.secret
	if !m.secretSet {
		log.Debugf("No secret set, gesture of %d nodes does not match", len(code))
	}
	m.outcome = Outcome{Finished: true, Matched: matched, Code: code}
	m.step(EventUp)
	m.step(EventArm)

	log.Infof("Gesture finished: %d nodes, matched=%v", len(code), matched)
	m.notifier.Notify(matched)

	return Result{Disposition: Accepted, State: m.State(), Outcome: m.outcome, ArmReset: true}
}

// Reset clears the path, touched flags and outcome after the reset delay.
// It returns false, doing nothing, unless the machine is Resetting.
func (m *Machine) Reset() bool {
	if !m.runner.Can(EventTimer) {
		return false
	}
	m.path.Reset()
	m.grid.clearTouched()
	m.outcome = Outcome{}
	m.step(EventTimer)
	log.Debugf("Gesture reset")
	return true
}
