package lifecycle

import "fmt"

// Runner executes a Table one event at a time.
type Runner struct {
	table   *Table
	current string
	history []Step
	limit   int
}

// Step records one step of execution.
type Step struct {
	From  string
	Event string
	To    string
}

// NewRunner creates a runner for the given table. History keeps at most
// limit steps; zero means unbounded.
func NewRunner(t *Table, limit int) (*Runner, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}
	return &Runner{
		table:   t,
		current: t.Initial,
		history: make([]Step, 0),
		limit:   limit,
	}, nil
}

// Current returns the current state.
func (r *Runner) Current() string {
	return r.current
}

// Can reports whether event has a transition from the current state.
func (r *Runner) Can(event string) bool {
	_, ok := r.table.Next(r.current, event)
	return ok
}

// Step applies event and returns the new state.
// Returns an error if the current state has no transition on event.
func (r *Runner) Step(event string) (string, error) {
	to, ok := r.table.Next(r.current, event)
	if !ok {
		return r.current, fmt.Errorf("no transition from state %s on event %q", r.current, event)
	}

	r.history = append(r.history, Step{From: r.current, Event: event, To: to})
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	r.current = to
	return to, nil
}

// History returns a copy of the execution history, oldest first.
func (r *Runner) History() []Step {
	out := make([]Step, len(r.history))
	copy(out, r.history)
	return out
}
