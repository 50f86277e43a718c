// Package lifecycle provides a small deterministic state table and a runner
// that steps through it.
package lifecycle

import "fmt"

// Transition moves the table from one state to another on an event.
type Transition struct {
	From  string
	Event string
	To    string
}

// Table describes a deterministic finite state machine.
type Table struct {
	Name        string
	States      []string
	Events      []string
	Initial     string
	Transitions []Transition
}

// New creates an empty table with the given name.
func New(name string) *Table {
	return &Table{
		Name:        name,
		States:      make([]string, 0),
		Events:      make([]string, 0),
		Transitions: make([]Transition, 0),
	}
}

// AddState adds a state to the table. Duplicates are ignored.
func (t *Table) AddState(name string) {
	if t.StateIndex(name) >= 0 {
		return
	}
	t.States = append(t.States, name)
}

// AddEvent adds an event to the alphabet. Duplicates are ignored.
func (t *Table) AddEvent(name string) {
	if t.EventIndex(name) >= 0 {
		return
	}
	t.Events = append(t.Events, name)
}

// AddTransition adds a transition, registering its states and event.
func (t *Table) AddTransition(from, event, to string) {
	t.AddState(from)
	t.AddState(to)
	t.AddEvent(event)
	t.Transitions = append(t.Transitions, Transition{From: from, Event: event, To: to})
}

// SetInitial sets the initial state.
func (t *Table) SetInitial(state string) {
	t.Initial = state
}

// Validate checks if the table is well-formed and deterministic.
func (t *Table) Validate() error {
	if len(t.States) == 0 {
		return fmt.Errorf("table has no states")
	}
	if t.Initial == "" {
		return fmt.Errorf("table has no initial state")
	}
	if t.StateIndex(t.Initial) < 0 {
		return fmt.Errorf("initial state %q not in states", t.Initial)
	}

	seen := make(map[[2]string]int)
	for i, tr := range t.Transitions {
		if t.StateIndex(tr.From) < 0 {
			return fmt.Errorf("transition %d: from state %q not in states", i, tr.From)
		}
		if t.StateIndex(tr.To) < 0 {
			return fmt.Errorf("transition %d: to state %q not in states", i, tr.To)
		}
		if t.EventIndex(tr.Event) < 0 {
			return fmt.Errorf("transition %d: event %q not in alphabet", i, tr.Event)
		}
		key := [2]string{tr.From, tr.Event}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("transition %d: state %q already handles %q (transition %d)", i, tr.From, tr.Event, prev)
		}
		seen[key] = i
	}

	return nil
}

// StateIndex returns the index of a state, or -1 if not found.
func (t *Table) StateIndex(state string) int {
	for i, s := range t.States {
		if s == state {
			return i
		}
	}
	return -1
}

// EventIndex returns the index of an event, or -1 if not found.
func (t *Table) EventIndex(event string) int {
	for i, e := range t.Events {
		if e == event {
			return i
		}
	}
	return -1
}

// Next returns the target of the transition leaving from on event.
func (t *Table) Next(from, event string) (string, bool) {
	for _, tr := range t.Transitions {
		if tr.From == from && tr.Event == event {
			return tr.To, true
		}
	}
	return "", false
}

// UnreachableStates returns states that cannot be reached from the initial
// state, in table order.
func (t *Table) UnreachableStates() []string {
	reached := map[string]bool{t.Initial: true}
	queue := []string{t.Initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, tr := range t.Transitions {
			if tr.From == s && !reached[tr.To] {
				reached[tr.To] = true
				queue = append(queue, tr.To)
			}
		}
	}

	var out []string
	for _, s := range t.States {
		if !reached[s] {
			out = append(out, s)
		}
	}
	return out
}
