/*
	statemachine package coordinates the lifecycle of every fragment taking
	part in a PIE run and decides when the run as a whole has reached its
	fixpoint.
*/

package statemachine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mycok/minigraph/graph"
)

var (
	// ErrInvalidTransition is returned when an event is not valid for the
	// current state of a fragment.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnknownFragment is returned when an event targets a fragment the
	// machine does not track.
	ErrUnknownFragment = errors.New("unknown fragment")
)

// State is the lifecycle state of a fragment.
type State uint8

// The supported fragment states.
const (
	Idle State = iota
	Active
	ReadyToTerminate
	ReadyToCollect
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	case ReadyToTerminate:
		return "ReadyToTerminate"
	case ReadyToCollect:
		return "ReadyToCollect"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// SystemState is the state of the run as a whole.
type SystemState uint8

// The supported system states.
const (
	Running SystemState = iota
	SystemTerminated
)

func (s SystemState) String() string {
	if s == SystemTerminated {
		return "Terminated"
	}

	return "Running"
}

// Event drives fragment state transitions.
type Event uint8

// The supported events.
const (
	Load Event = iota
	Unload
	NothingChanged
	Changed
	Aggregate
	Fixpoint
	GoOn
)

func (e Event) String() string {
	switch e {
	case Load:
		return "Load"
	case Unload:
		return "Unload"
	case NothingChanged:
		return "NothingChanged"
	case Changed:
		return "Changed"
	case Aggregate:
		return "Aggregate"
	case Fixpoint:
		return "Fixpoint"
	case GoOn:
		return "GoOn"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e))
	}
}

type transitionKey struct {
	from  State
	event Event
}

var transitions = map[transitionKey]State{
	{Idle, Load}:                 Active,
	{Idle, Unload}:               Idle,
	{Active, NothingChanged}:     ReadyToTerminate,
	{Active, Changed}:            ReadyToCollect,
	{ReadyToCollect, Aggregate}:  Idle,
	{ReadyToTerminate, GoOn}:     Idle,
	{ReadyToTerminate, Fixpoint}: Terminated,
}

// Transition returns the state reached by applying ev to from.
func Transition(from State, ev Event) (State, error) {
	to, ok := transitions[transitionKey{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
	}

	return to, nil
}

// Machine tracks the state of a fixed set of fragments together with the
// system state. A Machine is safe for concurrent use.
type Machine struct {
	mu     sync.Mutex
	states map[graph.FragmentID]State
	system SystemState
}

// New returns a Machine in which every fragment is Idle and the system is
// Running.
func New(ids []graph.FragmentID) *Machine {
	m := &Machine{
		states: make(map[graph.FragmentID]State, len(ids)),
	}
	for _, id := range ids {
		m.states[id] = Idle
	}

	return m
}

// ProcessEvent applies ev to fragment id.
func (m *Machine) ProcessEvent(id graph.FragmentID, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.processEvent(id, ev)
}

func (m *Machine) processEvent(id graph.FragmentID, ev Event) error {
	from, found := m.states[id]
	if !found {
		return fmt.Errorf("fragment %d: %w", id, ErrUnknownFragment)
	}

	to, err := Transition(from, ev)
	if err != nil {
		return fmt.Errorf("fragment %d: %w", id, err)
	}

	m.states[id] = to

	return nil
}

// State returns the state of fragment id.
func (m *Machine) State(id graph.FragmentID) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.states[id]
	if !found {
		return Idle, fmt.Errorf("fragment %d: %w", id, ErrUnknownFragment)
	}

	return s, nil
}

// GraphIs returns true if fragment id is in state s.
func (m *Machine) GraphIs(id graph.FragmentID, s State) bool {
	curr, err := m.State(id)

	return err == nil && curr == s
}

// SystemState returns the state of the run.
func (m *Machine) SystemState() SystemState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.system
}

// Eligible returns the ids of the fragments that can be loaded, in
// ascending order.
func (m *Machine) Eligible() []graph.FragmentID {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []graph.FragmentID
	for id, s := range m.states {
		if s == Idle {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// IsTerminated checks for the global fixpoint. If every fragment is
// ReadyToTerminate the system and all fragments move to their terminal
// state and IsTerminated returns true. Otherwise every ReadyToTerminate
// fragment receives GoOn, returning it to Idle for another incremental
// round, and IsTerminated returns false.
func (m *Machine) IsTerminated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.system == SystemTerminated {
		return true
	}

	var ready int
	for _, s := range m.states {
		if s == ReadyToTerminate {
			ready++
		}
	}

	if ready < len(m.states) {
		for id, s := range m.states {
			if s == ReadyToTerminate {
				_ = m.processEvent(id, GoOn)
			}
		}

		return false
	}

	for id := range m.states {
		_ = m.processEvent(id, Fixpoint)
	}
	m.system = SystemTerminated

	return true
}
