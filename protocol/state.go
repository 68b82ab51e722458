package protocol

import (
	"fmt"
	"sync"

	"github.com/vocdoni/evoting-core/verrors"
)

// State is a position in the election state machine:
// SETUP -> OPEN -> CLOSED -> TALLIED.
type State int

const (
	StateSetup State = iota
	StateOpen
	StateClosed
	StateTallied
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "SETUP"
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	case StateTallied:
		return "TALLIED"
	default:
		return "UNKNOWN"
	}
}

// stateMachine is the single shared election-state value that Authority,
// VotingCenter, and TallyingCenter all check and transition. Transitions
// are monotone.
type stateMachine struct {
	mu  sync.Mutex
	cur State
}

func newStateMachine() *stateMachine {
	return &stateMachine{cur: StateSetup}
}

func (s *stateMachine) current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// requireOneOf returns verrors.ErrWrongState unless the current state is
// one of the given allowed states.
func (s *stateMachine) requireOneOf(allowed ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range allowed {
		if s.cur == st {
			return nil
		}
	}
	return fmt.Errorf("%w: expected one of %v, got %s", verrors.ErrWrongState, allowed, s.cur)
}

// transition moves the state machine from `from` to `to`, failing with
// verrors.ErrWrongState if the current state is not `from`.
func (s *stateMachine) transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != from {
		return fmt.Errorf("%w: expected %s to transition to %s, got %s", verrors.ErrWrongState, from, to, s.cur)
	}
	s.cur = to
	return nil
}
