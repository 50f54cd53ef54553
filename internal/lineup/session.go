package lineup

import "fmt"

// SessionState is the lifecycle phase of one import session.
type SessionState string

const (
	StateIdle                SessionState = "idle"
	StateParsingFiles        SessionState = "parsing_files"
	StateDetectingConflicts  SessionState = "detecting_conflicts"
	StateAwaitingResolution  SessionState = "awaiting_resolution"
	StateImporting           SessionState = "importing"
	StateCompleted           SessionState = "completed"
	StateCompletedWithErrors SessionState = "completed_with_errors"
)

var sessionTransitions = map[SessionState][]SessionState{
	StateIdle:               {StateParsingFiles},
	StateParsingFiles:       {StateDetectingConflicts},
	StateDetectingConflicts: {StateImporting, StateAwaitingResolution},
	StateAwaitingResolution: {StateImporting},
	StateImporting:          {StateCompleted, StateCompletedWithErrors},
}

// Session tracks one import run from parse to commit. Once importing has
// begun, committed rows are never rolled back, so cancellation is only legal
// while awaiting resolution.
type Session struct {
	state       SessionState
	Rows        []SetRow
	Conflicts   []Conflict
	Clean       []Candidate
	Resolutions *ResolutionSet
}

// NewSession starts a session in the idle state.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle phase.
func (s *Session) State() SessionState {
	return s.state
}

// Transition advances the session, rejecting moves the lifecycle does not
// allow.
func (s *Session) Transition(to SessionState) error {
	for _, allowed := range sessionTransitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("cannot transition import session from %s to %s", s.state, to)
}

// BeginImport gates the commit: every conflict must carry a resolution.
func (s *Session) BeginImport() error {
	if s.state != StateDetectingConflicts && s.state != StateAwaitingResolution {
		return fmt.Errorf("cannot start importing from %s", s.state)
	}
	if s.Resolutions != nil && !s.Resolutions.Resolved() {
		return fmt.Errorf("%d conflicts are still unresolved", s.Resolutions.UnresolvedCount())
	}
	s.state = StateImporting
	return nil
}

// Cancel abandons the session. Only legal while awaiting resolution; once
// importing has started there is no rollback.
func (s *Session) Cancel() error {
	if s.state != StateAwaitingResolution {
		return fmt.Errorf("cannot cancel import session in state %s", s.state)
	}
	s.state = StateIdle
	return nil
}
