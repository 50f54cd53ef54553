package lineup

import (
	"testing"

	"lineupboard/internal/store"
)

func TestSessionHappyPath(t *testing.T) {
	s := NewSession()

	steps := []SessionState{StateParsingFiles, StateDetectingConflicts, StateAwaitingResolution, StateImporting, StateCompleted}
	for _, step := range steps {
		if err := s.Transition(step); err != nil {
			t.Fatalf("Transition(%s): %v", step, err)
		}
	}
	if s.State() != StateCompleted {
		t.Fatalf("State = %s, want %s", s.State(), StateCompleted)
	}
}

func TestSessionRejectsIllegalTransitions(t *testing.T) {
	s := NewSession()
	if err := s.Transition(StateImporting); err == nil {
		t.Fatal("idle session cannot jump to importing")
	}
	if err := s.Transition(StateCompleted); err == nil {
		t.Fatal("idle session cannot jump to completed")
	}
}

func TestSessionCancelOnlyWhileAwaitingResolution(t *testing.T) {
	s := NewSession()
	if err := s.Cancel(); err == nil {
		t.Fatal("cancel should be rejected before awaiting resolution")
	}

	_ = s.Transition(StateParsingFiles)
	_ = s.Transition(StateDetectingConflicts)
	_ = s.Transition(StateAwaitingResolution)
	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	s = NewSession()
	_ = s.Transition(StateParsingFiles)
	_ = s.Transition(StateDetectingConflicts)
	_ = s.Transition(StateImporting)
	if err := s.Cancel(); err == nil {
		t.Fatal("cancel must be impossible once importing has started")
	}
}

func TestBeginImportGatedOnResolutions(t *testing.T) {
	s := NewSession()
	_ = s.Transition(StateParsingFiles)
	_ = s.Transition(StateDetectingConflicts)
	_ = s.Transition(StateAwaitingResolution)

	s.Conflicts = []Conflict{
		{Candidate: Candidate{Name: "Bonobo"}, Matches: []store.Artist{{ID: 2}, {ID: 3}}},
	}
	s.Resolutions = NewResolutionSet(s.Conflicts)

	if err := s.BeginImport(); err == nil {
		t.Fatal("commit must be blocked while conflicts are unresolved")
	}

	if err := s.Resolutions.Set(0, Resolution{Kind: ResolutionSkip}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.BeginImport(); err != nil {
		t.Fatalf("BeginImport: %v", err)
	}
	if s.State() != StateImporting {
		t.Fatalf("State = %s, want %s", s.State(), StateImporting)
	}
}
