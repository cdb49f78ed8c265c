package store

import (
	"testing"
)

func TestSubscribersSeeEveryTransition(t *testing.T) {
	s := New()

	var tokens []string
	unsubscribe := s.Subscribe(func(state State) {
		tokens = append(tokens, state.Auth.Token)
	})

	s.Dispatch(Action{Type: ActionLoginSuccess, Payload: "t1"})
	s.Dispatch(Action{Type: ActionLogout})

	if len(tokens) != 2 || tokens[0] != "t1" || tokens[1] != "" {
		t.Errorf("tokens = %v", tokens)
	}

	unsubscribe()
	s.Dispatch(Action{Type: ActionLoginSuccess, Payload: "t2"})
	if len(tokens) != 2 {
		t.Error("listener called after unsubscribe")
	}

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestStateReturnsSnapshot(t *testing.T) {
	s := New()
	s.Dispatch(Action{Type: ActionLoginSuccess, Payload: "t1"})

	snapshot := s.State()
	snapshot.Auth.Token = "tampered"

	if s.State().Auth.Token != "t1" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestInitialStateLoading(t *testing.T) {
	s := New()
	state := s.State()

	if !state.Auth.Loading || !state.Profile.Loading || !state.Posts.Loading {
		t.Errorf("slices should start loading: %+v", state)
	}
	if state.Auth.Authenticated {
		t.Error("should start unauthenticated")
	}
}
