// Package store is an in-process unidirectional state container for DevHub
// clients. A single State value flows through pure reducers; subscribers see
// every transition in dispatch order.
package store

import (
	"sync"
)

type Listener func(State)

type subscription struct {
	id       uint64
	listener Listener
}

type Store struct {
	mu    sync.Mutex
	state State

	nextSubID uint64
	subs      []subscription
}

func New() *Store {
	return &Store{state: initialState()}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs the action through the reducers and notifies subscribers
// with the resulting state. Dispatches are serialized; listeners run on the
// dispatching goroutine and must not dispatch re-entrantly.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = reduce(s.state, action)
	state := s.state
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.listener(state)
	}
	return state
}

// Subscribe registers a listener for every subsequent transition. The
// returned function removes it.
func (s *Store) Subscribe(listener Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, listener: listener})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
