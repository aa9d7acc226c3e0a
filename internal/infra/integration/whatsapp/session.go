package whatsapp

import (
	"sync"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateLoggedOut    State = "loggedOut"
)

// session holds the live client handle. It is replaced wholesale on every
// reconnection and is empty until the first connection attempt. Each
// connection attempt gets a new generation; events carrying an older
// generation are ignored.
type session struct {
	mu         sync.RWMutex
	client     waClient
	state      State
	generation uint64
}

func newSession() *session {
	return &session{state: StateDisconnected}
}

func (s *session) current() (waClient, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client, s.state
}

func (s *session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// begin starts a new connection attempt and returns its generation, or false
// when the session is logged out.
func (s *session) begin() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoggedOut {
		return 0, false
	}
	s.generation++
	s.state = StateConnecting
	return s.generation, true
}

// install sets client for gen and returns the client it replaced.
func (s *session) install(gen uint64, client waClient) (old waClient, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, false
	}
	old = s.client
	s.client = client
	return old, true
}

// transition moves to next when gen is current. loggedOut is terminal.
func (s *session) transition(gen uint64, next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoggedOut || gen != s.generation {
		return false
	}
	s.state = next
	return true
}

// close drops the client and returns it for disconnection.
func (s *session) close(final State) waClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.client
	s.client = nil
	s.generation++
	if s.state != StateLoggedOut {
		s.state = final
	}
	return c
}

// logout marks the session terminally logged out if gen is current.
func (s *session) logout(gen uint64) (waClient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, false
	}
	s.state = StateLoggedOut
	c := s.client
	s.client = nil
	return c, true
}
