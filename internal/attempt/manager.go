package attempt

import "sync"

// Manager holds at most one live session per interview. Starting a new
// session tears down any prior handle synchronously, so a reconnecting
// client can never leave two recognizer feeds running against the same
// interview.
type Manager struct {
	mu       sync.Mutex
	byMockID map[string]*Session
}

func NewManager() *Manager {
	return &Manager{byMockID: map[string]*Session{}}
}

// Start replaces any existing session for mockID and returns the new one.
func (m *Manager) Start(mockID, userID string, questions []string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byMockID[mockID]; ok {
		prev.teardown()
	}

	s := NewSession(mockID, userID, questions)
	m.byMockID[mockID] = s
	return s
}

// Get returns the live session for mockID, if any.
func (m *Manager) Get(mockID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byMockID[mockID]
	return s, ok
}

// End tears down and forgets the session for mockID.
func (m *Manager) End(mockID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byMockID[mockID]; ok {
		s.teardown()
		delete(m.byMockID, mockID)
	}
}
