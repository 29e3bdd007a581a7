package session

import (
	"sync"

	"zapbot/internal/models"
)

// Store is the session repository consumed by the flow engine and the
// follow-up sweeper. Implementations must serialize concurrent updates
// for the same phone; the gateway retries deliveries and duplicate
// events for one phone can arrive back to back.
type Store interface {
	// Update runs fn with the session for phone, creating it first if
	// needed. fn runs under the per-phone lock.
	Update(phone string, fn func(*models.Session))

	// Snapshot returns a copy of the session for phone, or nil if the
	// phone has never been seen.
	Snapshot(phone string) *models.Session

	// Reset reinitializes the session for phone, if one exists.
	Reset(phone string)

	// InActiveFlow reports whether phone has a flow in progress.
	InActiveFlow(phone string) bool

	// Phones lists every known phone number.
	Phones() []string
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *models.Session
}

// NewMemoryStore returns a volatile, process-local session store.
// Acceptable because a completed lead is written to the lead sink
// before its session reaches the terminal stage.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*entry),
	}
}

func (s *memoryStore) getOrCreate(phone string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[phone]
	if !ok {
		e = &entry{session: models.NewSession(phone)}
		s.sessions[phone] = e
	}
	return e
}

func (s *memoryStore) Update(phone string, fn func(*models.Session)) {
	e := s.getOrCreate(phone)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

func (s *memoryStore) Snapshot(phone string) *models.Session {
	s.mu.Lock()
	e, ok := s.sessions[phone]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return copySession(e.session)
}

func (s *memoryStore) Reset(phone string) {
	s.mu.Lock()
	e, ok := s.sessions[phone]
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset()
}

func (s *memoryStore) InActiveFlow(phone string) bool {
	snap := s.Snapshot(phone)
	return snap != nil && snap.Active()
}

func (s *memoryStore) Phones() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	phones := make([]string, 0, len(s.sessions))
	for phone := range s.sessions {
		phones = append(phones, phone)
	}
	return phones
}

func copySession(src *models.Session) *models.Session {
	dst := *src
	dst.Fields = make(map[string]string, len(src.Fields))
	for k, v := range src.Fields {
		dst.Fields[k] = v
	}
	dst.Cart = append([]models.CartItem(nil), src.Cart...)
	dst.Notified = make(map[models.Reminder]bool, len(src.Notified))
	for k, v := range src.Notified {
		dst.Notified[k] = v
	}
	return &dst
}
