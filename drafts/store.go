// Package drafts owns the live prescription draft sessions. Each
// session wraps one Draft plus the autocomplete state for the row being
// edited; drafts are never persisted, so an expired or deleted session
// simply discards its draft. The store map is guarded by a mutex; the
// draft itself is only touched by the serialized handlers of its own
// session.
package drafts

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

// SuggestionGrace is how long suggestions stay selectable after the
// name field blurs, so a pointer click on the dropdown still lands.
const SuggestionGrace = 200 * time.Millisecond

// Session is one draft composition session. Concurrent requests for
// the same draft are serialized through the session mutex; a handler
// holds it for the whole operation so each edit runs to completion
// before the next one observes the draft.
type Session struct {
	ID    string
	Draft *prescription.Draft

	// Guards Draft and the autocomplete state below.
	mu sync.Mutex

	// Autocomplete state: the row the suggestions belong to, the
	// current suggestion list and, once blurred, when they expire.
	suggestRowID int
	suggestions  []string
	suggestUntil time.Time

	lastTouched time.Time
}

// Lock takes the session for one operation.
func (sess *Session) Lock() {
	sess.mu.Lock()
}

// Unlock releases the session.
func (sess *Session) Unlock() {
	sess.mu.Unlock()
}

// Store keeps the active sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create opens a new session around an empty draft.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:          uuid.NewString(),
		Draft:       prescription.NewDraft(),
		lastTouched: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given id and refreshes its idle
// timer.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastTouched = s.now()
	}
	return sess, ok
}

// Delete discards a session and its draft.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep discards sessions idle for longer than ttl and returns how many
// were dropped.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastTouched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetSuggestions records the active suggestion list for a row while its
// name field is being edited. An empty list clears the state.
func (sess *Session) SetSuggestions(rowID int, suggestions []string) {
	if len(suggestions) == 0 {
		sess.ClearSuggestions()
		return
	}
	sess.suggestRowID = rowID
	sess.suggestions = suggestions
	sess.suggestUntil = time.Time{}
}

// Blur starts the grace window: the current suggestions stay selectable
// for SuggestionGrace and then read as cleared.
func (sess *Session) Blur(rowID int, now time.Time) {
	if sess.suggestRowID != rowID || len(sess.suggestions) == 0 {
		return
	}
	sess.suggestUntil = now.Add(SuggestionGrace)
}

// Suggestions returns the live suggestion list for the row, or nil when
// none are active or the blur grace window has passed.
func (sess *Session) Suggestions(rowID int, now time.Time) []string {
	if sess.suggestRowID != rowID || len(sess.suggestions) == 0 {
		return nil
	}
	if !sess.suggestUntil.IsZero() && now.After(sess.suggestUntil) {
		return nil
	}
	return sess.suggestions
}

// CanSelect reports whether the entry is currently selectable for the
// row, including during the blur grace window.
func (sess *Session) CanSelect(rowID int, entry string, now time.Time) bool {
	for _, s := range sess.Suggestions(rowID, now) {
		if s == entry {
			return true
		}
	}
	return false
}

// ClearSuggestions drops the autocomplete state immediately.
func (sess *Session) ClearSuggestions() {
	sess.suggestRowID = 0
	sess.suggestions = nil
	sess.suggestUntil = time.Time{}
}
