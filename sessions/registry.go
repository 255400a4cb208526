// Package sessions tracks live QR attendance sessions. The registry is purely
// in-memory: tokens disappear when the process restarts, and durability only
// happens when a session is finalized into attendance rows.
package sessions

import (
	"errors"
	"sync"
)

var (
	ErrSessionNotFound  = errors.New("session not found or no longer active")
	ErrAlreadySubmitted = errors.New("student already submitted for this session")
)

type session struct {
	classID     string
	submissions map[string]struct{}
}

// Registry maps active tokens to their class and the set of students who have
// submitted. A token that is not in the map is not active; there is no separate
// active flag to get out of sync. All operations take the single mutex and do
// no I/O while holding it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

// Create registers token as an active session for classID with no submissions.
// An existing entry for the same token is overwritten; token entropy makes a
// collision astronomically unlikely and it is not otherwise guarded.
func (r *Registry) Create(token, classID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = &session{
		classID:     classID,
		submissions: make(map[string]struct{}),
	}
}

func (r *Registry) IsActive(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	return ok
}

// ClassID returns the class a token is bound to, if the token is active.
func (r *Registry) ClassID(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return "", false
	}
	return s.classID, true
}

// AddSubmission records one student's presence claim. The membership check and
// the insert happen under the same lock acquisition, so two concurrent calls
// for the same student resolve to exactly one success.
func (r *Registry) AddSubmission(token, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	if _, dup := s.submissions[studentID]; dup {
		return ErrAlreadySubmitted
	}
	s.submissions[studentID] = struct{}{}
	return nil
}

// Submissions returns a snapshot copy of the submitted student ids. Callers
// never observe later mutations. The slice is nil for unknown tokens.
func (r *Registry) Submissions(token string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s.submissions))
	for id := range s.submissions {
		out = append(out, id)
	}
	return out
}

// Count reports how many students have submitted against the token.
func (r *Registry) Count(token string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return 0, false
	}
	return len(s.submissions), true
}

// Invalidate removes the token and reports whether it existed. After a true
// return, IsActive is guaranteed to be false.
func (r *Registry) Invalidate(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	return ok
}
