package monitor

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyTracked signals caller misuse: a session for the document
// already exists. Reconcile absorbs it; it is never surfaced to clients.
var ErrAlreadyTracked = errors.New("document already tracked")

type Mode string

const (
	ModeStreaming Mode = "streaming"
	ModePolling   Mode = "polling"
)

type session struct {
	docID     string
	mode      Mode
	cancel    context.CancelFunc
	createdAt time.Time
}

// SessionInfo is a diagnostic snapshot of one tracked session.
type SessionInfo struct {
	DocID     string    `json:"doc_id"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry owns the set of currently-tracked documents. It holds at most
// one session per document id and never makes network calls itself.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

func (r *Registry) Has(docID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[docID]
	return ok
}

// Start creates a session for docID. The cancel func tears down the
// session's transport when the session is stopped from outside.
func (r *Registry) Start(docID string, mode Mode, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[docID]; ok {
		return ErrAlreadyTracked
	}
	r.sessions[docID] = &session{
		docID:     docID,
		mode:      mode,
		cancel:    cancel,
		createdAt: time.Now(),
	}
	return nil
}

// SwitchMode flips the transport mode of an existing session without
// destroying it. Reports false if the session is gone, which tells the
// caller a concurrent stop already won.
func (r *Registry) SwitchMode(docID string, mode Mode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[docID]
	if !ok {
		return false
	}
	s.mode = mode
	return true
}

// Resolve removes the session if present. Idempotent: resolving an
// untracked id reports false instead of failing, which is what makes a
// duplicate terminal event a no-op for the caller.
func (r *Registry) Resolve(docID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[docID]; !ok {
		return false
	}
	delete(r.sessions, docID)
	return true
}

// Stop removes the session and cancels its transport. Used for
// host-initiated teardown of a single document.
func (r *Registry) Stop(docID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[docID]
	if ok {
		delete(r.sessions, docID)
	}
	r.mu.Unlock()
	if ok {
		s.cancel()
	}
	return ok
}

// Clear cancels every session and empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(r.sessions))
	for _, s := range r.sessions {
		cancels = append(cancels, s.cancel)
	}
	r.sessions = make(map[string]*session)
	r.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) Snapshot() []SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, SessionInfo{DocID: s.docID, Mode: s.mode, CreatedAt: s.createdAt})
	}
	return infos
}
