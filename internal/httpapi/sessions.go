package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"lineupboard/internal/app/imports"
	"lineupboard/internal/lineup"
)

// ErrSessionNotFound signals an unknown or already-finished session id.
var ErrSessionNotFound = errors.New("import session not found")

// importSession is one operator's set-import run awaiting resolution or
// committed. Sessions are in-memory only: an import session does not survive
// a restart, and two operators working the same edition are not protected
// from each other.
type importSession struct {
	mu sync.Mutex

	ID        string
	EditionID int64
	Timezone  string
	CreatedAt time.Time

	workflow *lineup.Session
	result   *imports.Result
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*importSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*importSession)}
}

func (r *sessionRegistry) add(editionID int64, timezone string, workflow *lineup.Session) *importSession {
	session := &importSession{
		ID:        uuid.NewString(),
		EditionID: editionID,
		Timezone:  timezone,
		CreatedAt: time.Now(),
		workflow:  workflow,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return session
}

func (r *sessionRegistry) get(id string) (*importSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
