package httpapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/session"
)

// handle is a server-held session. The engine is single-owner, so every
// access goes through mu. The handle id stays fixed across repeats and
// reshuffles while the engine's session id changes with each working set.
type handle struct {
	id string

	mu     sync.Mutex
	engine *session.Engine

	// lastUsed is unix nanoseconds of the last request on this handle.
	lastUsed atomic.Int64
	// active is false once the engine holds a result.
	active atomic.Bool
}

func (h *handle) touch(now time.Time) {
	h.lastUsed.Store(now.UnixNano())
}

// registry maps handle ids to sessions.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*handle
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*handle)}
}

func (r *registry) add(engine *session.Engine, now time.Time) *handle {
	h := &handle{id: uuid.New().String(), engine: engine}
	h.touch(now)
	h.active.Store(engine.Phase() != session.PhaseFinished)
	r.mu.Lock()
	r.sessions[h.id] = h
	r.mu.Unlock()
	return h
}

func (r *registry) get(id string) (*handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	return h, ok
}

func (r *registry) remove(id string) (*handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	return h, true
}

// evictBefore removes and returns every handle last used before cutoff.
func (r *registry) evictBefore(cutoff time.Time) []*handle {
	limit := cutoff.UnixNano()
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []*handle
	for id, h := range r.sessions {
		if h.lastUsed.Load() < limit {
			delete(r.sessions, id)
			evicted = append(evicted, h)
		}
	}
	return evicted
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// userReporter forwards a session's updates to the shared tracker under
// the session's own identity.
type userReporter struct {
	tracker  *progress.Tracker
	identity progress.Identity
}

func newUserReporter(tracker *progress.Tracker, userID string) *userReporter {
	return &userReporter{tracker: tracker, identity: identity.NewStatic(userID)}
}

func (u *userReporter) Report(ctx context.Context, updates []progress.Update) {
	userID, ok := u.identity.CurrentUser()
	if !ok || len(updates) == 0 {
		return
	}
	u.tracker.Update(ctx, userID, updates)
}
