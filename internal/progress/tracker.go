package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Repository persists aggregates. Get returns (nil, nil) when the user has
// no stored aggregate.
type Repository interface {
	Get(ctx context.Context, userID string) (*Aggregate, error)
	Put(ctx context.Context, agg Aggregate) error
}

// Identity supplies the current user, if any.
type Identity interface {
	CurrentUser() (userID string, ok bool)
}

// Tracker owns every user's aggregate. All mutations go through Update and
// Reset; persistence is best-effort and never fails the caller.
type Tracker struct {
	repo     Repository
	identity Identity
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]Aggregate
	// unsynced holds the batches applied since a user's stored aggregate
	// last failed to load. Such users are never written until a read
	// succeeds and the batches are merged onto it.
	unsynced map[string][]Update
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a tracker. repo may be nil, in which case progress lives
// only in memory.
func NewTracker(repo Repository, identity Identity, opts ...Option) *Tracker {
	t := &Tracker{
		repo:     repo,
		identity: identity,
		logger:   zap.NewNop(),
		now:      time.Now,
		cache:    make(map[string]Aggregate),
		unsynced: make(map[string][]Update),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load returns the aggregate for userID, creating a zeroed one if none
// exists. A storage failure yields a zeroed aggregate.
func (t *Tracker) Load(ctx context.Context, userID string) Aggregate {
	if userID == "" {
		return NewAggregate("", t.now())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx, userID).Clone()
}

// loadLocked returns the cached aggregate or reads it from the repository.
// Caller must hold t.mu.
func (t *Tracker) loadLocked(ctx context.Context, userID string) Aggregate {
	cached, ok := t.cache[userID]
	if _, pending := t.unsynced[userID]; ok && !pending {
		return cached
	}

	if t.repo == nil {
		agg := NewAggregate(userID, t.now())
		t.cache[userID] = agg
		return agg
	}

	stored, err := t.repo.Get(ctx, userID)
	if err != nil {
		if ok {
			return cached
		}
		t.logger.Warn("load progress failed, using empty progress",
			zap.String("user_id", userID), zap.Error(err))
		agg := NewAggregate(userID, t.now())
		t.cache[userID] = agg
		t.unsynced[userID] = nil
		return agg
	}

	agg := NewAggregate(userID, t.now())
	if stored != nil {
		agg = stored.Clone()
		agg.UserID = userID
		if agg.TopicProgress == nil {
			agg.TopicProgress = make(map[string]TopicProgress)
		}
	}
	if pending, ok := t.unsynced[userID]; ok {
		delete(t.unsynced, userID)
		if len(pending) > 0 {
			agg = Apply(agg, pending, t.now())
			t.persistLocked(ctx, agg)
		}
	}
	t.cache[userID] = agg
	return agg
}

// Update applies updates to userID's aggregate as one batch and returns the
// result. The in-memory aggregate reflects the batch even if persisting it
// fails. While the stored aggregate cannot be read the batch is held back
// and merged on the next successful read.
func (t *Tracker) Update(ctx context.Context, userID string, updates []Update) Aggregate {
	if userID == "" {
		return NewAggregate("", t.now())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	agg := Apply(t.loadLocked(ctx, userID), updates, t.now())
	t.cache[userID] = agg
	if pending, ok := t.unsynced[userID]; ok {
		t.unsynced[userID] = append(pending, updates...)
		t.logger.Warn("progress kept in memory until storage is readable",
			zap.String("user_id", userID),
			zap.Int("pending_updates", len(t.unsynced[userID])))
		return agg.Clone()
	}
	t.persistLocked(ctx, agg)
	return agg.Clone()
}

// Reset zeroes userID's aggregate. Other users are unaffected.
func (t *Tracker) Reset(ctx context.Context, userID string) Aggregate {
	if userID == "" {
		return NewAggregate("", t.now())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	agg := NewAggregate(userID, t.now())
	t.cache[userID] = agg
	delete(t.unsynced, userID)
	t.persistLocked(ctx, agg)
	return agg.Clone()
}

// Deleter is implemented by repositories that can drop a user's aggregate.
type Deleter interface {
	Delete(ctx context.Context, userID string) error
}

// Purge removes userID's stored aggregate and reports a storage failure,
// unlike Reset. Repositories without Delete get a zeroed aggregate written
// instead.
func (t *Tracker) Purge(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("purge progress: empty user id")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.repo != nil {
		var err error
		if d, ok := t.repo.(Deleter); ok {
			err = d.Delete(ctx, userID)
		} else {
			err = t.repo.Put(ctx, NewAggregate(userID, t.now()))
		}
		if err != nil {
			return fmt.Errorf("purge progress for %s: %w", userID, err)
		}
	}
	t.cache[userID] = NewAggregate(userID, t.now())
	delete(t.unsynced, userID)
	return nil
}

func (t *Tracker) persistLocked(ctx context.Context, agg Aggregate) {
	if t.repo == nil {
		return
	}
	if err := t.repo.Put(ctx, agg); err != nil {
		t.logger.Warn("persist progress failed",
			zap.String("user_id", agg.UserID),
			zap.Int("total_questions", agg.TotalQuestions),
			zap.Error(err))
	}
}

// Report records updates for the current user. Without a user it does nothing.
func (t *Tracker) Report(ctx context.Context, updates []Update) {
	userID, ok := t.currentUser()
	if !ok || len(updates) == 0 {
		return
	}
	t.Update(ctx, userID, updates)
}

// Current returns the current user's aggregate, or a zeroed aggregate with an
// empty user id when nobody is signed in.
func (t *Tracker) Current(ctx context.Context) Aggregate {
	userID, ok := t.currentUser()
	if !ok {
		return NewAggregate("", t.now())
	}
	return t.Load(ctx, userID)
}

// ResetCurrent zeroes the current user's aggregate.
func (t *Tracker) ResetCurrent(ctx context.Context) Aggregate {
	userID, ok := t.currentUser()
	if !ok {
		return NewAggregate("", t.now())
	}
	return t.Reset(ctx, userID)
}

// PercentageFor returns the current user's correct percentage for topic.
func (t *Tracker) PercentageFor(ctx context.Context, topic string) int {
	return t.Current(ctx).PercentageFor(topic)
}

// OverallPercentage returns the current user's overall correct percentage.
func (t *Tracker) OverallPercentage(ctx context.Context) int {
	return t.Current(ctx).OverallPercentage()
}

func (t *Tracker) currentUser() (string, bool) {
	if t.identity == nil {
		return "", false
	}
	userID, ok := t.identity.CurrentUser()
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
