package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/kubika/internal/identity"
)

// memRepo is an in-memory Repository that can be told to fail.
type memRepo struct {
	mu     sync.Mutex
	data   map[string]Aggregate
	getErr error
	putErr error
	delErr error
	puts   int
}

func newMemRepo() *memRepo {
	return &memRepo{data: make(map[string]Aggregate)}
}

func (r *memRepo) Get(_ context.Context, userID string) (*Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	agg, ok := r.data[userID]
	if !ok {
		return nil, nil
	}
	c := agg.Clone()
	return &c, nil
}

func (r *memRepo) Put(_ context.Context, agg Aggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	if r.putErr != nil {
		return r.putErr
	}
	r.data[agg.UserID] = agg.Clone()
	return nil
}

func (r *memRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.data, userID)
	return nil
}

func (r *memRepo) setGetErr(err error) {
	r.mu.Lock()
	r.getErr = err
	r.mu.Unlock()
}

// putOnlyRepo exposes only the Repository methods of memRepo.
type putOnlyRepo struct{ repo *memRepo }

func (r putOnlyRepo) Get(ctx context.Context, userID string) (*Aggregate, error) {
	return r.repo.Get(ctx, userID)
}

func (r putOnlyRepo) Put(ctx context.Context, agg Aggregate) error {
	return r.repo.Put(ctx, agg)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestTracker(repo Repository, user string) *Tracker {
	clock := &fakeClock{now: testTime}
	return NewTracker(repo, identity.NewStatic(user), WithClock(clock.Now))
}

func TestTracker_LoadCreatesZeroed(t *testing.T) {
	tr := newTestTracker(newMemRepo(), "u1")
	agg := tr.Load(context.Background(), "u1")

	assert.Equal(t, "u1", agg.UserID)
	assert.Zero(t, agg.TotalQuestions)
	assert.Zero(t, agg.CorrectAnswers)
	assert.Empty(t, agg.TopicProgress)
}

func TestTracker_LoadReadsRepository(t *testing.T) {
	repo := newMemRepo()
	stored := Apply(NewAggregate("u1", testTime), []Update{{Topic: "cube", IsCorrect: true}}, testTime)
	repo.data["u1"] = stored

	tr := newTestTracker(repo, "u1")
	agg := tr.Load(context.Background(), "u1")
	assert.Equal(t, 1, agg.CorrectAnswers)
	assert.Equal(t, 1, agg.TopicProgress["cube"].Correct)
}

func TestTracker_UpdatePersists(t *testing.T) {
	repo := newMemRepo()
	tr := newTestTracker(repo, "u1")

	tr.Update(context.Background(), "u1", []Update{{Topic: "cube", IsCorrect: true}, {Topic: "cone"}})

	stored := repo.data["u1"]
	assert.Equal(t, 2, stored.TotalQuestions)
	assert.Equal(t, 1, stored.CorrectAnswers)
	assert.Equal(t, 1, repo.puts, "a batch is persisted once")
}

func TestTracker_AnswersVisibleWithoutFinish(t *testing.T) {
	repo := newMemRepo()
	tr := newTestTracker(repo, "student")
	ctx := context.Background()

	tr.Report(ctx, []Update{{Topic: "cube", IsCorrect: true}})
	tr.Report(ctx, []Update{{Topic: "cube", IsCorrect: true}})
	tr.Report(ctx, []Update{{Topic: "sphere", IsCorrect: false}})
	tr.Report(ctx, []Update{{Topic: "sphere", IsCorrect: true}})

	agg := tr.Current(ctx)
	assert.Equal(t, 4, agg.TotalQuestions)
	assert.Equal(t, 3, agg.CorrectAnswers)
	assert.Equal(t, 4, repo.data["student"].TotalQuestions)
}

func TestTracker_ResetZeroesOnlyThatUser(t *testing.T) {
	repo := newMemRepo()
	tr := newTestTracker(repo, "u1")
	ctx := context.Background()

	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})
	tr.Update(ctx, "u2", []Update{{Topic: "cone", IsCorrect: true}})
	before := tr.Load(ctx, "u1").LastUpdated

	tr.Reset(ctx, "u1")

	agg := tr.Load(ctx, "u1")
	assert.Zero(t, agg.TotalQuestions)
	assert.Zero(t, agg.AnsweredQuestions)
	assert.Zero(t, agg.CorrectAnswers)
	assert.Empty(t, agg.TopicProgress)
	assert.True(t, agg.LastUpdated.After(before), "reset refreshes LastUpdated")
	assert.Zero(t, repo.data["u1"].TotalQuestions)

	assert.Equal(t, 1, tr.Load(ctx, "u2").TotalQuestions)
}

func TestTracker_LoadFailureReturnsZeroed(t *testing.T) {
	repo := newMemRepo()
	repo.getErr = errors.New("disk on fire")

	core, logs := observer.New(zapcore.WarnLevel)
	tr := NewTracker(repo, identity.NewStatic("u1"), WithLogger(zap.New(core)))

	agg := tr.Load(context.Background(), "u1")
	assert.Equal(t, "u1", agg.UserID)
	assert.Zero(t, agg.TotalQuestions)
	assert.Equal(t, 1, logs.FilterMessage("load progress failed, using empty progress").Len())
}

func TestTracker_ReadFailureNeverOverwritesStoredProgress(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	stored := Apply(NewAggregate("rina", testTime), []Update{
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: false},
		{Topic: "sphere", IsCorrect: true},
		{Topic: "sphere", IsCorrect: false},
	}, testTime)
	require.NoError(t, repo.Put(ctx, stored))
	putsBefore := repo.puts

	repo.setGetErr(errors.New("connection reset"))
	tr := newTestTracker(repo, "rina")

	agg := tr.Update(ctx, "rina", []Update{{Topic: "cube", IsCorrect: true}})
	assert.Equal(t, 1, agg.TotalQuestions, "the session still sees its own answers")
	assert.Equal(t, putsBefore, repo.puts, "nothing is written while the stored aggregate is unreadable")
	assert.Equal(t, 5, repo.data["rina"].TotalQuestions)

	repo.setGetErr(nil)
	fresh := newTestTracker(repo, "rina").Load(ctx, "rina")
	assert.Equal(t, 5, fresh.TotalQuestions)

	merged := tr.Load(ctx, "rina")
	assert.Equal(t, 6, merged.TotalQuestions)
	assert.Equal(t, 4, merged.CorrectAnswers)
	assert.Equal(t, TopicProgress{Total: 4, Answered: 4, Correct: 3}, merged.TopicProgress["cube"])
	assert.Equal(t, 6, repo.data["rina"].TotalQuestions, "held-back answers are merged onto the stored aggregate")
	assert.Equal(t, 6, newTestTracker(repo, "rina").Load(ctx, "rina").TotalQuestions)
}

func TestTracker_ResetWhileUnreadableDropsHeldBatches(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	repo.setGetErr(errors.New("timeout"))
	tr := newTestTracker(repo, "u1")

	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})
	tr.Reset(ctx, "u1")
	repo.setGetErr(nil)

	assert.Zero(t, tr.Load(ctx, "u1").TotalQuestions)
	assert.Zero(t, repo.data["u1"].TotalQuestions)
}

func TestTracker_Purge(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	tr := newTestTracker(repo, "u1")
	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})
	tr.Update(ctx, "u2", []Update{{Topic: "cube", IsCorrect: true}})

	require.NoError(t, tr.Purge(ctx, "u1"))

	_, ok := repo.data["u1"]
	assert.False(t, ok, "stored aggregate removed")
	assert.Zero(t, tr.Load(ctx, "u1").TotalQuestions)
	assert.Equal(t, 1, tr.Load(ctx, "u2").TotalQuestions)
	assert.Error(t, tr.Purge(ctx, ""))
}

func TestTracker_PurgeReportsStorageFailure(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	tr := newTestTracker(repo, "u1")
	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})

	repo.delErr = errors.New("read-only filesystem")
	err := tr.Purge(ctx, "u1")

	require.Error(t, err)
	assert.ErrorIs(t, err, repo.delErr)
	assert.Equal(t, 1, tr.Load(ctx, "u1").TotalQuestions, "cache untouched when storage refuses")
}

func TestTracker_PurgeWithoutDeleteWritesZeroed(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	tr := newTestTracker(putOnlyRepo{repo}, "u1")
	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})

	require.NoError(t, tr.Purge(ctx, "u1"))
	assert.Zero(t, repo.data["u1"].TotalQuestions)

	repo.putErr = errors.New("quota exceeded")
	assert.Error(t, tr.Purge(ctx, "u1"))
}

func TestTracker_PersistFailureKeepsInMemory(t *testing.T) {
	repo := newMemRepo()
	repo.putErr = errors.New("read-only filesystem")

	core, logs := observer.New(zapcore.WarnLevel)
	tr := NewTracker(repo, identity.NewStatic("u1"), WithLogger(zap.New(core)))
	ctx := context.Background()

	tr.Report(ctx, []Update{{Topic: "cube", IsCorrect: true}})
	tr.Report(ctx, []Update{{Topic: "cube", IsCorrect: false}})

	agg := tr.Current(ctx)
	assert.Equal(t, 2, agg.TotalQuestions)
	assert.Equal(t, 1, agg.CorrectAnswers)
	assert.Equal(t, 2, logs.FilterMessage("persist progress failed").Len())
}

func TestTracker_NoUserIsNoop(t *testing.T) {
	repo := newMemRepo()
	tr := NewTracker(repo, identity.NewStatic(""))
	ctx := context.Background()

	tr.Report(ctx, []Update{{Topic: "cube", IsCorrect: true}})

	agg := tr.Current(ctx)
	assert.Empty(t, agg.UserID)
	assert.Zero(t, agg.TotalQuestions)
	assert.Zero(t, repo.puts)
	assert.Zero(t, tr.OverallPercentage(ctx))
}

func TestTracker_NilIdentity(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Report(context.Background(), []Update{{Topic: "cube"}})
	assert.Zero(t, tr.Current(context.Background()).TotalQuestions)
}

func TestTracker_ConcurrentUpdatesNotLost(t *testing.T) {
	repo := newMemRepo()
	tr := newTestTracker(repo, "u1")
	ctx := context.Background()

	const workers = 8
	const perWorker = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tr.Update(ctx, "u1", []Update{
					{Topic: "cube", IsCorrect: true},
					{Topic: "cone", IsCorrect: false},
				})
			}
		}(w)
	}
	wg.Wait()

	agg := tr.Load(ctx, "u1")
	require.Equal(t, workers*perWorker*2, agg.TotalQuestions)
	assert.Equal(t, workers*perWorker, agg.CorrectAnswers)
	assert.Equal(t, workers*perWorker, agg.TopicProgress["cube"].Total)
	assert.Equal(t, workers*perWorker*2, repo.data["u1"].TotalQuestions)
}

func TestTracker_Percentages(t *testing.T) {
	tr := newTestTracker(newMemRepo(), "u1")
	ctx := context.Background()

	tr.Report(ctx, []Update{
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: false},
		{Topic: "cone", IsCorrect: false},
	})

	assert.Equal(t, 67, tr.PercentageFor(ctx, "cube"))
	assert.Equal(t, 0, tr.PercentageFor(ctx, "cone"))
	assert.Equal(t, 0, tr.PercentageFor(ctx, "pyramid"))
	assert.Equal(t, 50, tr.OverallPercentage(ctx))
}

func TestTracker_LoadReturnsCopy(t *testing.T) {
	tr := newTestTracker(newMemRepo(), "u1")
	ctx := context.Background()
	tr.Update(ctx, "u1", []Update{{Topic: "cube", IsCorrect: true}})

	agg := tr.Load(ctx, "u1")
	agg.TopicProgress["cube"] = TopicProgress{Total: 99}

	assert.Equal(t, 1, tr.Load(ctx, "u1").TopicProgress["cube"].Total)
}
