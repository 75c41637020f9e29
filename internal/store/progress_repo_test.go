package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kubika/internal/progress"
)

func sampleAggregate(userID string) progress.Aggregate {
	now := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	return progress.Apply(progress.NewAggregate(userID, now), []progress.Update{
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: false},
		{Topic: "sphere", IsCorrect: true},
	}, now)
}

// repoContract exercises behavior every progress.Repository must share.
func repoContract(t *testing.T, repo interface {
	progress.Repository
	Delete(ctx context.Context, userID string) error
}) {
	ctx := context.Background()

	got, err := repo.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got, "absent user yields nil")

	want := sampleAggregate("budi")
	require.NoError(t, repo.Put(ctx, want))

	got, err = repo.Get(ctx, "budi")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.TotalQuestions, got.TotalQuestions)
	assert.Equal(t, want.AnsweredQuestions, got.AnsweredQuestions)
	assert.Equal(t, want.CorrectAnswers, got.CorrectAnswers)
	assert.Equal(t, want.TopicProgress, got.TopicProgress)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated), "last_updated %v != %v", got.LastUpdated, want.LastUpdated)

	// Put replaces.
	next := progress.Apply(want, []progress.Update{{Topic: "cone", IsCorrect: true}}, want.LastUpdated.Add(time.Hour))
	require.NoError(t, repo.Put(ctx, next))
	got, err = repo.Get(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Equal(t, 1, got.TopicProgress["cone"].Correct)

	// Users are independent.
	require.NoError(t, repo.Put(ctx, sampleAggregate("siti")))
	require.NoError(t, repo.Delete(ctx, "budi"))
	got, err = repo.Get(ctx, "budi")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = repo.Get(ctx, "siti")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Invalid aggregates are rejected.
	bad := sampleAggregate("eko")
	bad.CorrectAnswers = -1
	assert.Error(t, repo.Put(ctx, bad))
}

func TestProgressRepo(t *testing.T) {
	s := openTestStore(t)
	repoContract(t, s.ProgressRepo())
}

func TestProgressRepo_Users(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleAggregate("siti")))
	require.NoError(t, repo.Put(ctx, sampleAggregate("budi")))

	users, err := repo.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"budi", "siti"}, users)
}

func TestProgressRepo_WithTracker(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tr := progress.NewTracker(s.ProgressRepo(), nil)
	tr.Update(ctx, "budi", []progress.Update{{Topic: "prism", IsCorrect: true}})

	fresh := progress.NewTracker(s.ProgressRepo(), nil)
	agg := fresh.Load(ctx, "budi")
	assert.Equal(t, 1, agg.CorrectAnswers)
	assert.Equal(t, 100, agg.PercentageFor("prism"))
}

func TestFileProgressRepo(t *testing.T) {
	repo, err := NewFileProgressRepo(t.TempDir())
	require.NoError(t, err)
	repoContract(t, repo)
}

func TestFileProgressRepo_Users(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileProgressRepo(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleAggregate("sari")))
	require.NoError(t, repo.Put(ctx, sampleAggregate("budi")))
	require.NoError(t, repo.Put(ctx, sampleAggregate("a/b")))
	require.NoError(t, writeFile(dir+"/notes.txt", "ignored"))

	users, err := repo.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "budi", "sari"}, users)

	require.NoError(t, repo.Delete(ctx, "budi"))
	users, err = repo.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "sari"}, users)
}

func TestFileProgressRepo_Path(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileProgressRepo(dir)
	require.NoError(t, err)

	assert.Equal(t, dir+"/learning_progress_budi.json", repo.Path("budi"))
	assert.Equal(t, dir+"/learning_progress_..%2Fetc.json", repo.Path("../etc"), "user ids cannot escape the directory")
}

func TestFileProgressRepo_CorruptFile(t *testing.T) {
	repo, err := NewFileProgressRepo(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, writeFile(repo.Path("budi"), "{not json"))

	_, err = repo.Get(context.Background(), "budi")
	assert.Error(t, err)

	// The tracker treats the failure as empty progress.
	tr := progress.NewTracker(repo, nil)
	agg := tr.Load(context.Background(), "budi")
	assert.Zero(t, agg.TotalQuestions)
}
