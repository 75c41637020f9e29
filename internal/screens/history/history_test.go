package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/store"
)

type fakeSource struct {
	sessions []store.SessionSummaryRecord
	stats    []store.TopicAnswerStats
	err      error
	gotUser  string
	gotLimit int
}

func (f *fakeSource) SessionHistory(_ context.Context, userID string, opts store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	f.gotUser = userID
	f.gotLimit = opts.Limit
	return f.sessions, f.err
}

func (f *fakeSource) AnswerStats(context.Context, string) ([]store.TopicAnswerStats, error) {
	return f.stats, nil
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a load command")
	}
	s.Update(cmd())
}

func TestLoadsUserHistory(t *testing.T) {
	src := &fakeSource{
		sessions: []store.SessionSummaryRecord{{
			Timestamp:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Topic:          "cube",
			Difficulty:     "all",
			TotalQuestions: 4,
			CorrectAnswers: 3,
			Unanswered:     1,
			DurationSecs:   125,
		}},
		stats: []store.TopicAnswerStats{{Topic: "cube", Answered: 4, Correct: 3}},
	}
	s := New(src, "budi")
	load(t, s)

	if src.gotUser != "budi" || src.gotLimit != historyLimit {
		t.Errorf("unexpected query user=%q limit=%d", src.gotUser, src.gotLimit)
	}

	view := s.View(100, 30)
	for _, want := range []string{"2:05", "3/4 benar", "75%", "Kubus 3/4"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
	if strings.Contains(view, "Materi:") {
		t.Error("expected details hidden before Enter")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(100, 30)
	if !strings.Contains(view, "Materi: Kubus") || !strings.Contains(view, "Tingkat: Semua Tingkat") {
		t.Errorf("expected expanded details, got %q", view)
	}
}

func TestEmptyHistory(t *testing.T) {
	s := New(&fakeSource{}, "budi")

	if !strings.Contains(s.View(100, 30), "Memuat riwayat") {
		t.Error("expected a loading message before data arrives")
	}
	load(t, s)
	if !strings.Contains(s.View(100, 30), "Belum ada latihan yang selesai") {
		t.Error("expected the empty-history message")
	}
}

func TestLoadError(t *testing.T) {
	s := New(&fakeSource{err: errors.New("disk full")}, "budi")
	load(t, s)

	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("expected the load error in the view")
	}
}
