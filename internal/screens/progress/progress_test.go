package progress

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/screen"
)

func newTestDeps(user string) (screen.Deps, *progress.Tracker) {
	id := identity.NewStatic(user)
	tracker := progress.NewTracker(nil, id)
	return screen.Deps{Tracker: tracker, Identity: id}, tracker
}

func TestViewWithoutUserAsksForLogin(t *testing.T) {
	deps, _ := newTestDeps("")
	s := New(deps)

	if !strings.Contains(s.View(100, 30), "Silakan login") {
		t.Error("expected the login message without a user")
	}
}

func TestViewWithoutProgress(t *testing.T) {
	deps, _ := newTestDeps("sari")
	s := New(deps)

	view := s.View(100, 30)
	if !strings.Contains(view, "Belum ada progres belajar.") {
		t.Error("expected the empty-progress message")
	}
}

func TestViewShowsTopicBars(t *testing.T) {
	deps, tracker := newTestDeps("sari")
	tracker.Report(context.Background(), []progress.Update{
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: false},
		{Topic: "sphere", IsCorrect: true},
	})
	s := New(deps)

	view := s.View(100, 30)
	for _, want := range []string{"Progres Keseluruhan", "2/3 benar", "Kubus", "1/2", "Bola", "Belum ada data"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestResumeRefreshes(t *testing.T) {
	deps, tracker := newTestDeps("sari")
	s := New(deps)

	tracker.Report(context.Background(), []progress.Update{{Topic: "cone", IsCorrect: true}})
	s.Update(screen.ResumeMsg{})

	if s.agg.TotalQuestions != 1 {
		t.Errorf("expected refreshed aggregate, got %d questions", s.agg.TotalQuestions)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	deps, tracker := newTestDeps("sari")
	tracker.Report(context.Background(), []progress.Update{{Topic: "cube", IsCorrect: true}})
	s := New(deps)

	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if !s.confirming || !s.HandlesEscape() {
		t.Fatal("expected the reset dialog to open")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.confirming {
		t.Error("expected Esc to close the dialog")
	}
	if got := tracker.Current(context.Background()).TotalQuestions; got != 1 {
		t.Errorf("expected progress kept after cancel, got %d", got)
	}

	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if s.confirming {
		t.Error("expected the dialog to close after confirming")
	}
	if got := tracker.Current(context.Background()).TotalQuestions; got != 0 {
		t.Errorf("expected progress reset, got %d", got)
	}
}

func TestResetIgnoredWithoutUser(t *testing.T) {
	deps, _ := newTestDeps("")
	s := New(deps)

	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if s.confirming {
		t.Error("expected no reset dialog without a user")
	}
}
