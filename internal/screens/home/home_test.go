package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	progressscreen "github.com/abhisek/kubika/internal/screens/progress"
	sessionscreen "github.com/abhisek/kubika/internal/screens/session"
	"github.com/abhisek/kubika/internal/screens/shapes"
	"github.com/abhisek/kubika/internal/screens/welcome"
)

func newTestDeps(t *testing.T) (screen.Deps, *progress.Tracker) {
	t.Helper()
	bank, err := questionbank.Default()
	if err != nil {
		t.Fatalf("Default bank: %v", err)
	}
	id := identity.NewStatic("Rina")
	tracker := progress.NewTracker(nil, id)
	return screen.Deps{Bank: bank, Tracker: tracker, Identity: id}, tracker
}

func down(h *HomeScreen, n int) {
	for i := 0; i < n; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
}

func enter(h *HomeScreen) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestMenuStartsExercise(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*sessionscreen.SessionScreen); !ok {
		t.Errorf("expected session screen, got %T", msg.Screen)
	}
}

func TestMenuOpensProgress(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	down(h, 1)
	msg, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*progressscreen.ProgressScreen); !ok {
		t.Errorf("expected progress screen, got %T", msg.Screen)
	}
}

func TestMenuOpensShapes(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	down(h, 2)
	msg, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*shapes.ShapesScreen); !ok {
		t.Errorf("expected shapes screen, got %T", msg.Screen)
	}
}

func TestHistoryDisabledWithoutSource(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	// History is skipped, so three steps down lands on switch user.
	down(h, 3)
	if got := h.menu.Items[h.menu.Selected].Label; got != labelSwitch {
		t.Errorf("expected %q selected, got %q", labelSwitch, got)
	}
}

func TestSwitchUserSignsOut(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	down(h, 3)
	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome screen, got %T", msg.Screen)
	}
	if _, ok := deps.Identity.CurrentUser(); ok {
		t.Error("expected the user to be signed out")
	}
}

func TestResumeRefreshesStats(t *testing.T) {
	deps, tracker := newTestDeps(t)
	h := New(deps)

	tracker.Report(context.Background(), []progress.Update{
		{Topic: "cube", IsCorrect: true},
		{Topic: "cube", IsCorrect: false},
	})
	h.Update(screen.ResumeMsg{})

	if h.overall != 50 || h.answered != 2 {
		t.Errorf("expected 50%% over 2 answers, got %d%% over %d", h.overall, h.answered)
	}
}

func TestViewGreetsUser(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := New(deps)

	view := h.View(120, 40)
	if !strings.Contains(view, "Halo, rina!") {
		t.Error("expected a greeting for the signed-in user")
	}
	if !strings.Contains(view, labelExercise) {
		t.Error("expected the menu in the view")
	}
}

func TestViewWarnsOnEmptyBank(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Bank = questionbank.Empty()
	h := New(deps)

	if !strings.Contains(h.View(120, 40), "Belum ada soal tersedia") {
		t.Error("expected the empty-bank warning")
	}
}
