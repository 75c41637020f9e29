package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/screens/history"
	progressscreen "github.com/abhisek/kubika/internal/screens/progress"
	sessionscreen "github.com/abhisek/kubika/internal/screens/session"
	"github.com/abhisek/kubika/internal/screens/shapes"
	"github.com/abhisek/kubika/internal/screens/welcome"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// Menu labels, in display order.
const (
	labelExercise = "Latihan Soal"
	labelProgress = "Progres Belajar"
	labelShapes   = "Materi Bangun Ruang"
	labelHistory  = "Riwayat Latihan"
	labelSwitch   = "Ganti Pengguna"
	labelQuit     = "Keluar"
)

// HomeScreen is the main menu shown after sign-in.
type HomeScreen struct {
	deps     screen.Deps
	menu     components.Menu
	overall  int
	answered int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		{Label: labelExercise, Action: func() tea.Cmd {
			return push(sessionscreen.New(deps))
		}},
		{Label: labelProgress, Action: func() tea.Cmd {
			return push(progressscreen.New(deps))
		}},
		{Label: labelShapes, Action: func() tea.Cmd {
			return push(shapes.New())
		}},
		{Label: labelHistory, Disabled: deps.History == nil, Action: func() tea.Cmd {
			return push(history.New(deps.History, deps.CurrentUser()))
		}},
		{Label: labelSwitch, Disabled: deps.Identity == nil, Action: h.switchUser},
		{Label: labelQuit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// switchUser signs out and hands over to the welcome screen, which builds a
// fresh home screen for the next learner.
func (h *HomeScreen) switchUser() tea.Cmd {
	deps := h.deps
	deps.Identity.SignOut()
	next := welcome.New(deps.Identity, func() screen.Screen { return New(deps) })
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// refresh reloads the progress figures shown in the stats bar.
func (h *HomeScreen) refresh() {
	if h.deps.Tracker == nil {
		return
	}
	agg := h.deps.Tracker.Current(context.Background())
	h.overall = agg.OverallPercentage()
	h.answered = agg.AnsweredQuestions
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Beranda"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Buka"},
		{Key: "Ctrl+C", Description: "Keluar"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.ResumeMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if user := h.deps.CurrentUser(); user != "" {
		sections = append(sections, theme.Subtitle.
			Width(cw).
			Render("Halo, "+user+"! Siap berlatih?"))
	}

	bankSize := 0
	if h.deps.Bank != nil {
		bankSize = h.deps.Bank.Len()
	}
	sections = append(sections, renderStatsBar(h.overall, h.answered, bankSize, cw, compact))
	if bankSize == 0 {
		sections = append(sections, renderBankWarning(cw))
	}

	sections = append(sections, h.menu.View(cw, compact))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
