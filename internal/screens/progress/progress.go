package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// ProgressScreen shows the signed-in user's learning progress per topic and
// lets them reset it.
type ProgressScreen struct {
	deps       screen.Deps
	agg        progress.Aggregate
	confirming bool
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)
var _ screen.EscapeHandler = (*ProgressScreen)(nil)

// New creates the progress screen and loads the current aggregate.
func New(deps screen.Deps) *ProgressScreen {
	s := &ProgressScreen{deps: deps}
	s.refresh()
	return s
}

func (s *ProgressScreen) refresh() {
	if s.deps.Tracker == nil {
		s.agg = progress.Aggregate{}
		return
	}
	s.agg = s.deps.Tracker.Current(context.Background())
}

func (s *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (s *ProgressScreen) Title() string {
	return "Progres Belajar"
}

// HandlesEscape keeps Esc inside the screen while the reset dialog is open.
func (s *ProgressScreen) HandlesEscape() bool {
	return s.confirming
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset"},
			{Key: "N", Description: "Batal"},
		}
	}
	return []layout.KeyHint{
		{Key: "R", Description: "Reset"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumeMsg:
		s.refresh()

	case tea.KeyPressMsg:
		if s.confirming {
			switch msg.String() {
			case "y", "enter":
				if s.deps.Tracker != nil {
					s.agg = s.deps.Tracker.ResetCurrent(context.Background())
				}
				s.confirming = false
			case "n", "esc":
				s.confirming = false
			}
			return s, nil
		}
		if msg.String() == "r" && s.agg.UserID != "" {
			s.confirming = true
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	if s.agg.UserID == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			dim.Render("Silakan login untuk melacak progres belajar Anda."))
	}
	if s.confirming {
		body := lipgloss.NewStyle().Foreground(theme.Text).Render(
			fmt.Sprintf("Hapus semua progres belajar %s?", s.agg.UserID)) +
			"\n\n" + theme.Selected.Render("[Y] Ya, reset") + "    " + theme.Unselected.Render("[N] Batal")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(body, cw))
	}
	if s.agg.TotalQuestions == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Body.Render("Belum ada progres belajar.")+"\n"+
				dim.Render("Mulai mengerjakan latihan untuk melihat progres Anda!"))
	}

	var sections []string
	sections = append(sections, theme.Selected.Render("Progres Keseluruhan"))
	sections = append(sections, components.ProgressBar{
		Percent: s.agg.OverallPercentage(),
		Detail:  fmt.Sprintf("%d/%d benar", s.agg.CorrectAnswers, s.agg.TotalQuestions),
		Width:   cw,
	}.View())

	sections = append(sections, theme.Selected.Render("Progres per Materi Ruang"))
	sections = append(sections, topicBars(s.agg, cw))

	if !s.agg.LastUpdated.IsZero() {
		sections = append(sections, dim.Render(
			"Terakhir diperbarui "+s.agg.LastUpdated.Local().Format("02 Jan 2006 15:04")))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(content))
}

// topicBars renders one bar per topic in display order. Topics never
// practiced show "Belum ada data".
func topicBars(agg progress.Aggregate, cw int) string {
	var rows []string
	for _, t := range questionbank.AllTopics() {
		tp, ok := agg.TopicProgress[string(t)]
		detail := "Belum ada data"
		if ok && tp.Total > 0 {
			detail = fmt.Sprintf("%d/%d", tp.Correct, tp.Total)
		}
		rows = append(rows, components.ProgressBar{
			Label:      t.DisplayName(),
			LabelWidth: 8,
			Percent:    tp.Percentage(),
			Detail:     fmt.Sprintf("%-14s", detail),
			Width:      cw,
		}.View())
	}
	return strings.Join(rows, "\n")
}
