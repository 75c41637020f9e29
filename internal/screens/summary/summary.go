package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/session"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// SummaryScreen shows the result of a finished session and offers to repeat
// it with the same filter.
type SummaryScreen struct {
	engine *session.Engine
	result *session.Result
	menu   components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates the result screen for engine's finished session.
func New(engine *session.Engine) *SummaryScreen {
	s := &SummaryScreen{engine: engine, result: engine.Result()}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Ulangi Latihan", Action: s.repeat},
		{Label: "Kembali ke Beranda", Action: home},
	})
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Hasil Latihan Soal"
}

// HandlesEscape makes Esc go home instead of back to the finished session.
func (s *SummaryScreen) HandlesEscape() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "OK"},
		{Key: "Esc", Description: "Beranda"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, home()
	case "u":
		return s, s.repeat()
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// repeat starts a new working set with the same filter and returns to the
// exercise screen.
func (s *SummaryScreen) repeat() tea.Cmd {
	if err := s.engine.Repeat(); err != nil {
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func home() tea.Cmd {
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var sections []string

	score := theme.Title.
		Foreground(gradeColor(res.Grade())).
		Render(fmt.Sprintf("Skor %d%%", res.Percentage))
	message := lipgloss.NewStyle().
		Width(cw - 4).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(res.Grade().Message())
	sections = append(sections, components.Card(
		lipgloss.NewStyle().Width(cw-4).Align(lipgloss.Center).Render(score)+"\n\n"+message, cw))

	stats := fmt.Sprintf("%s   %s   %s",
		theme.Correct.Render(fmt.Sprintf("Jawaban Benar %d", res.CorrectAnswers)),
		theme.Incorrect.Render(fmt.Sprintf("Jawaban Salah %d", res.WrongAnswers)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("dari %d soal", res.TotalQuestions)))
	sections = append(sections, components.StatBox(stats, cw))

	if res.Unanswered > 0 {
		sections = append(sections, theme.Hint.Render(
			fmt.Sprintf("%d soal tidak dijawab dan dihitung salah.", res.Unanswered)))
	}

	if breakdown := topicBreakdown(res); breakdown != "" {
		sections = append(sections, breakdown)
	}

	sections = append(sections, s.menu.View(cw, height < 24))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// topicBreakdown lists correct/answered per topic for answered questions.
func topicBreakdown(res *session.Result) string {
	type counts struct{ answered, correct int }
	byTopic := make(map[questionbank.Topic]*counts)
	for _, rec := range res.AnsweredQuestions {
		c, ok := byTopic[rec.Topic]
		if !ok {
			c = &counts{}
			byTopic[rec.Topic] = c
		}
		c.answered++
		if rec.IsCorrect {
			c.correct++
		}
	}
	if len(byTopic) < 2 {
		return ""
	}

	var lines []string
	for _, t := range questionbank.AllTopics() {
		c, ok := byTopic[t]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-10s %d/%d benar", t.DisplayName(), c.correct, c.answered))
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(lines, "\n"))
}

func gradeColor(g session.Grade) color.Color {
	switch g {
	case session.GradeExcellent:
		return theme.Success
	case session.GradeGood:
		return theme.Secondary
	case session.GradeFair:
		return theme.Accent
	default:
		return theme.Error
	}
}
