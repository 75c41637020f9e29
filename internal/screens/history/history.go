package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/store"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Stats    []store.TopicAnswerStats
	Err      error
}

// HistoryScreen lists the signed-in user's finished sessions.
type HistoryScreen struct {
	source   screen.HistorySource
	userID   string
	sessions []store.SessionSummaryRecord
	stats    []store.TopicAnswerStats
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for userID.
func New(source screen.HistorySource, userID string) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		userID:   userID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source, userID := s.source, s.userID
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := source.SessionHistory(ctx, userID, store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := source.AnswerStats(ctx, userID)
		if err != nil {
			return historyLoadedMsg{Sessions: sessions}
		}
		return historyLoadedMsg{Sessions: sessions, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "Riwayat Latihan"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Detail"},
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nGagal memuat riwayat: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Memuat riwayat...")
	}
	if len(s.sessions) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Belum ada latihan yang selesai. Ayo mulai berlatih!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.stats) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Info).Render(statsLine(s.stats))))
		b.WriteString("\n\n")
	}

	for i, sess := range s.sessions {
		dateStr := sess.Timestamp.Local().Format("02 Jan 2006 15:04")
		durationStr := fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60)

		pct := 0
		if sess.TotalQuestions > 0 {
			pct = sess.CorrectAnswers * 100 / sess.TotalQuestions
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %d/%d benar  %d%%",
			prefix, dateStr, durationStr, sess.CorrectAnswers, sess.TotalQuestions, pct)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Accent).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    Materi: %s  Tingkat: %s  Tidak dijawab: %d",
				topicLabel(sess.Topic), difficultyLabel(sess.Difficulty), sess.Unanswered)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// statsLine summarizes logged answers per topic.
func statsLine(stats []store.TopicAnswerStats) string {
	parts := make([]string, 0, len(stats))
	for _, st := range stats {
		parts = append(parts, fmt.Sprintf("%s %d/%d", topicLabel(st.Topic), st.Correct, st.Answered))
	}
	return strings.Join(parts, "  ·  ")
}

func topicLabel(topic string) string {
	if topic == "" || topic == questionbank.All {
		return "Semua Bangun"
	}
	return questionbank.Topic(topic).DisplayName()
}

func difficultyLabel(difficulty string) string {
	if difficulty == "" || difficulty == questionbank.All {
		return "Semua Tingkat"
	}
	return questionbank.Difficulty(difficulty).DisplayName()
}
