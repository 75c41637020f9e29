package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/questionbank"
	sess "github.com/abhisek/kubika/internal/session"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/theme"
)

const (
	noQuestionsText  = "Belum ada soal tersedia."
	noMatchText      = "Tidak ada soal yang sesuai dengan filter yang dipilih."
	confirmFinishMsg = "Anda belum menjawab semua soal. Yakin ingin menyelesaikan latihan?"
)

func (s *SessionScreen) View(width, height int) string {
	switch s.mode {
	case modeConfirm:
		return s.renderConfirm(width, height)
	case modeQuestion:
		return s.renderQuestion(width, height)
	}
	return s.renderList(width, height)
}

func (s *SessionScreen) renderList(width, height int) string {
	cw := components.ContentWidth(width)
	ws := s.engine.WorkingSet()

	var sections []string

	filters := s.topics.View() + "\n" + s.difficulties.View()
	sections = append(sections, components.Card(
		theme.Selected.Render("Filter Soal")+"\n"+filters, cw))

	answered := s.engine.AnsweredCount()
	pct := 0
	if len(ws) > 0 {
		pct = answered * 100 / len(ws)
	}
	sections = append(sections, components.ProgressBar{
		Label:   fmt.Sprintf("Soal Latihan (%d/%d dijawab)", answered, len(ws)),
		Percent: pct,
		Width:   cw,
	}.View())

	switch {
	case s.deps.Bank == nil || s.deps.Bank.Len() == 0:
		sections = append(sections, theme.Hint.Render(noQuestionsText))
	case len(ws) == 0:
		sections = append(sections, theme.Hint.Render(noMatchText))
	default:
		// Card (4) + bar (1) + gaps and notice (4).
		rows := height - 9 - strings.Count(filters, "\n")
		sections = append(sections, s.renderRows(ws, cw, rows))
	}

	if s.engine.Phase() == sess.PhaseFinished {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("Latihan selesai. Tekan Enter untuk melihat hasil."))
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.notice))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(content))
}

// renderRows lists the working set, scrolled so the cursor stays visible.
func (s *SessionScreen) renderRows(ws []questionbank.Question, cw, rows int) string {
	if rows < 3 {
		rows = 3
	}
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(ws))

	var lines []string
	for i := start; i < end; i++ {
		q := ws[i]
		status := lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
		if rec, ok := s.engine.Answer(q.ID); ok {
			if rec.IsCorrect {
				status = theme.Correct.Render("✓ Benar")
			} else {
				status = theme.Incorrect.Render("✗ Salah")
			}
		}

		prefix := "  "
		style := theme.Unselected
		if i == s.cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		tag := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("[%s · %s]", q.Topic.DisplayName(), q.Difficulty.DisplayName()))

		head := style.Render(fmt.Sprintf("%sSoal %d", prefix, i+1))
		tail := "  " + tag + "  " + status
		textWidth := cw - lipgloss.Width(head) - lipgloss.Width(tail) - 2
		text := ""
		if textWidth > 3 {
			text = "  " + lipgloss.NewStyle().MaxWidth(textWidth).Render(firstLine(q.Text))
		}
		lines = append(lines, head+text+tail)
	}
	if end < len(ws) {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("  … %d soal lagi", len(ws)-end)))
	}
	return strings.Join(lines, "\n")
}

func (s *SessionScreen) renderQuestion(width, height int) string {
	q, ok := s.currentQuestion()
	if !ok {
		return ""
	}
	cw := components.ContentWidth(width)
	total := len(s.engine.WorkingSet())

	var sections []string
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Soal %d dari %d · %s · %s",
			s.cursor+1, total, q.Topic.DisplayName(), q.Difficulty.DisplayName())))
	sections = append(sections, lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(q.Text))
	sections = append(sections, s.picker.View())

	if rec, answered := s.engine.Answer(q.ID); answered {
		var feedback string
		if rec.IsCorrect {
			feedback = theme.Correct.Render("Benar!")
		} else {
			correct := q.CorrectOption()
			feedback = theme.Incorrect.Render("Salah") + "  " +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("Jawaban benar: "+correct.Text)
		}
		sections = append(sections, feedback)
		if q.Explanation != "" {
			sections = append(sections, components.Card(
				theme.Selected.Render("Pembahasan")+"\n"+
					lipgloss.NewStyle().Width(cw-4).Render(q.Explanation), cw))
		}
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n")))
}

func (s *SessionScreen) renderConfirm(width, height int) string {
	cw := components.ContentWidth(width)
	body := lipgloss.NewStyle().Width(cw-4).Foreground(theme.Text).Render(confirmFinishMsg) +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d soal belum dijawab akan dihitung salah.", s.engine.UnansweredCount())) +
		"\n\n" +
		theme.Selected.Render("[Y] Ya, selesai") + "    " + theme.Unselected.Render("[N] Lanjutkan")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(body, cw))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
