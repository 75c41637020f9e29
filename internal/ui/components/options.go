package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// OptionPicker lets the learner pick one option of a question. Once an
// answer is known it shows the chosen and the correct option.
type OptionPicker struct {
	Options  []questionbank.Option
	Selected int
	Chosen   string
}

// NewOptionPicker creates a picker over options. chosen is the id of an
// already submitted option, or empty.
func NewOptionPicker(options []questionbank.Option, chosen string) OptionPicker {
	return OptionPicker{Options: options, Chosen: chosen}
}

// Answered reports whether an option has been submitted.
func (p OptionPicker) Answered() bool {
	return p.Chosen != ""
}

// Current returns the highlighted option.
func (p OptionPicker) Current() (questionbank.Option, bool) {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return questionbank.Option{}, false
	}
	return p.Options[p.Selected], true
}

// Update moves the highlight. Letter keys jump to the matching option.
// Selection is read by the caller on Enter.
func (p OptionPicker) Update(msg tea.Msg) OptionPicker {
	if p.Answered() {
		return p
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	default:
		if len(key) == 1 {
			idx := int(strings.ToLower(key)[0]) - 'a'
			if idx >= 0 && idx < len(p.Options) {
				p.Selected = idx
			}
		}
	}
	return p
}

// View renders the options labelled A, B, C...
func (p OptionPicker) View() string {
	var lines []string
	for i, opt := range p.Options {
		prefix := "  "
		if i == p.Selected && !p.Answered() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt.Text)

		var style lipgloss.Style
		switch {
		case p.Answered() && opt.IsCorrect:
			style = theme.Correct
			line += "  ✓"
		case p.Answered() && opt.ID == p.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case p.Answered():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == p.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
