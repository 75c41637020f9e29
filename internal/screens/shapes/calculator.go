package shapes

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/geometry"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

const inputWidth = 12

// CalculatorScreen shows a shape's formulas and recomputes its measurements
// as the learner edits the dimensions.
type CalculatorScreen struct {
	shape   geometry.Shape
	inputs  []components.TextInput
	focused int
	results []geometry.Quantity
}

var _ screen.Screen = (*CalculatorScreen)(nil)
var _ screen.KeyHintProvider = (*CalculatorScreen)(nil)

// NewCalculator creates a calculator prefilled with the shape's example
// dimensions.
func NewCalculator(shape geometry.Shape) *CalculatorScreen {
	c := &CalculatorScreen{shape: shape}
	for i, p := range shape.Params {
		in := components.NewTextInput(p.Symbol, inputWidth)
		in.Model.SetValue(strconv.FormatFloat(p.Default, 'f', -1, 64))
		if i > 0 {
			in.Model.Blur()
		}
		c.inputs = append(c.inputs, in)
	}
	c.recalculate()
	return c
}

func (c *CalculatorScreen) Init() tea.Cmd {
	if len(c.inputs) == 0 {
		return nil
	}
	return c.inputs[0].Init()
}

func (c *CalculatorScreen) Title() string {
	return "Materi " + c.shape.Name()
}

func (c *CalculatorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Pindah isian"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (c *CalculatorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.inputs) == 0 {
		return c, nil
	}

	switch kmsg.String() {
	case "tab", "down", "enter":
		return c, c.focus(c.focused + 1)
	case "shift+tab", "up":
		return c, c.focus(c.focused - 1)
	}

	var cmd tea.Cmd
	c.inputs[c.focused], cmd = c.inputs[c.focused].Update(msg)
	c.recalculate()
	return c, cmd
}

func (c *CalculatorScreen) focus(i int) tea.Cmd {
	n := len(c.inputs)
	i = (i%n + n) % n
	c.inputs[c.focused].Model.Blur()
	c.focused = i
	return c.inputs[i].Model.Focus()
}

// recalculate parses every input and refreshes the results. A field that
// does not hold a positive number gets an error and the results are cleared.
func (c *CalculatorScreen) recalculate() {
	dims := make(geometry.Dimensions, len(c.inputs))
	valid := true
	for i, p := range c.shape.Params {
		v, err := parseDimension(c.inputs[i].Value())
		if err != nil {
			c.inputs[i].SetError(p.Label + " harus angka lebih dari 0.")
			valid = false
			continue
		}
		dims[p.Key] = v
	}
	if !valid {
		c.results = nil
		return
	}
	results, err := c.shape.Calculate(dims)
	if err != nil {
		c.results = nil
		return
	}
	c.results = results
}

// parseDimension accepts a decimal comma as well as a point.
func parseDimension(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("dimension %v is not positive", v)
	}
	return v, nil
}

func (c *CalculatorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var formulas []string
	for _, f := range c.shape.Formulas {
		formulas = append(formulas, theme.Body.Render(f.Name)+"  "+dim.Render(f.Expression))
	}

	var fields []string
	for i, p := range c.shape.Params {
		label := fmt.Sprintf("%s (%s, cm)", p.Label, p.Symbol)
		if i == c.focused {
			label = theme.Selected.Render(label)
		} else {
			label = theme.Unselected.Render(label)
		}
		fields = append(fields, label+"\n"+c.inputs[i].View())
	}

	var results []string
	if len(c.results) == 0 {
		results = append(results, theme.Hint.Render("Isi semua ukuran untuk melihat hasil."))
	}
	for _, q := range c.results {
		results = append(results, fmt.Sprintf("%-26s %s", q.Name, theme.Correct.Render(q.Format())))
	}

	sections := []string{
		theme.Selected.Render("Rumus"),
		strings.Join(formulas, "\n"),
		theme.Selected.Render("Ukuran"),
		strings.Join(fields, "\n"),
		theme.Selected.Render("Hasil"),
		strings.Join(results, "\n"),
	}
	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
