package components

import (
	tea "charm.land/bubbletea/v2"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, item := range m.Items {
		labels[i] = item.Label
	}
	return labels
}

// View renders the menu as buttons at content width cw.
func (m Menu) View(cw int, compact bool) string {
	return Buttons(m.Labels(), m.Selected, cw, compact)
}

// Selector is a horizontal one-of-many picker, used for filters.
type Selector struct {
	Label    string
	Choices  []string
	Selected int
}

// Next moves the selection right, wrapping around.
func (s Selector) Next() Selector {
	if len(s.Choices) > 0 {
		s.Selected = (s.Selected + 1) % len(s.Choices)
	}
	return s
}

// Prev moves the selection left, wrapping around.
func (s Selector) Prev() Selector {
	if len(s.Choices) > 0 {
		s.Selected = (s.Selected - 1 + len(s.Choices)) % len(s.Choices)
	}
	return s
}

// Current returns the selected choice label.
func (s Selector) Current() string {
	if s.Selected < 0 || s.Selected >= len(s.Choices) {
		return ""
	}
	return s.Choices[s.Selected]
}

// View renders "Label: ◂ choice ▸".
func (s Selector) View() string {
	return s.Label + ": ◂ " + s.Current() + " ▸"
}
