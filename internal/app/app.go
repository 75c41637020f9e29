package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/screens/home"
	"github.com/abhisek/kubika/internal/screens/welcome"
	"github.com/abhisek/kubika/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screen.Deps
	router *router.Router
	status layout.HeaderStatus
	width  int
	height int
}

// newAppModel starts on the welcome screen when nobody is signed in and on
// the home screen otherwise.
func newAppModel(deps screen.Deps) AppModel {
	homeFactory := func() screen.Screen { return home.New(deps) }

	var first screen.Screen
	if deps.CurrentUser() == "" && deps.Identity != nil {
		first = welcome.New(deps.Identity, homeFactory)
	} else {
		first = homeFactory()
	}

	m := AppModel{
		deps:   deps,
		router: router.New(first),
	}
	m.status = m.headerStatus()
	return m
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	m.status = m.headerStatus()
	return m, cmd
}

// headerStatus reads the signed-in user and their overall score.
func (m AppModel) headerStatus() layout.HeaderStatus {
	status := layout.HeaderStatus{User: m.deps.CurrentUser()}
	if status.User != "" && m.deps.Tracker != nil {
		status.Overall = m.deps.Tracker.OverallPercentage(context.Background())
	}
	return status
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// footerHints prefers the screen's own hints.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Kembali"},
			{Key: "Ctrl+C", Description: "Keluar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Buka"},
		{Key: "Ctrl+C", Description: "Keluar"},
	}
}

// Run starts the Bubble Tea program.
func Run(deps screen.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
