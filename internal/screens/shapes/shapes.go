package shapes

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kubika/internal/geometry"
	"github.com/abhisek/kubika/internal/router"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/layout"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// ShapesScreen lists the solids and opens a calculator for the chosen one.
type ShapesScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*ShapesScreen)(nil)
var _ screen.KeyHintProvider = (*ShapesScreen)(nil)

// New creates the shape list.
func New() *ShapesScreen {
	var items []components.MenuItem
	for _, s := range geometry.Shapes() {
		items = append(items, components.MenuItem{
			Label: s.Name(),
			Action: func() tea.Cmd {
				next := NewCalculator(s)
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: next}
				}
			},
		})
	}
	return &ShapesScreen{menu: components.NewMenu(items)}
}

func (s *ShapesScreen) Init() tea.Cmd {
	return nil
}

func (s *ShapesScreen) Title() string {
	return "Materi Bangun Ruang"
}

func (s *ShapesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Buka"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *ShapesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ShapesScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{
		theme.Subtitle.Width(cw).Render("Pilih bangun ruang untuk melihat rumus dan menghitungnya."),
		s.menu.View(cw, compact),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
