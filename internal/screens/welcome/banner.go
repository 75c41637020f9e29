package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/ui/theme"
)

const bannerArt = `
 ██╗  ██╗██╗   ██╗██████╗ ██╗██╗  ██╗ █████╗
 ██║ ██╔╝██║   ██║██╔══██╗██║██║ ██╔╝██╔══██╗
 █████╔╝ ██║   ██║██████╔╝██║█████╔╝ ███████║
 ██╔═██╗ ██║   ██║██╔══██╗██║██╔═██╗ ██╔══██║
 ██║  ██╗╚██████╔╝██████╔╝██║██║  ██╗██║  ██║
 ╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝`

const bannerCompact = "K U B I K A"

// RenderBanner returns the KUBIKA banner styled in the accent color.
// Uses a compact fallback for terminals narrower than 50 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	if width < 50 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
