package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kubika/internal/ui/components"
	"github.com/abhisek/kubika/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const titleFull = ` ██╗  ██╗██╗   ██╗██████╗ ██╗██╗  ██╗ █████╗
 ██║ ██╔╝██║   ██║██╔══██╗██║██║ ██╔╝██╔══██╗
 █████╔╝ ██║   ██║██████╔╝██║█████╔╝ ███████║
 ██╔═██╗ ██║   ██║██╔══██╗██║██╔═██╗ ██╔══██║
 ██║  ██╗╚██████╔╝██████╔╝██║██║  ██╗██║  ██║
 ╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝`

const titleCompact = "K · U · B · I · K · A"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar shows the overall score, answered count and bank size.
func renderStatsBar(overall, answered, bankSize, cw int, compact bool) string {
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	answeredStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	bankStyle := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			scoreStyle.Render(fmt.Sprintf("★%d%%", overall)),
			answeredStyle.Render(fmt.Sprintf("✎%d", answered)),
			bankStyle.Render(fmt.Sprintf("▣%d", bankSize)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			scoreStyle.Render(fmt.Sprintf("★ %d%% BENAR", overall)),
			answeredStyle.Render(fmt.Sprintf("✎ %d DIJAWAB", answered)),
			bankStyle.Render(fmt.Sprintf("▣ %d SOAL", bankSize)),
		)
	}
	return components.StatBox(stats, cw)
}

// renderBankWarning is shown when the question bank failed to load or is
// empty.
func renderBankWarning(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Belum ada soal tersedia (lihat kubika bank --help)")
}
