package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter draws popup in a bordered card centred over base.
func overlayCenter(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := fitLines(base, width, height)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(1, 2).
		Render(popup)
	cardLines := strings.Split(card, "\n")
	cardWidth := 0
	for _, l := range cardLines {
		cardWidth = max(cardWidth, ansi.StringWidth(l))
	}
	x := max(0, (width-cardWidth)/2)
	y := max(0, (height-len(cardLines))/2)

	for i, line := range cardLines {
		row := y + i
		if row >= len(canvas) {
			break
		}
		target := canvas[row]
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		line = padANSI(line, cardWidth)
		right := strings.TrimPrefix(target, ansi.Truncate(target, x+cardWidth, ""))
		canvas[row] = padANSI(left+line+right, width)
	}
	return strings.Join(canvas, "\n")
}

func fitLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padANSI(lines[i], width)
	}
	return lines
}

func padANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
