package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/linkview/internal/permission"
)

const linkGlyph = "🔗"

func (a *App) refreshLinks() {
	a.links = a.deps.Links.Links()
	a.visible = a.deps.Links.Filter(a.filter.Value())
	if a.cursor >= len(a.visible) {
		a.cursor = max(0, len(a.visible)-1)
	}
	a.clampOffset()
}

func (a *App) showSettingsButton() bool {
	return a.permStatus != permission.Granted
}

func (a *App) handleListKey(m tea.KeyMsg) tea.Cmd {
	switch a.focus {
	case focusInput:
		return a.handleInputKey(m)
	case focusFilter:
		return a.handleFilterKey(m)
	}

	switch {
	case key.Matches(m, a.keys.QuitList):
		return tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
			a.clampOffset()
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.visible)-1 {
			a.cursor++
			a.clampOffset()
		}
	case key.Matches(m, a.keys.Select):
		// selecting a row fills the input, it does not open the page
		if link, ok := a.selectedLink(); ok {
			a.input.SetValue(link)
			a.input.CursorEnd()
			return a.focusInput()
		}
	case key.Matches(m, a.keys.Delete):
		if len(a.visible) == 0 {
			return nil
		}
		pos := a.visible[a.cursor]
		err := a.deps.Links.Delete(a.ctx, pos)
		a.refreshLinks()
		if err != nil {
			return func() tea.Msg { return errMsg{err} }
		}
	case key.Matches(m, a.keys.Filter):
		a.focus = focusFilter
		return a.filter.Focus()
	case key.Matches(m, a.keys.Focus):
		return a.focusInput()
	case key.Matches(m, a.keys.Settings):
		if a.showSettingsButton() {
			a.modal = modalSettings
		}
	case key.Matches(m, a.keys.Reopen):
		a.presenter.Reopen()
	}
	return nil
}

func (a *App) focusInput() tea.Cmd {
	a.focus = focusInput
	a.filter.Blur()
	return a.input.Focus()
}

func (a *App) focusList() {
	a.focus = focusList
	a.input.Blur()
	a.filter.Blur()
}

func (a *App) handleInputKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Go):
		a.goTo(a.input.Value())
		return nil
	case key.Matches(m, a.keys.Add):
		return a.addLink()
	case key.Matches(m, a.keys.Back):
		a.focusList()
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return cmd
}

func (a *App) handleFilterKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Confirm):
		a.focusList()
		return nil
	case key.Matches(m, a.keys.Back):
		a.filter.SetValue("")
		a.focusList()
		a.refreshLinks()
		return nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(m)
	a.cursor = 0
	a.refreshLinks()
	return cmd
}

// updateInputs forwards non-key messages (cursor blink) to the focused input.
func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusInput:
		a.input, cmd = a.input.Update(msg)
	case focusFilter:
		a.filter, cmd = a.filter.Update(msg)
	}
	return cmd
}

func (a *App) addLink() tea.Cmd {
	link := a.input.Value()
	if link == "" {
		return nil
	}
	err := a.deps.Links.Add(a.ctx, link)
	a.refreshLinks()
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	a.input.SetValue("")
	return func() tea.Msg { return statusMsg("link saved") }
}

// goTo presents raw in the page view; unparseable input is ignored.
func (a *App) goTo(raw string) {
	if a.presenter.Go(raw) {
		a.focusList()
	}
}

func (a *App) selectedLink() (string, bool) {
	if len(a.visible) == 0 || a.cursor >= len(a.visible) {
		return "", false
	}
	return a.links[a.visible[a.cursor]], true
}

func (a *App) listRows() int {
	// title, blank, input bar (3), help, status
	rows := a.height - 7
	if a.showSettingsButton() {
		rows--
	}
	if a.focus == focusFilter || a.filter.Value() != "" {
		rows--
	}
	return max(1, rows)
}

func (a *App) clampOffset() {
	visible := a.listRows()
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+visible {
		a.offset = a.cursor - visible + 1
	}
	if a.offset < 0 {
		a.offset = 0
	}
}

func (a *App) renderList() string {
	var b strings.Builder
	title := titleStyle.Render(a.opts.Title)
	count := dimStyle.Render(fmt.Sprintf("  %d links", len(a.links)))
	b.WriteString(title + count + "\n\n")

	if a.focus == focusFilter || a.filter.Value() != "" {
		b.WriteString(a.filter.View() + "\n")
	}

	rows := a.listRows()
	end := min(len(a.visible), a.offset+rows)
	for i := a.offset; i < end; i++ {
		b.WriteString(a.renderRow(a.links[a.visible[i]], i == a.cursor && a.focus == focusList) + "\n")
	}
	if len(a.visible) == 0 {
		b.WriteString(dimStyle.Render("  no links") + "\n")
		end++
	}
	for i := end - a.offset; i < rows; i++ {
		b.WriteString("\n")
	}

	if a.showSettingsButton() {
		b.WriteString("  " + buttonStyle.Render("Turn on location service") + dimStyle.Render("  (L)") + "\n")
	}
	b.WriteString(a.renderInputBar())
	return b.String()
}

func (a *App) renderRow(link string, selected bool) string {
	width := max(10, a.width-4)
	text := ansi.Truncate(link, width, "…")
	if selected {
		row := selectedStyle.Render(" " + linkGlyph + " " + text)
		return lipgloss.PlaceHorizontal(a.width, lipgloss.Left, row)
	}
	return " " + linkGlyphStyle.Render(linkGlyph) + " " + text
}

func (a *App) renderInputBar() string {
	style := inputBarStyle
	if a.focus == focusInput {
		style = focusedInputBarStyle
	}
	field := style.Width(max(12, a.width-14)).Render(a.input.View())
	buttons := lipgloss.JoinVertical(lipgloss.Left,
		"",
		addButtonStyle.Render("+")+" "+goButtonStyle.Render("Go"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, field, " ", buttons)
}
