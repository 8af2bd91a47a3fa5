package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/linkview/internal/permission"
	"github.com/jask/linkview/internal/presenter"
)

func (a *App) handleMenuKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Up):
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.menuCursor < len(presenter.Actions)-1 {
			a.menuCursor++
		}
	case key.Matches(m, a.keys.Confirm):
		a.choose(presenter.Actions[a.menuCursor])
	case key.Matches(m, a.keys.Hide):
		a.choose(presenter.Hide)
	case key.Matches(m, a.keys.Refresh):
		a.choose(presenter.Refresh)
	case key.Matches(m, a.keys.Clear):
		a.choose(presenter.ClearCacheAndClose)
	case key.Matches(m, a.keys.Cancel):
		a.choose(presenter.Cancel)
	}
	return nil
}

func (a *App) choose(act presenter.Action) {
	a.presenter.Choose(act)
	a.menuCursor = 0
}

func (a *App) handleModalKey(m tea.KeyMsg) tea.Cmd {
	switch a.modal {
	case modalPermission:
		switch {
		case key.Matches(m, a.keys.Allow):
			a.modal = modalNone
			return a.setPermissionCmd(permission.Granted)
		case key.Matches(m, a.keys.DontAllow), key.Matches(m, a.keys.Cancel):
			a.modal = modalNone
			return a.setPermissionCmd(permission.Denied)
		}
	case modalSettings:
		switch {
		case key.Matches(m, a.keys.Allow):
			a.modal = modalNone
			return a.setPermissionCmd(permission.Granted)
		case key.Matches(m, a.keys.Cancel):
			a.modal = modalNone
		}
	}
	return nil
}

func (a *App) renderMenu() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Close Web View") + "\n")
	b.WriteString(dimStyle.Render("What would you like to do?") + "\n\n")
	for i, act := range presenter.Actions {
		label := act.String()
		switch {
		case i == a.menuCursor:
			label = menuSelectedStyle.Render(" " + label + " ")
		case act.Destructive():
			label = destructiveStyle.Render(" " + label + " ")
		default:
			label = menuItemStyle.Render(" " + label + " ")
		}
		b.WriteString(label)
		if i < len(presenter.Actions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a *App) renderPermissionPrompt() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Allow \""+a.opts.Title+"\" to use your location?") + "\n\n")
	b.WriteString(menuItemStyle.Render("[y] Allow") + "   " + menuItemStyle.Render("[n] Don't Allow"))
	return b.String()
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Location Services") + "\n")
	b.WriteString(dimStyle.Render("Access is currently "+string(a.permStatus)+".") + "\n\n")
	b.WriteString(menuItemStyle.Render("[y] Turn on") + "   " + menuItemStyle.Render("[esc] Close"))
	return b.String()
}
