package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/linkview/internal/presenter"
)

func (a *App) View() string {
	var body string
	var help []key.Binding
	switch a.presenter.State() {
	case presenter.Open:
		body = a.renderWebView()
		help = a.keys.webViewHelp()
	case presenter.DismissMenuShown:
		body = overlayCenter(a.renderWebView(), a.renderMenu(), a.width, max(1, a.height-2))
		help = a.keys.menuHelp()
	default:
		body = a.renderList()
		switch a.focus {
		case focusInput:
			help = a.keys.inputHelp()
		case focusFilter:
			help = a.keys.filterHelp()
		default:
			help = a.keys.listHelp(a.showSettingsButton(), a.presenter.CanReopen())
		}
	}

	switch a.modal {
	case modalPermission:
		body = overlayCenter(body, a.renderPermissionPrompt(), a.width, max(1, a.height-2))
	case modalSettings:
		body = overlayCenter(body, a.renderSettings(), a.width, max(1, a.height-2))
	}

	body = strings.Join(fitLines(body, a.width, max(1, a.height-2)), "\n")
	return body + "\n" + a.renderHelp(help) + "\n" + a.renderStatus()
}

func (a *App) renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return padANSI(" "+strings.Join(parts, "  "), a.width)
}

func (a *App) renderStatus() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	line := padANSI(" "+strings.ReplaceAll(msg, "\n", " "), a.width)
	if a.statusErr {
		return statusErrStyle.Render(line)
	}
	return statusBarStyle.Render(line)
}
