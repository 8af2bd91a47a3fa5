package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/linkview/internal/renderer"
)

const invalidURLText = "Invalid URL"

// bind points the page view at u and starts loading it.
func (a *App) bind(u *url.URL) tea.Cmd {
	a.boundURL = u.String()
	a.page = nil
	a.pageErr = nil
	a.loadSeq++
	a.viewport.SetContent("")
	a.viewport.GotoTop()
	if !renderer.Renderable(u) {
		a.loading = false
		return nil
	}
	a.loading = true
	return a.loadCmd(a.loadSeq, u, false)
}

func (a *App) unbind() {
	a.boundURL = ""
	a.page = nil
	a.pageErr = nil
	a.loading = false
	a.loadSeq++
}

func (a *App) reloadCmd(u *url.URL) tea.Cmd {
	if !renderer.Renderable(u) {
		return nil
	}
	a.loadSeq++
	a.loading = true
	return a.loadCmd(a.loadSeq, u, true)
}

func (a *App) loadCmd(seq int, u *url.URL, fresh bool) tea.Cmd {
	r := a.deps.Renderer
	ctx := a.ctx
	target := *u
	return func() tea.Msg {
		var (
			page *renderer.Page
			err  error
		)
		if fresh {
			page, err = r.Reload(ctx, &target)
		} else {
			page, err = r.Load(ctx, &target)
		}
		return pageLoadedMsg{seq: seq, url: target.String(), page: page, err: err}
	}
}

func (a *App) handlePageLoaded(m pageLoadedMsg) {
	if m.seq != a.loadSeq || m.url != a.boundURL {
		return
	}
	a.loading = false
	a.page, a.pageErr = m.page, m.err
	a.viewport.SetContent(a.pageContent())
	a.viewport.GotoTop()
}

func (a *App) handleWebViewKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Swipe):
		a.presenter.EdgeSwipe()
		return nil
	case key.Matches(m, a.keys.Up):
		a.viewport.LineUp(1)
	case key.Matches(m, a.keys.Down):
		a.viewport.LineDown(1)
	case key.Matches(m, a.keys.PageUp):
		a.viewport.ViewUp()
	case key.Matches(m, a.keys.PageDown):
		a.viewport.ViewDown()
	}
	return nil
}

func (a *App) layoutViewport() {
	a.viewport.Width = max(1, a.width)
	// url bar, help, status
	a.viewport.Height = max(1, a.height-3)
	if a.page != nil || a.pageErr != nil {
		a.viewport.SetContent(a.pageContent())
	}
}

func (a *App) pageContent() string {
	width := max(10, a.viewport.Width-2)
	wrap := lipgloss.NewStyle().Width(width)
	if a.pageErr != nil {
		return placeholderStyle.Render(wrap.Render(describeLoadError(a.pageErr)))
	}
	if a.page == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render(wrap.Render(a.page.Title)) + "\n\n")
	b.WriteString(wrap.Render(strings.Join(a.page.Lines, "\n")))
	if len(a.page.Links) > 0 {
		b.WriteString("\n\n" + dimStyle.Render(fmt.Sprintf("── %d links ──", len(a.page.Links))) + "\n")
		for i, l := range a.page.Links {
			b.WriteString(dimStyle.Render(fmt.Sprintf("[%d] ", i+1)) + ansi.Truncate(l, width-6, "…") + "\n")
		}
	}
	return b.String()
}

func describeLoadError(err error) string {
	var se *renderer.StatusError
	if errors.As(err, &se) {
		return "The server answered " + se.Status + "."
	}
	return "Could not load the page: " + err.Error()
}

func (a *App) renderWebView() string {
	cur := a.presenter.Current()
	if cur == nil {
		return ""
	}
	if !renderer.Renderable(cur) {
		body := lipgloss.Place(a.width, max(1, a.height-3), lipgloss.Center, lipgloss.Center,
			placeholderStyle.Render(invalidURLText))
		return a.renderURLBar(cur, "") + "\n" + body
	}
	state := ""
	if a.loading {
		state = "loading…"
	}
	return a.renderURLBar(cur, state) + "\n" + a.viewport.View()
}

func (a *App) renderURLBar(u *url.URL, state string) string {
	text := " " + u.String()
	if state != "" {
		text += "  " + state
	}
	text = ansi.Truncate(text, a.width, "…")
	return urlBarStyle.Width(a.width).Render(text)
}
