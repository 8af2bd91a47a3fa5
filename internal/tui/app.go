package tui

import (
	"context"
	"log"
	"net/url"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/linkview/internal/gesture"
	"github.com/jask/linkview/internal/links"
	"github.com/jask/linkview/internal/permission"
	"github.com/jask/linkview/internal/presenter"
	"github.com/jask/linkview/internal/renderer"
)

// PageRenderer is the web renderer the page view wraps.
type PageRenderer interface {
	Load(ctx context.Context, u *url.URL) (*renderer.Page, error)
	Reload(ctx context.Context, u *url.URL) (*renderer.Page, error)
	ClearSiteData()
}

// PermissionService is the location authorization collaborator.
type PermissionService interface {
	Request(ctx context.Context) (bool, error)
	Status(ctx context.Context) (permission.Status, error)
	Set(ctx context.Context, st permission.Status) error
}

// Deps are the collaborators the App drives. Links must already be loaded.
type Deps struct {
	Links      *links.Store
	Renderer   PageRenderer
	Permission PermissionService
}

// Options tune presentation.
type Options struct {
	Title          string
	EdgeWidth      int
	SwipeThreshold int
}

type focusArea string

const (
	focusList   focusArea = "list"
	focusInput  focusArea = "input"
	focusFilter focusArea = "filter"
)

type modalState string

const (
	modalNone       modalState = ""
	modalPermission modalState = "permission"
	modalSettings   modalState = "settings"
)

// App is the root bubbletea model: the link list screen with its input bar,
// and the full-screen page view presented over it.
type App struct {
	ctx        context.Context
	deps       Deps
	opts       Options
	keys       keyMap
	presenter  *presenter.Presenter
	swipes     gesture.Detector
	focus      focusArea
	modal      modalState
	links      []string
	visible    []int // positions in links shown by the current filter
	cursor     int
	offset     int
	input      textinput.Model
	filter     textinput.Model
	viewport   viewport.Model
	page       *renderer.Page
	pageErr    error
	loading    bool
	loadSeq    int
	boundURL   string
	menuCursor int
	permStatus permission.Status
	status     string
	statusErr  bool
	width      int
	height     int
}

// messages
type statusMsg string

type errMsg struct{ error }

type pageLoadedMsg struct {
	seq  int
	url  string
	page *renderer.Page
	err  error
}

type permissionMsg struct {
	status permission.Status
	prompt bool
}

// New builds the App. The link store must have been loaded by the caller.
func New(ctx context.Context, deps Deps, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "Links"
	}
	in := textinput.New()
	in.Placeholder = "Link to visit"
	in.CharLimit = 2048
	in.Prompt = ""

	fi := textinput.New()
	fi.Placeholder = "filter..."
	fi.CharLimit = 200
	fi.Prompt = "/ "

	a := &App{
		ctx:        ctx,
		deps:       deps,
		opts:       opts,
		keys:       newKeyMap(),
		presenter:  presenter.New(),
		swipes:     gesture.NewDetector(opts.EdgeWidth, opts.SwipeThreshold),
		focus:      focusList,
		input:      in,
		filter:     fi,
		viewport:   viewport.New(80, 20),
		permStatus: permission.Undetermined,
		width:      80,
		height:     24,
	}
	a.presenter.Subscribe(a.onPresentation)
	a.refreshLinks()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.requestPermission())
}

// Update routes the message, then lets the page view react to whatever the
// presenter now asks for.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.syncWebView())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.input.Width = max(10, a.width-16)
		a.layoutViewport()
		a.clampOffset()
		return nil
	case tea.MouseMsg:
		return a.handleMouse(m)
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.presenter.State() {
		case presenter.Open:
			return a.handleWebViewKey(m)
		case presenter.DismissMenuShown:
			return a.handleMenuKey(m)
		}
		return a.handleListKey(m)
	case pageLoadedMsg:
		a.handlePageLoaded(m)
		return nil
	case permissionMsg:
		a.permStatus = m.status
		if m.prompt {
			a.modal = modalPermission
		} else if a.modal == modalPermission {
			a.modal = modalNone
		}
		return nil
	case statusMsg:
		a.status, a.statusErr = string(m), false
		return nil
	case errMsg:
		a.status, a.statusErr = "error: "+m.Error(), true
		return nil
	}
	if a.presenter.State() == presenter.Closed {
		return a.updateInputs(msg)
	}
	return nil
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	switch a.swipes.Observe(m, a.width) {
	case gesture.Leading:
		if a.modal == modalNone {
			a.presenter.EdgeSwipe()
		}
		return nil
	case gesture.Trailing:
		if a.modal == modalNone {
			a.presenter.Reopen()
		}
		return nil
	}
	if a.presenter.State() == presenter.Open && tea.MouseEvent(m).IsWheel() {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(m)
		return cmd
	}
	return nil
}

// onPresentation observes every presenter transition.
func (a *App) onPresentation(s presenter.Snapshot) {
	if s.Current != nil {
		log.Printf("web view %s %s", s.State, s.Current)
	} else {
		log.Printf("web view %s", s.State)
	}
	if s.State == presenter.Closed {
		a.menuCursor = 0
	}
}

// syncWebView is the page view's update pass: it consumes the presenter's
// one-shot requests and binds the view to the current selection.
func (a *App) syncWebView() tea.Cmd {
	var cmds []tea.Cmd
	if a.presenter.ConsumeClearCache() {
		cmds = append(cmds, a.clearSiteDataCmd())
	}
	cur := a.presenter.Current()
	switch {
	case cur == nil:
		if a.boundURL != "" {
			a.unbind()
		}
	case cur.String() != a.boundURL:
		cmds = append(cmds, a.bind(cur))
		// a fresh bind already fetches; a pending reload would only repeat it
		a.presenter.ConsumeReload()
	case a.presenter.ConsumeReload():
		cmds = append(cmds, a.reloadCmd(cur))
	}
	return tea.Batch(cmds...)
}

func (a *App) clearSiteDataCmd() tea.Cmd {
	r := a.deps.Renderer
	return func() tea.Msg {
		r.ClearSiteData()
		return statusMsg("cache cleared")
	}
}

func (a *App) requestPermission() tea.Cmd {
	p := a.deps.Permission
	if p == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		prompt, err := p.Request(ctx)
		if err != nil {
			return errMsg{err}
		}
		st, err := p.Status(ctx)
		if err != nil {
			return errMsg{err}
		}
		return permissionMsg{status: st, prompt: prompt}
	}
}

func (a *App) setPermissionCmd(st permission.Status) tea.Cmd {
	p := a.deps.Permission
	if p == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		if err := p.Set(ctx, st); err != nil {
			return errMsg{err}
		}
		return permissionMsg{status: st}
	}
}

// Presenter exposes the state machine, mainly for tests and embedding.
func (a *App) Presenter() *presenter.Presenter { return a.presenter }
