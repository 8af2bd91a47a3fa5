// Package presenter owns web view visibility, the dismissal menu and the
// one-shot reload and cache-clear requests consumed by the page view.
package presenter

import (
	"net/url"
	"strings"
)

// State is the presentation state of the web view.
type State int

const (
	Closed State = iota
	Open
	DismissMenuShown
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case DismissMenuShown:
		return "dismiss-menu"
	default:
		return "closed"
	}
}

// Action is a choice in the dismissal menu.
type Action int

const (
	Hide Action = iota
	Refresh
	ClearCacheAndClose
	Cancel
)

// Actions lists the dismissal menu entries in display order.
var Actions = []Action{Hide, Refresh, ClearCacheAndClose, Cancel}

func (a Action) String() string {
	switch a {
	case Hide:
		return "Hide"
	case Refresh:
		return "Refresh"
	case ClearCacheAndClose:
		return "Clear Cache and Close"
	default:
		return "Cancel"
	}
}

// Destructive reports whether the action discards data.
func (a Action) Destructive() bool { return a == ClearCacheAndClose }

// Snapshot is an immutable view of the presenter handed to subscribers.
type Snapshot struct {
	State               State
	Current             *url.URL
	ClearCacheRequested bool
	ReloadRequested     bool
}

// Presented reports whether the web view is on screen, menu or not.
func (s Snapshot) Presented() bool { return s.State != Closed }

// Presenter is the web view state machine. It is not safe for concurrent use;
// it lives on the UI update loop.
type Presenter struct {
	state      State
	current    *url.URL
	lastHidden *url.URL
	clearCache bool
	reload     bool
	subs       []func(Snapshot)
}

func New() *Presenter { return &Presenter{} }

// Subscribe registers fn to receive a snapshot after every state change.
func (p *Presenter) Subscribe(fn func(Snapshot)) {
	p.subs = append(p.subs, fn)
}

func (p *Presenter) State() State { return p.state }

// Current returns the URL bound to the web view, nil when nothing is presented.
func (p *Presenter) Current() *url.URL {
	if p.current == nil {
		return nil
	}
	u := *p.current
	return &u
}

// CanReopen reports whether a hidden page can be brought back.
func (p *Presenter) CanReopen() bool { return p.state == Closed && p.lastHidden != nil }

func (p *Presenter) Snapshot() Snapshot {
	return Snapshot{
		State:               p.state,
		Current:             p.Current(),
		ClearCacheRequested: p.clearCache,
		ReloadRequested:     p.reload,
	}
}

// ParseURL applies the "go" acceptance rule: the string must be non-empty and parse.
func ParseURL(raw string) (*url.URL, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Go binds raw to the web view and presents it. Unparseable input is ignored
// and false is returned, as is any go while the dismissal menu is up.
func (p *Presenter) Go(raw string) bool {
	if p.state == DismissMenuShown {
		return false
	}
	u, ok := ParseURL(raw)
	if !ok {
		return false
	}
	p.current = u
	p.state = Open
	p.notify()
	return true
}

// Reopen presents the page that was last hidden.
func (p *Presenter) Reopen() bool {
	if !p.CanReopen() {
		return false
	}
	p.current = p.lastHidden
	p.state = Open
	p.notify()
	return true
}

// EdgeSwipe shows the dismissal menu over an open web view.
func (p *Presenter) EdgeSwipe() bool {
	if p.state != Open {
		return false
	}
	p.state = DismissMenuShown
	p.notify()
	return true
}

// Choose applies a dismissal menu action.
func (p *Presenter) Choose(a Action) bool {
	if p.state != DismissMenuShown {
		return false
	}
	switch a {
	case Hide, ClearCacheAndClose:
		// the page stays reopenable either way; clearing only drops site data
		if a == ClearCacheAndClose {
			p.clearCache = true
		}
		p.lastHidden = p.current
		p.close()
	case Refresh:
		p.reload = true
		p.state = Open
	default:
		p.state = Open
	}
	p.notify()
	return true
}

func (p *Presenter) close() {
	p.state = Closed
	p.current = nil
}

// ConsumeClearCache returns whether a cache clear was requested and resets the request.
func (p *Presenter) ConsumeClearCache() bool {
	v := p.clearCache
	p.clearCache = false
	return v
}

// ConsumeReload returns whether a reload was requested and resets the request.
func (p *Presenter) ConsumeReload() bool {
	v := p.reload
	p.reload = false
	return v
}

func (p *Presenter) notify() {
	if len(p.subs) == 0 {
		return
	}
	snap := p.Snapshot()
	for _, fn := range p.subs {
		fn(snap)
	}
}
