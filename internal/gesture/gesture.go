// Package gesture turns mouse press/release pairs into edge swipes.
package gesture

import tea "github.com/charmbracelet/bubbletea"

// Swipe is a recognised edge swipe.
type Swipe int

const (
	None Swipe = iota
	// Leading starts at the left edge and travels right.
	Leading
	// Trailing starts at the right edge and travels left.
	Trailing
)

const (
	DefaultEdgeWidth = 2
	DefaultThreshold = 10
)

// Detector tracks one drag at a time.
type Detector struct {
	EdgeWidth int
	Threshold int

	pressed bool
	startX  int
}

func NewDetector(edgeWidth, threshold int) Detector {
	if edgeWidth <= 0 {
		edgeWidth = DefaultEdgeWidth
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Detector{EdgeWidth: edgeWidth, Threshold: threshold}
}

// Observe feeds a mouse event. It returns the swipe completed by a release,
// or None. width is the current screen width in cells.
func (d *Detector) Observe(msg tea.MouseMsg, width int) Swipe {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return None
		}
		d.pressed = true
		d.startX = msg.X
		return None
	case tea.MouseActionRelease:
		if !d.pressed {
			return None
		}
		d.pressed = false
		return d.classify(d.startX, msg.X-d.startX, width)
	}
	return None
}

func (d *Detector) classify(startX, dx, width int) Swipe {
	if startX < d.EdgeWidth && dx >= d.Threshold {
		return Leading
	}
	if width > 0 && startX >= width-d.EdgeWidth && dx <= -d.Threshold {
		return Trailing
	}
	return None
}
