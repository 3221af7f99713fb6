package orrery

import (
	"math"
	"time"
)

// Pointer thresholds separating clicks from drags and repeated clicks.
const (
	defaultDragThreshold = 5.0 // pixels
	defaultClickMax      = 500 * time.Millisecond
	defaultClickDebounce = 300 * time.Millisecond
)

// InteractionState is the pointer state of the scene.
type InteractionState uint8

const (
	StateIdle     InteractionState = iota // nothing under the pointer
	StateHovering                         // pointer over an entity, no button held
	StatePressed                          // button held, not yet moved past the drag threshold
	StateDragging                         // button held and moved; the camera orbits
	StateZoomed                           // an entity is selected and focused
)

func (s InteractionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	case StateZoomed:
		return "zoomed"
	default:
		return "unknown"
	}
}

// interactionHost is what the state machine drives. The Engine implements it.
type interactionHost interface {
	pick(x, y float64) (Hit, bool)
	// cameraBusy reports whether a fly animation is running.
	cameraBusy() bool
	// setHover applies hover feedback to id and clears it everywhere else.
	// An empty id clears all hover feedback.
	setHover(id string, x, y float64)
	// selectEntity reports the selection and, for the zoom policy, starts
	// the fly-to. It returns false if the selection could not be made.
	selectEntity(hit Hit, x, y float64) bool
	// deselect reports the cleared selection; flyBack returns the camera.
	deselect(flyBack bool)
	orbit(dx, dy float64)
	dragStarted(x, y float64)
	dragEnded(x, y float64)
	policy(c Category) SelectionPolicy
}

// press is the session recorded on pointer-down and consumed on pointer-up.
type press struct {
	x, y  float64
	at    time.Duration
	lastX float64
	lastY float64
}

// Interaction is the pointer state machine. All methods must be called from
// the update thread; times are engine clock readings.
type Interaction struct {
	host  interactionHost
	state InteractionState

	hoverID  string
	zoomedID string

	// selected holds a select-only selection. Zoomed selections live in
	// zoomedID.
	selected string

	press press

	lastAccept time.Duration
	accepted   bool

	DragThreshold float64
	ClickMax      time.Duration
	Debounce      time.Duration
}

func newInteraction(host interactionHost) *Interaction {
	return &Interaction{
		host:          host,
		DragThreshold: defaultDragThreshold,
		ClickMax:      defaultClickMax,
		Debounce:      defaultClickDebounce,
	}
}

// State returns the current state.
func (m *Interaction) State() InteractionState { return m.state }

// HoveredID returns the hovered entity id, or "".
func (m *Interaction) HoveredID() string { return m.hoverID }

// SelectedID returns the selected entity id (zoomed or select-only), or "".
func (m *Interaction) SelectedID() string {
	if m.zoomedID != "" {
		return m.zoomedID
	}
	return m.selected
}

func (m *Interaction) hasSelection() bool {
	return m.zoomedID != "" || m.selected != ""
}

// PointerMove handles pointer motion.
func (m *Interaction) PointerMove(x, y float64, now time.Duration) {
	switch m.state {
	case StateIdle, StateHovering:
		m.updateHover(x, y)
	case StatePressed:
		if math.Hypot(x-m.press.x, y-m.press.y) > m.DragThreshold {
			m.state = StateDragging
			m.host.setHover("", x, y)
			m.hoverID = ""
			m.host.dragStarted(m.press.x, m.press.y)
			m.host.orbit(x-m.press.x, y-m.press.y)
		}
		m.press.lastX, m.press.lastY = x, y
	case StateDragging:
		m.host.orbit(x-m.press.lastX, y-m.press.lastY)
		m.press.lastX, m.press.lastY = x, y
	case StateZoomed:
	}
}

func (m *Interaction) updateHover(x, y float64) {
	id := ""
	if !m.host.cameraBusy() {
		if hit, ok := m.host.pick(x, y); ok {
			id = hit.EntityID
		}
	}
	if id != m.hoverID {
		m.host.setHover(id, x, y)
		m.hoverID = id
	}
	if id == "" {
		m.state = StateIdle
	} else {
		m.state = StateHovering
	}
}

// PointerDown records a press session. Presses are ignored while a fly
// animation runs and while an entity is zoomed.
func (m *Interaction) PointerDown(x, y float64, now time.Duration) {
	if m.state == StateZoomed || m.state == StatePressed || m.state == StateDragging {
		return
	}
	if m.host.cameraBusy() {
		return
	}
	m.press = press{x: x, y: y, at: now, lastX: x, lastY: y}
	m.state = StatePressed
}

// PointerUp ends a press session, turning it into a click when it was short,
// did not move past the drag threshold and is not a debounced repeat.
func (m *Interaction) PointerUp(x, y float64, now time.Duration) {
	switch m.state {
	case StateDragging:
		m.state = StateIdle
		m.host.dragEnded(x, y)
		m.updateHover(x, y)
		return
	case StatePressed:
	default:
		return
	}

	m.state = StateIdle
	if m.host.cameraBusy() {
		return
	}
	if math.Hypot(x-m.press.x, y-m.press.y) > m.DragThreshold {
		m.updateHover(x, y)
		return
	}
	if now-m.press.at > m.ClickMax {
		m.updateHover(x, y)
		return
	}
	if m.accepted && now-m.lastAccept < m.Debounce {
		m.updateHover(x, y)
		return
	}

	hit, ok := m.host.pick(x, y)
	if !ok {
		if m.selected != "" {
			m.selected = ""
			m.host.deselect(false)
		}
		m.updateHover(x, y)
		return
	}
	if m.hasSelection() {
		// A different entity cannot take over the selection; the current
		// one must be closed first.
		m.updateHover(x, y)
		return
	}

	if !m.host.selectEntity(hit, x, y) {
		m.updateHover(x, y)
		return
	}
	m.accepted = true
	m.lastAccept = now

	if m.host.policy(hit.Category) == SelectZoom {
		m.host.setHover("", x, y)
		m.hoverID = ""
		m.zoomedID = hit.EntityID
		m.state = StateZoomed
		return
	}
	m.selected = hit.EntityID
	m.updateHover(x, y)
}

// Close clears the selection. From the zoomed state it also flies the camera
// back. It reports whether anything was closed; a zoom whose fly-to is still
// running cannot be closed yet.
func (m *Interaction) Close() bool {
	switch {
	case m.state == StateZoomed:
		if m.host.cameraBusy() {
			return false
		}
		m.zoomedID = ""
		m.state = StateIdle
		m.host.deselect(true)
		return true
	case m.selected != "":
		m.selected = ""
		m.host.deselect(false)
		return true
	default:
		return false
	}
}

// reset drops all interaction state without notifying the host.
func (m *Interaction) reset() {
	*m = Interaction{
		host:          m.host,
		DragThreshold: m.DragThreshold,
		ClickMax:      m.ClickMax,
		Debounce:      m.Debounce,
	}
}
