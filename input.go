package orrery

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HoverContext carries hover change data. EntityID is empty when the pointer
// left every entity.
type HoverContext struct {
	EntityID     string
	Category     Category
	PrevEntityID string
	X, Y         float64
}

// SelectContext carries selection change data. EntityID is empty when the
// selection was cleared.
type SelectContext struct {
	EntityID string
	Category Category
	Panel    *PanelPayload
	X, Y     float64
}

// --- Handler registry ---

type hoverHandler struct {
	id uint32
	fn func(HoverContext)
}

type selectHandler struct {
	id uint32
	fn func(SelectContext)
}

type handlerRegistry struct {
	hover  []hoverHandler
	sel    []selectHandler
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventHoverEnter:
		h.reg.hover = removeHandler(h.reg.hover, func(x hoverHandler) bool { return x.id == h.id })
	case EventSelect:
		h.reg.sel = removeHandler(h.reg.sel, func(x selectHandler) bool { return x.id == h.id })
	}
}

// Active reports whether the callback is still registered.
func (h CallbackHandle) Active() bool {
	if h.reg == nil {
		return false
	}
	switch h.event {
	case EventHoverEnter:
		for _, x := range h.reg.hover {
			if x.id == h.id {
				return true
			}
		}
	case EventSelect:
		for _, x := range h.reg.sel {
			if x.id == h.id {
				return true
			}
		}
	}
	return false
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	var zero T
	for i := range s {
		if match(s[i]) {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// OnHover registers a scene-level callback fired whenever the hovered entity
// changes. The listener is removed automatically on Unmount.
func (e *Engine) OnHover(fn func(HoverContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.hover = append(e.handlers.hover, hoverHandler{id: id, fn: fn})
	h := CallbackHandle{id: id, reg: &e.handlers, event: EventHoverEnter}
	e.res.TrackListener(h)
	return h
}

// OnSelect registers a scene-level callback fired on selection and
// deselection. The listener is removed automatically on Unmount.
func (e *Engine) OnSelect(fn func(SelectContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.sel = append(e.handlers.sel, selectHandler{id: id, fn: fn})
	h := CallbackHandle{id: id, reg: &e.handlers, event: EventSelect}
	e.res.TrackListener(h)
	return h
}

func (e *Engine) fireHover(ctx HoverContext) {
	for _, h := range e.handlers.hover {
		h.fn(ctx)
	}
}

func (e *Engine) fireSelect(ctx SelectContext) {
	for _, h := range e.handlers.sel {
		h.fn(ctx)
	}
}

// --- Pointer sampling ---

// pointerState tracks the primary pointer between frames so edges (press,
// release, move) can be derived from level-triggered polling.
type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	touchID   ebiten.TouchID
	touchDown bool
	touches   []ebiten.TouchID
}

// processInput is called from Engine.Step to handle mouse, touch, wheel and
// Escape input. Injected events take priority over real input for the frame.
func (e *Engine) processInput() {
	if e.processInjectedInput() {
		return
	}
	if !e.liveInput {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		e.Close()
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		e.director.Dolly(wy)
	}

	if x, y, pressed, ok := e.readTouch(); ok {
		e.processPointer(x, y, pressed)
		return
	}
	mx, my := ebiten.CursorPosition()
	e.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// readTouch follows the first active touch. It reports ok=false when no
// touch is active and none was released this frame.
func (e *Engine) readTouch() (x, y float64, pressed, ok bool) {
	ps := &e.pointer
	ps.touches = ebiten.AppendTouchIDs(ps.touches[:0])
	if ps.touchDown {
		for _, id := range ps.touches {
			if id == ps.touchID {
				tx, ty := ebiten.TouchPosition(id)
				return float64(tx), float64(ty), true, true
			}
		}
		ps.touchDown = false
		return ps.lastX, ps.lastY, false, true
	}
	if len(ps.touches) > 0 {
		ps.touchID = ps.touches[0]
		ps.touchDown = true
		tx, ty := ebiten.TouchPosition(ps.touchID)
		return float64(tx), float64(ty), true, true
	}
	return 0, 0, false, false
}

// processPointer turns a level-triggered pointer sample into edge events for
// the interaction state machine.
func (e *Engine) processPointer(x, y float64, pressed bool) {
	ps := &e.pointer
	now := e.clock
	moved := x != ps.lastX || y != ps.lastY

	switch {
	case pressed && !ps.down:
		ps.down = true
		if moved {
			e.interaction.PointerMove(x, y, now)
		}
		e.interaction.PointerDown(x, y, now)
	case !pressed && ps.down:
		ps.down = false
		if moved {
			e.interaction.PointerMove(x, y, now)
		}
		e.interaction.PointerUp(x, y, now)
	case moved:
		e.interaction.PointerMove(x, y, now)
	}
	ps.lastX, ps.lastY = x, y
}
