package orrery

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Engine is the interactive scene. It implements ebiten.Game: Update is the
// per-frame tick, Draw renders, and Layout tracks the host surface size.
// All methods must be called from the game loop's goroutine.
type Engine struct {
	cfg    Config
	preset QualityPreset
	log    *slog.Logger

	cam         *Camera
	director    *Director
	interaction *Interaction
	loop        *Loop
	res         *Resources
	scene       *Scene
	textures    *textureLoader
	lights      *LightLayer
	renderer    *renderer
	fps         *fpsOverlay

	handlers    handlerRegistry
	sink        EventSink
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner
	shots       []string

	clock         time.Duration
	width, height int

	mounted   bool
	ready     bool
	fatal     bool
	checked   bool
	liveInput bool
	debug     bool
}

// New creates an engine. Call Mount to build a scene.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.PickOrder) == 0 {
		cfg.PickOrder = []Category{CategoryPanel, CategoryMember}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	log := cfg.logger()

	e := &Engine{
		cfg:      cfg,
		preset:   cfg.preset(),
		log:      log,
		cam:      newCamera(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}),
		loop:     &Loop{cancelled: true},
		res:      newResources(log),
		renderer: newRenderer(),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	e.director = newDirector(e.cam)
	e.director.onProgress = e.flyProgress
	e.interaction = newInteraction(e)
	if cfg.Debug {
		e.SetDebugMode(true)
	}
	return e, nil
}

// Mount builds the scene for descs and starts the loop. Mounting a mounted
// engine tears the old scene down first. N = 0 is valid.
func (e *Engine) Mount(descs []EntityDescriptor) (err error) {
	if e.fatal {
		return ErrEngineClosed
	}
	if err := validateDescriptors(descs); err != nil {
		return err
	}
	if !e.checked {
		e.checked = true
		if e.cfg.Capability != nil {
			if perr := e.cfg.Capability(); perr != nil {
				err = fmt.Errorf("%w: %v", ErrUnsupported, perr)
				e.fail(err)
				return err
			}
		}
	}
	if e.mounted {
		e.Unmount()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: scene construction: %v", ErrUnsupported, rec)
			e.mounted = true
			e.fail(err)
		}
	}()

	e.loop = &Loop{}
	e.director.Reset()
	e.interaction.reset()
	e.scene = buildScene(descs, e.preset, e.res, e.log)
	e.lights = newLightLayer(e.res, e.width, e.height)
	if e.cfg.ShowFPS && e.fps == nil {
		e.fps = newFPSOverlay()
	}

	e.textures = newTextureLoader(e.cfg.Loader, len(e.scene.entities), e.log)
	for _, ent := range e.scene.entities {
		if ent.Desc.Category == CategoryMember && ent.Desc.ImageRef != "" {
			e.textures.request(ent.Desc.ID, ent.Desc.ImageRef)
		}
	}

	e.scene.animate(0, e.cam, e.preset, e.cfg.SkipEntrance)
	e.updateFades()

	e.mounted = true
	e.ready = false
	e.log.Info("scene mounted", "entities", len(e.scene.entities), "quality", e.cfg.Quality.String())
	return nil
}

// Unmount cancels the loop, invalidates pending loads, removes listeners and
// releases every resource. Calling it on an unmounted engine is a no-op.
func (e *Engine) Unmount() {
	if !e.mounted {
		return
	}
	e.mounted = false
	e.loop.Cancel()
	if e.textures != nil {
		e.textures.stop()
	}
	e.interaction.reset()
	e.res.removeListeners()
	if e.scene != nil {
		disposeTree(e.log, e.scene.root)
	}
	e.res.release()
	if e.fps != nil {
		e.fps.dispose()
		e.fps = nil
	}
	e.scene = nil
	e.lights = nil
	e.director.Reset()
	e.pointer = pointerState{}
	e.injectQueue = e.injectQueue[:0]
	if e.liveInput {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	e.log.Info("scene unmounted")
}

// fail reports a fatal error once and stops the engine.
func (e *Engine) fail(err error) {
	if e.fatal {
		return
	}
	e.fatal = true
	e.log.Error("fatal", "err", err)
	e.Unmount()
	if e.cfg.OnFatalError != nil {
		e.cfg.OnFatalError(err.Error())
	}
}

// --- ebiten.Game ---

// Update runs one tick at the game's TPS.
func (e *Engine) Update() error {
	if e.fatal {
		return ebiten.Termination
	}
	e.Step(1 / float64(ebiten.TPS()))
	return nil
}

// Draw renders the current frame. The first frame rendered after a mount
// fires OnReady.
func (e *Engine) Draw(screen *ebiten.Image) {
	if !e.mounted || e.fatal {
		screen.Fill(e.cfg.Background.RGBA())
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			e.fail(fmt.Errorf("%w: render: %v", ErrUnsupported, rec))
		}
	}()

	e.renderer.draw(screen, e.scene, e.cam, e.lights, e.cfg.Background)
	if e.fps != nil {
		e.fps.draw(screen)
	}
	if e.debug {
		debugLog(e.log, e.loop.Frames(), e.renderer.stats)
	}
	e.flushScreenshots(screen)
	if !e.ready {
		e.ready = true
		if e.cfg.OnReady != nil {
			e.cfg.OnReady()
		}
	}
}

// Layout reports the surface size, resizing the engine when the host
// container changes.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != e.width || outsideHeight != e.height {
		e.Resize(outsideWidth, outsideHeight)
	}
	return e.width, e.height
}

// Resize updates the camera aspect and reallocates the light layer. The
// number of live resources does not change.
func (e *Engine) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	e.width, e.height = w, h
	e.cam.Viewport = Rect{Width: float64(w), Height: float64(h)}
	if e.lights != nil {
		e.lights.Resize(w, h)
	}
}

// Step advances the engine by dt seconds: it applies finished image loads,
// processes input, poses entities, applies LOD and moves the camera.
func (e *Engine) Step(dt float64) {
	if e.fatal || !e.mounted || e.loop.Cancelled() {
		return
	}
	start := time.Now()
	e.clock += time.Duration(dt * float64(time.Second))

	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	e.textures.drain(e.applyImage)
	e.processInput()

	if !e.loop.advance(dt) {
		return
	}
	e.scene.animate(e.loop.Elapsed(), e.cam, e.preset, e.cfg.SkipEntrance)
	e.director.Update(dt, e.clock)
	e.updateFades()

	if e.fps != nil {
		e.fps.update(dt)
	}
	e.renderer.stats.updateTime = time.Since(start)
}

// applyImage replaces a member's placeholder surface with its photo card.
func (e *Engine) applyImage(res imageResult) {
	ent, ok := e.scene.Entity(res.entityID)
	if !ok || ent.surfaceTex == nil || ent.surfaceTex.IsDisposed() {
		return
	}
	ent.surfaceTex.Replace(renderMemberCard(&ent.Desc, res.img))
	e.log.Debug("image applied", "entity", res.entityID)
}

// updateFades dims the scene around a focused entity and fades the focused
// entity's content surface against the host's overlay.
func (e *Engine) updateFades() {
	if e.scene == nil {
		return
	}
	others, surface := 1.0, 1.0
	p := e.director.Progress()
	switch e.director.Mode() {
	case CameraFlyingTo:
		others = 1 - 0.8*easeAt(ease.InOutCubic, p)
		surface = 1 - e.director.OverlayOpacity()
	case CameraFocused:
		others, surface = 0.2, 0
	case CameraFlyingBack:
		others = 0.2 + 0.8*p
		surface = p
	}
	target := e.director.TargetID()
	for _, ent := range e.scene.entities {
		if target != "" && ent.Desc.ID == target {
			ent.Fade, ent.SurfaceFade = 1, surface
		} else {
			ent.Fade, ent.SurfaceFade = others, 1
		}
		ent.applyVisuals()
	}
}

func (e *Engine) flyProgress(p FlyProgress) {
	if e.cfg.OnFlyProgress != nil {
		e.cfg.OnFlyProgress(p)
	}
}

// --- Public accessors ---

// Close clears the current selection, flying the camera back if an entity
// is focused. It reports whether anything was closed.
func (e *Engine) Close() bool {
	if !e.mounted {
		return false
	}
	return e.interaction.Close()
}

// Mounted reports whether a scene is mounted.
func (e *Engine) Mounted() bool { return e.mounted }

// Ready reports whether a frame has been rendered since the last mount.
func (e *Engine) Ready() bool { return e.ready }

// Camera returns the engine camera.
func (e *Engine) Camera() *Camera { return e.cam }

// Director returns the Camera Director.
func (e *Engine) Director() *Director { return e.director }

// Interaction returns the pointer state machine.
func (e *Engine) Interaction() *Interaction { return e.interaction }

// Scene returns the mounted scene, or nil.
func (e *Engine) Scene() *Scene { return e.scene }

// Loop returns the loop of the current (or last) mount.
func (e *Engine) Loop() *Loop { return e.loop }

// Resources returns the live resource counts.
func (e *Engine) Resources() ResourceCounts { return e.res.Counts() }

// Size returns the current surface size.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// SetEventSink forwards scene events to sink. Pass nil to stop.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

func (e *Engine) emit(ev SceneEvent) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}

// --- interactionHost ---

func (e *Engine) pick(x, y float64) (Hit, bool) {
	if e.scene == nil {
		return Hit{}, false
	}
	return Pick(x, y, e.cam, e.scene.pickSets(e.cfg.PickOrder))
}

func (e *Engine) cameraBusy() bool { return e.director.Busy() }

func (e *Engine) setHover(id string, x, y float64) {
	if e.scene == nil {
		return
	}
	prev := e.interaction.HoveredID()
	var cat Category
	for _, ent := range e.scene.entities {
		ent.Hovered = false
		if ent.Desc.ID == id {
			ent.Hovered = true
			cat = ent.Desc.Category
		}
		ent.applyVisuals()
	}
	e.director.SetHovering(id != "")
	if e.liveInput {
		if id != "" {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
		} else {
			ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}

	if prev != "" && prev != id {
		e.emit(SceneEvent{Type: EventHoverLeave, EntityID: prev, X: x, Y: y})
	}
	if id != "" {
		e.emit(SceneEvent{Type: EventHoverEnter, EntityID: id, Category: cat, X: x, Y: y})
	}
	e.fireHover(HoverContext{EntityID: id, Category: cat, PrevEntityID: prev, X: x, Y: y})
}

func (e *Engine) selectEntity(hit Hit, x, y float64) bool {
	if e.scene == nil {
		return false
	}
	ent, ok := e.scene.Entity(hit.EntityID)
	if !ok {
		return false
	}
	if e.cfg.policy(hit.Category) == SelectZoom {
		if !e.director.FlyTo(ent.Desc.ID, ent.Position()) {
			return false
		}
	}
	e.log.Debug("entity selected", "entity", ent.Desc.ID, "category", ent.Desc.Category.String())

	if e.cfg.OnEntitySelected != nil {
		e.cfg.OnEntitySelected(ent.Desc.ID)
	}
	if ent.Desc.Category == CategoryPanel && e.cfg.OnPanelSelected != nil {
		var payload PanelPayload
		if ent.Desc.Panel != nil {
			payload = *ent.Desc.Panel
		}
		e.cfg.OnPanelSelected(payload)
	}
	e.emit(SceneEvent{Type: EventSelect, EntityID: ent.Desc.ID, Category: ent.Desc.Category, X: x, Y: y})
	e.fireSelect(SelectContext{EntityID: ent.Desc.ID, Category: ent.Desc.Category, Panel: ent.Desc.Panel, X: x, Y: y})
	return true
}

func (e *Engine) deselect(flyBack bool) {
	if flyBack {
		e.director.FlyBack()
	}
	if e.cfg.OnEntitySelected != nil {
		e.cfg.OnEntitySelected("")
	}
	e.emit(SceneEvent{Type: EventDeselect})
	e.fireSelect(SelectContext{})
}

func (e *Engine) orbit(dx, dy float64) { e.director.Orbit(dx, dy) }

func (e *Engine) dragStarted(x, y float64) {
	e.director.BeginDrag(e.clock)
	e.emit(SceneEvent{Type: EventDragStart, X: x, Y: y})
}

func (e *Engine) dragEnded(x, y float64) {
	e.director.EndDrag(e.clock)
	e.emit(SceneEvent{Type: EventDragEnd, X: x, Y: y})
}

func (e *Engine) policy(c Category) SelectionPolicy { return e.cfg.policy(c) }

// --- Running ---

// RunConfig configures the window Run opens.
type RunConfig struct {
	Title         string
	Width, Height int
}

// Run opens a resizable window and runs e until the window closes or a fatal
// error occurs. Mount the engine before calling Run.
func Run(e *Engine, rc RunConfig) error {
	if rc.Title != "" {
		ebiten.SetWindowTitle(rc.Title)
	}
	w, h := rc.Width, rc.Height
	if w <= 0 || h <= 0 {
		w, h = e.width, e.height
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	e.liveInput = true
	err := ebiten.RunGame(e)
	e.liveInput = false
	if err != nil && !errors.Is(err, ebiten.Termination) {
		e.fail(err)
		return err
	}
	e.Unmount()
	return nil
}
