package orrery

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// PanelPayload is the narrative content carried by a panel entity and handed
// to the host when the panel is selected.
type PanelPayload struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Link  string `yaml:"link"`
}

// EntityDescriptor is the input data for one interactive entity.
type EntityDescriptor struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Color    Color    `yaml:"color"`
	ImageRef string   `yaml:"image"`
	Seed     uint64   `yaml:"seed"`
	Category Category `yaml:"category"`

	// Position overrides the generated layout when set.
	Position *Vec3 `yaml:"position"`

	Panel *PanelPayload `yaml:"panel"`
}

func validateDescriptors(descs []EntityDescriptor) error {
	seen := make(map[string]struct{}, len(descs))
	for i, d := range descs {
		if d.ID == "" {
			return fmt.Errorf("entity %d: %w", i, ErrEmptyEntityID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("entity %q: %w", d.ID, ErrDuplicateEntity)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// descriptorRand returns the deterministic random stream for a descriptor.
func descriptorRand(d *EntityDescriptor) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(d.ID))
	return rand.New(rand.NewPCG(d.Seed, h.Sum64()))
}

// LODLevel is the per-frame update tier of an entity.
type LODLevel uint8

const (
	LODFar LODLevel = iota
	LODMedium
	LODNear
)

func (l LODLevel) String() string {
	switch l {
	case LODFar:
		return "far"
	case LODMedium:
		return "medium"
	case LODNear:
		return "near"
	default:
		return "unknown"
	}
}

func lodFor(dist float64, t LODThresholds) LODLevel {
	switch {
	case dist > t.Far:
		return LODFar
	case dist > t.Near:
		return LODMedium
	default:
		return LODNear
	}
}

// Hover feedback and baseline appearance.
const (
	memberVolumeOpacity  = 0.5
	memberHoverOpacity   = 0.9
	memberEmissive       = 0.1
	memberHoverEmissive  = 0.3
	memberHoverScale     = 1.3
	panelVolumeOpacity   = 0.95
	panelHoverOpacity    = 1.0
	panelEmissive        = 0.15
	panelHoverEmissive   = 0.3
	panelHoverScale      = 1.1
	memberLightIntensity = 0.3
	memberLightRange     = 8
	panelLightIntensity  = 0.5
	panelLightRange      = 15
)

// Entity is the runtime state of one member or panel. It is owned by the
// scene graph and only touched from the update thread.
type Entity struct {
	Desc  EntityDescriptor
	Index int // order within its category

	group   *Node
	volume  *Node
	surface *Node
	light   *Node

	surfaceTex *Texture

	// Hovered is true while hover feedback is applied.
	Hovered bool
	// LOD is the tier chosen on the last tick.
	LOD LODLevel
	// Fade dims the whole entity while another entity is being focused.
	Fade float64
	// SurfaceFade fades the content surface while the detail overlay fades in.
	SurfaceFade float64

	// entrance is the scale-in progress in [0, 1].
	entrance float64

	// FacingUpdates and LightUpdates count the expensive per-frame updates
	// the LOD policy allowed.
	FacingUpdates int
	LightUpdates  int
}

// ID returns the entity id.
func (e *Entity) ID() string { return e.Desc.ID }

// Category returns the entity category.
func (e *Entity) Category() Category { return e.Desc.Category }

// Group returns the tagged group node of the entity.
func (e *Entity) Group() *Node { return e.group }

// Position returns the world position of the entity.
func (e *Entity) Position() Vec3 { return e.group.WorldPosition() }

// Visible reports whether the entity is currently drawn and pickable.
func (e *Entity) Visible() bool {
	return e.group != nil && e.group.EffectivelyVisible() && e.entrance > 0
}

// applyVisuals recomputes scale, opacity and emissive from the entity's
// flags. It always starts from the baseline, so calling it repeatedly with
// the same flags gives the same result.
func (e *Entity) applyVisuals() {
	if e.group == nil || e.group.IsDisposed() {
		return
	}
	baseOpacity, hoverOpacity := memberVolumeOpacity, memberHoverOpacity
	baseEmissive, hoverEmissive := memberEmissive, memberHoverEmissive
	hoverScale := memberHoverScale
	if e.Desc.Category == CategoryPanel {
		baseOpacity, hoverOpacity = panelVolumeOpacity, panelHoverOpacity
		baseEmissive, hoverEmissive = panelEmissive, panelHoverEmissive
		hoverScale = panelHoverScale
	}

	opacity, emissive, scale := baseOpacity, baseEmissive, 1.0
	if e.Hovered {
		opacity, emissive, scale = hoverOpacity, hoverEmissive, hoverScale
	}

	e.group.Scale = e.entrance * scale
	if m := e.volume.Material; m != nil {
		m.Opacity = opacity * e.Fade
		m.EmissiveIntensity = emissive
	}
	if e.surface != nil && e.surface.Material != nil {
		e.surface.Material.Opacity = e.Fade * e.SurfaceFade
		e.surface.Visible = e.entrance > 0.5 && e.SurfaceFade > 0
	}
	if e.light != nil && e.light.Light != nil {
		base := memberLightIntensity
		if e.Desc.Category == CategoryPanel {
			base = panelLightIntensity
		}
		e.light.Light.Intensity = base * e.Fade
	}
}

// motion is the typed animation record kept per entity id. Every value is
// derived once from the descriptor seed, so motion is a pure function of
// elapsed time.
type motion struct {
	base     Vec3
	baseYaw  float64
	phase    float64
	bob      float64 // float speed, radians per second
	spin     float64 // yaw speed, radians per second
	delay    float64 // entrance delay, seconds
	category Category
}

const (
	entranceDuration      = 0.6
	memberEntranceDelay   = 1.5
	memberEntranceStagger = 0.25
	panelEntranceDelay    = 0.5
	panelEntranceStagger  = 0.2
)

func newMotion(d *EntityDescriptor, index int, base Vec3) *motion {
	rng := descriptorRand(d)
	m := &motion{
		base:     base,
		phase:    rng.Float64() * 2 * math.Pi,
		bob:      0.5 + rng.Float64()*0.5,
		category: d.Category,
	}
	if d.Category == CategoryPanel {
		m.baseYaw = math.Atan2(-base.X, -base.Z) + (rng.Float64()-0.5)*0.4
		m.delay = panelEntranceDelay + float64(index)*panelEntranceStagger
	} else {
		m.spin = 0.06 + rng.Float64()*0.12
		m.delay = memberEntranceDelay + float64(index)*memberEntranceStagger
	}
	return m
}

// pose returns the local position and rotation at elapsed time t for the
// given LOD tier. Farther tiers drop the floating motion.
func (m *motion) pose(t float64, lod LODLevel) (Vec3, Rotation) {
	pos := m.base
	var rot Rotation
	if m.category == CategoryPanel {
		rot.Yaw = m.baseYaw + math.Sin(t*0.2+m.phase)*0.05
		switch lod {
		case LODNear:
			pos.X += math.Sin(t*m.bob*0.5+m.phase) * 0.2
			pos.Y += math.Sin(t*m.bob+m.phase) * 0.3
			pos.Z += math.Cos(t*m.bob*0.7+m.phase) * 0.1
			rot.Pitch = math.Sin(t*0.15+m.phase) * 0.02
		case LODMedium:
			pos.Y += math.Sin(t*m.bob+m.phase) * 0.2
		}
		return pos, rot
	}

	rot.Yaw = m.phase + t*m.spin
	switch lod {
	case LODNear:
		pos.Y += math.Sin(t*m.bob+m.phase) * 0.5
	case LODMedium:
		pos.Y += math.Sin(t*m.bob+m.phase) * 0.3
	}
	return pos, rot
}
