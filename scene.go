package orrery

import (
	"fmt"
	"log/slog"
)

// EventSink is the interface for optional ECS integration. When set on an
// Engine, hover, selection and drag events are forwarded to it.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// SceneEvent carries interaction data for the ECS bridge.
type SceneEvent struct {
	Type     EventType
	EntityID string
	Category Category
	X, Y     float64
}

// sceneAmbient is the ambient light level applied to every material.
const sceneAmbient = 0.45

// Scene is the built scene graph: the node tree, the runtime entities and
// their animation records.
type Scene struct {
	root    *Node
	stars   *Node
	lights  *Node
	members *Node
	panels  *Node

	entities []*Entity
	byID     map[string]*Entity
	motions  map[string]*motion
	fields   []*starField
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Entities returns the runtime entities in build order. The returned slice
// MUST NOT be mutated by the caller.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

// Entity returns the entity with the given id.
func (s *Scene) Entity(id string) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// pickSets returns the pickable group nodes of each category in the
// requested priority order.
func (s *Scene) pickSets(order []Category) []PickSet {
	sets := make([]PickSet, 0, len(order))
	for _, cat := range order {
		var parent *Node
		switch cat {
		case CategoryMember:
			parent = s.members
		case CategoryPanel:
			parent = s.panels
		}
		if parent == nil {
			continue
		}
		sets = append(sets, PickSet{Name: cat.String(), Nodes: parent.Children()})
	}
	return sets
}

// buildScene constructs the node tree for descs. Every geometry, material,
// texture and light is registered with res. Construction never waits on
// images: each member starts with a generated placeholder surface.
func buildScene(descs []EntityDescriptor, preset QualityPreset, res *Resources, log *slog.Logger) *Scene {
	s := &Scene{
		root:    NewGroup("root"),
		stars:   NewGroup("stars"),
		lights:  NewGroup("lights"),
		members: NewGroup("members"),
		panels:  NewGroup("panels"),
		byID:    make(map[string]*Entity, len(descs)),
		motions: make(map[string]*motion, len(descs)),
	}
	s.root.AddChild(s.stars)
	s.root.AddChild(s.lights)
	s.root.AddChild(s.members)
	s.root.AddChild(s.panels)

	s.buildStars(preset, res)

	if preset.MaxEntities > 0 && len(descs) > preset.MaxEntities {
		log.Warn("entity cap reached", "requested", len(descs), "kept", preset.MaxEntities)
		descs = descs[:preset.MaxEntities]
	}

	var nMembers, nPanels int
	for i := range descs {
		if descs[i].Category == CategoryPanel {
			nPanels++
		} else {
			nMembers++
		}
	}

	var mi, pi int
	for i := range descs {
		d := descs[i]
		var e *Entity
		if d.Category == CategoryPanel {
			e = s.buildPanel(&d, pi, nPanels, preset, res)
			pi++
		} else {
			e = s.buildMember(&d, mi, nMembers, preset, res)
			mi++
		}
		s.entities = append(s.entities, e)
		s.byID[d.ID] = e
	}

	log.Debug("scene built", "members", nMembers, "panels", nPanels, "stars", len(s.fields))
	return s
}

func (s *Scene) buildStars(preset QualityPreset, res *Resources) {
	for i, layer := range DefaultStarLayers {
		n := int(float64(layer.Count) * preset.StarScale)
		if n <= 0 {
			continue
		}
		geo := track(res, NewPointsGeometry(newStarPoints(layer, i, n), layer.Size))
		mat := track(res, NewMaterial(layer.Color))
		mat.Opacity = layer.Opacity
		mat.Fog = false
		node := NewPoints(fmt.Sprintf("stars-%d", i), geo, mat)
		s.stars.AddChild(node)
		s.fields = append(s.fields, &starField{
			node:    node,
			layer:   layer,
			index:   i,
			twinkle: 0.5 + float64(i)*0.3,
		})
	}
}

// newEntity creates the tagged group for d with its motion record.
func (s *Scene) newEntity(d *EntityDescriptor, index, count int) *Entity {
	base := layoutPosition(d, index, count)
	m := newMotion(d, index, base)
	s.motions[d.ID] = m

	group := NewGroup(d.ID)
	group.EntityID = d.ID
	group.Category = d.Category
	group.Pickable = true
	group.Position = base
	group.Rotation.Yaw = m.baseYaw
	group.Scale = 0

	return &Entity{
		Desc:        *d,
		Index:       index,
		group:       group,
		Fade:        1,
		SurfaceFade: 1,
	}
}

func (s *Scene) buildMember(d *EntityDescriptor, index, count int, preset QualityPreset, res *Resources) *Entity {
	e := s.newEntity(d, index, count)
	color := d.Color
	if color == (Color{}) {
		color = Color{0.4, 0.6, 1, 1}
	}

	e.group.PickGeometry = track(res, NewSphereGeometry(1.5, 8))

	volMat := track(res, NewMaterial(color))
	volMat.Opacity = memberVolumeOpacity
	volMat.EmissiveIntensity = memberEmissive
	e.volume = NewMesh(d.ID+"/volume", track(res, NewSphereGeometry(1, preset.SphereSegments)), volMat)
	e.group.AddChild(e.volume)

	e.surfaceTex = track(res, NewTextureFromImage(d.ID+"/card", renderMemberCard(d, nil)))
	surfMat := track(res, NewMaterial(ColorWhite))
	surfMat.Texture = e.surfaceTex
	e.surface = NewMesh(d.ID+"/surface", track(res, NewQuadGeometry(1.6, 2)), surfMat)
	e.group.AddChild(e.surface)

	if preset.PointLights {
		light := track(res, NewPointLight(color, memberLightIntensity, memberLightRange))
		e.light = NewLightNode(d.ID+"/light", light)
		e.light.Position = e.group.Position
		s.lights.AddChild(e.light)
	}

	s.members.AddChild(e.group)
	e.applyVisuals()
	return e
}

func (s *Scene) buildPanel(d *EntityDescriptor, index, count int, preset QualityPreset, res *Resources) *Entity {
	e := s.newEntity(d, index, count)
	accent := d.Color
	if accent == (Color{}) {
		accent = Color{0.3, 0.8, 1, 1}
	}

	e.group.PickGeometry = track(res, NewQuadGeometry(5, 3))

	volMat := track(res, NewMaterial(Color{0.05, 0.08, 0.15, 1}))
	volMat.Emissive = accent
	volMat.Opacity = panelVolumeOpacity
	volMat.EmissiveIntensity = panelEmissive
	e.volume = NewMesh(d.ID+"/volume", track(res, NewQuadGeometry(5.2, 3.2)), volMat)
	e.group.AddChild(e.volume)

	e.surfaceTex = track(res, NewTextureFromImage(d.ID+"/card", renderPanelCard(d)))
	surfMat := track(res, NewMaterial(ColorWhite))
	surfMat.Texture = e.surfaceTex
	e.surface = NewMesh(d.ID+"/surface", track(res, NewQuadGeometry(5, 3)), surfMat)
	e.group.AddChild(e.surface)

	if preset.PointLights {
		light := track(res, NewPointLight(accent, panelLightIntensity, panelLightRange))
		e.light = NewLightNode(d.ID+"/light", light)
		e.light.Position = e.group.Position
		s.lights.AddChild(e.light)
	}

	s.panels.AddChild(e.group)
	e.applyVisuals()
	return e
}
