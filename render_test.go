package orrery

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestFogFactor(t *testing.T) {
	tests := []struct {
		depth, want float64
	}{
		{5, 1},
		{10, 1},
		{55, 0.5},
		{100, 0},
		{150, 0},
	}
	for _, tt := range tests {
		if got := fogFactor(tt.depth); !approxEqual(got, tt.want, epsilon) {
			t.Errorf("fogFactor(%v) = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestRenderSortsBackToFront(t *testing.T) {
	descs := []EntityDescriptor{
		{ID: "near", Position: at(0, 0, 12)},
		{ID: "far", Position: at(3, 0, -10)},
		{ID: "mid", Category: CategoryPanel, Position: at(-3, 0, 2)},
	}
	s, res := testScene(t, descs)
	cam := newCamera(Rect{Width: 800, Height: 600})
	s.animate(0, cam, Preset(QualityDesktop), true)
	for _, e := range s.entities {
		e.applyVisuals()
	}

	r := newRenderer()
	lights := newLightLayer(res, 800, 600)
	r.draw(ebiten.NewImage(800, 600), s, cam, lights, ColorWhite)

	if len(r.commands) == 0 {
		t.Fatal("no commands emitted")
	}
	for i := 1; i < len(r.commands); i++ {
		if r.commands[i].Depth > r.commands[i-1].Depth {
			t.Fatalf("command %d (depth %v) after shallower %v", i, r.commands[i].Depth, r.commands[i-1].Depth)
		}
	}
	if r.stats.commandCount != len(r.commands) || r.stats.drawCallCount < len(r.commands) {
		t.Errorf("stats = %+v", r.stats)
	}
	// The far member is past the LOD far threshold, so its light is off.
	if r.stats.lightCount != 2 {
		t.Errorf("lightCount = %d, want 2", r.stats.lightCount)
	}
}

func TestRenderStableOnEqualDepth(t *testing.T) {
	// A member's volume and surface share a centre, so tree order decides.
	s, _ := testScene(t, []EntityDescriptor{{ID: "m", Position: at(0, 0, 10)}})
	cam := newCamera(Rect{Width: 800, Height: 600})
	s.animate(0, cam, Preset(QualityDesktop), true)
	s.entities[0].applyVisuals()

	r := newRenderer()
	r.draw(ebiten.NewImage(800, 600), s, cam, nil, ColorWhite)
	if len(r.commands) != 2 {
		t.Fatalf("commands = %d, want volume and surface", len(r.commands))
	}
	if r.commands[0].Type != CommandSphere || r.commands[1].Type != CommandQuad {
		t.Errorf("order = %v, %v", r.commands[0].Type, r.commands[1].Type)
	}
}

func TestRenderSkipsInvisible(t *testing.T) {
	s, _ := testScene(t, []EntityDescriptor{{ID: "m", Position: at(0, 0, 10)}})
	cam := newCamera(Rect{Width: 800, Height: 600})
	// Entrance not started: the group has zero scale.
	s.animate(0, cam, Preset(QualityDesktop), false)
	s.entities[0].applyVisuals()

	r := newRenderer()
	r.draw(ebiten.NewImage(800, 600), s, cam, nil, ColorWhite)
	if len(r.commands) != 0 {
		t.Errorf("commands = %d before entrance", len(r.commands))
	}
}

func TestRenderSolidFillsSampleWhitePixel(t *testing.T) {
	s, _ := testScene(t, []EntityDescriptor{
		{ID: "m", Position: at(0, 0, 10)},
		{ID: "p", Category: CategoryPanel, Position: at(2, 0, 8)},
	})
	cam := newCamera(Rect{Width: 800, Height: 600})
	s.animate(0, cam, Preset(QualityDesktop), true)
	for _, e := range s.entities {
		e.applyVisuals()
	}

	r := newRenderer()
	r.draw(ebiten.NewImage(800, 600), s, cam, nil, ColorWhite)
	var solids int
	for _, cmd := range r.commands {
		if cmd.image != nil {
			continue
		}
		solids++
		for _, v := range cmd.verts {
			if v.SrcX < 1 || v.SrcX > 2 || v.SrcY < 1 || v.SrcY > 2 {
				t.Fatalf("%v command samples (%v, %v) outside the white pixel", cmd.Type, v.SrcX, v.SrcY)
			}
		}
	}
	if solids == 0 {
		t.Fatal("no solid commands")
	}
}
