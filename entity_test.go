package orrery

import (
	"errors"
	"testing"
)

func TestLodFor(t *testing.T) {
	th := Preset(QualityDesktop).MemberLOD
	tests := []struct {
		dist float64
		want LODLevel
	}{
		{0, LODNear},
		{th.Near, LODNear},
		{th.Near + 0.01, LODMedium},
		{th.Far, LODMedium},
		{th.Far + 0.01, LODFar},
	}
	for _, tt := range tests {
		if got := lodFor(tt.dist, th); got != tt.want {
			t.Errorf("lodFor(%v) = %v, want %v", tt.dist, got, tt.want)
		}
	}
}

func TestValidateDescriptors(t *testing.T) {
	tests := []struct {
		name  string
		descs []EntityDescriptor
		want  error
	}{
		{"ok", []EntityDescriptor{{ID: "a"}, {ID: "b"}}, nil},
		{"empty", nil, nil},
		{"missing id", []EntityDescriptor{{ID: "a"}, {}}, ErrEmptyEntityID},
		{"duplicate", []EntityDescriptor{{ID: "a"}, {ID: "a", Category: CategoryPanel}}, ErrDuplicateEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDescriptors(tt.descs)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyVisualsIdempotent(t *testing.T) {
	s, _ := testScene(t, []EntityDescriptor{{ID: "m"}, {ID: "p", Category: CategoryPanel}})
	cam := newCamera(Rect{Width: 800, Height: 600})
	s.animate(0, cam, Preset(QualityDesktop), true)

	for _, e := range s.entities {
		e.Hovered = true
		e.applyVisuals()
		e.applyVisuals()
		hoverScale, hoverOpacity := e.group.Scale, e.volume.Material.Opacity

		e.Hovered = false
		e.applyVisuals()
		if e.group.Scale != 1 {
			t.Errorf("%s: scale after unhover = %v", e.ID(), e.group.Scale)
		}
		if hoverScale <= 1 || hoverOpacity <= e.volume.Material.Opacity {
			t.Errorf("%s: hover scale=%v opacity=%v", e.ID(), hoverScale, hoverOpacity)
		}

		e.Hovered = true
		e.applyVisuals()
		if e.group.Scale != hoverScale || e.volume.Material.Opacity != hoverOpacity {
			t.Errorf("%s: hover not reproducible", e.ID())
		}
		e.Hovered = false
		e.applyVisuals()
	}
}

func TestApplyVisualsFade(t *testing.T) {
	s, _ := testScene(t, []EntityDescriptor{{ID: "m"}})
	cam := newCamera(Rect{Width: 800, Height: 600})
	s.animate(0, cam, Preset(QualityDesktop), true)
	e := s.entities[0]

	e.Fade = 0.2
	e.SurfaceFade = 0
	e.applyVisuals()
	if !approxEqual(e.volume.Material.Opacity, memberVolumeOpacity*0.2, epsilon) {
		t.Errorf("volume opacity = %v", e.volume.Material.Opacity)
	}
	if e.surface.Visible {
		t.Error("surface visible with SurfaceFade 0")
	}
	if !approxEqual(e.light.Light.Intensity, memberLightIntensity*0.2, epsilon) {
		t.Errorf("light intensity = %v", e.light.Light.Intensity)
	}
}

func TestDescriptorRandDeterministic(t *testing.T) {
	a := EntityDescriptor{ID: "x", Seed: 9}
	b := EntityDescriptor{ID: "y", Seed: 9}
	if descriptorRand(&a).Uint64() != descriptorRand(&a).Uint64() {
		t.Error("same descriptor, different stream")
	}
	if descriptorRand(&a).Uint64() == descriptorRand(&b).Uint64() {
		t.Error("different ids, same stream")
	}
}
