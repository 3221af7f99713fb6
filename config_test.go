package orrery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleScene = `
quality: tablet
background: "#102030"
memberPolicy: select-only
entities:
  - id: ada
    label: Ada Lovelace
    color: "#ff8000"
    image: photos/ada.png
    seed: 9
  - id: story
    category: panel
    position: {x: 1, y: 2, z: 3}
    panel:
      title: Where we started
      body: A garage.
      link: https://example.com
`

func TestParseScene(t *testing.T) {
	sf, err := ParseScene([]byte(sampleScene))
	if err != nil {
		t.Fatal(err)
	}
	if sf.Quality != QualityTablet || sf.MemberPolicy != SelectOnly || sf.PanelPolicy != SelectZoom {
		t.Errorf("settings = %v/%v/%v", sf.Quality, sf.MemberPolicy, sf.PanelPolicy)
	}
	if len(sf.Entities) != 2 {
		t.Fatalf("entities = %d", len(sf.Entities))
	}
	ada := sf.Entities[0]
	if ada.ImageRef != "photos/ada.png" || ada.Seed != 9 || ada.Category != CategoryMember {
		t.Errorf("ada = %+v", ada)
	}
	if !approxEqual(ada.Color.R, 1, epsilon) || !approxEqual(ada.Color.G, 128.0/255, epsilon) {
		t.Errorf("ada color = %+v", ada.Color)
	}
	story := sf.Entities[1]
	if story.Category != CategoryPanel || story.Panel == nil || story.Panel.Link != "https://example.com" {
		t.Errorf("story = %+v", story)
	}
	if story.Position == nil || *story.Position != (Vec3{1, 2, 3}) {
		t.Errorf("story position = %v", story.Position)
	}

	cfg := DefaultConfig()
	sf.Apply(&cfg)
	if cfg.Quality != QualityTablet || cfg.policy(CategoryMember) != SelectOnly {
		t.Errorf("applied config = %+v", cfg)
	}
	if !approxEqual(cfg.Background.B, 0x30/255.0, epsilon) {
		t.Errorf("background = %+v", cfg.Background)
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"empty id", "entities:\n  - label: nobody\n", ErrEmptyEntityID},
		{"duplicate id", "entities:\n  - id: a\n  - id: a\n", ErrDuplicateEntity},
		{"bad category", "entities:\n  - id: a\n    category: planet\n", nil},
		{"bad color", "entities:\n  - id: a\n    color: teal\n", nil},
		{"bad quality", "quality: ultra\n", nil},
		{"bad policy", "panelPolicy: maybe\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}
	sf, err := LoadSceneFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.Entities) != 2 {
		t.Errorf("entities = %d", len(sf.Entities))
	}
	if _, err := LoadSceneFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		tier   QualityTier
		max    int
		lights bool
		stars  float64
	}{
		{QualityDesktop, 64, true, 1},
		{QualityTablet, 32, true, 0.5},
		{QualityMobile, 16, false, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			p := Preset(tt.tier)
			if p.MaxEntities != tt.max || p.PointLights != tt.lights || p.StarScale != tt.stars {
				t.Errorf("preset = %+v", p)
			}
			if p.MemberLOD.Near >= p.MemberLOD.Far || p.PanelLOD.Near >= p.PanelLOD.Far {
				t.Errorf("LOD thresholds out of order: %+v", p)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.Width = -1
	if cfg.Validate() == nil {
		t.Error("negative width accepted")
	}
	cfg = DefaultConfig()
	cfg.Preset = &QualityPreset{MemberLOD: LODThresholds{Near: 10, Far: 5}}
	if cfg.Validate() == nil {
		t.Error("inverted LOD accepted")
	}
	if _, err := New(cfg); err == nil {
		t.Error("New accepted an invalid config")
	}
}

func TestMobileHasNoPointLights(t *testing.T) {
	res := newResources(discardLogger())
	s := buildScene(sceneDescs(3, 2), Preset(QualityMobile), res, discardLogger())
	if c := res.Counts(); c.Lights != 0 {
		t.Errorf("Lights = %d on mobile", c.Lights)
	}
	if s.lights.NumChildren() != 0 {
		t.Error("light nodes built on mobile")
	}
}

func TestEntityCap(t *testing.T) {
	p := Preset(QualityMobile)
	res := newResources(discardLogger())
	s := buildScene(sceneDescs(20, 10), p, res, discardLogger())
	if len(s.Entities()) != p.MaxEntities {
		t.Errorf("entities = %d, want %d", len(s.Entities()), p.MaxEntities)
	}
}

func TestSceneFilePickOrder(t *testing.T) {
	sf, err := ParseScene([]byte("pickOrder: [member, panel]\n"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	sf.Apply(&cfg)
	if len(cfg.PickOrder) != 2 || cfg.PickOrder[0] != CategoryMember {
		t.Errorf("pick order = %v", cfg.PickOrder)
	}

	cfg = DefaultConfig()
	(&SceneFile{}).Apply(&cfg)
	if len(cfg.PickOrder) != 2 || cfg.PickOrder[0] != CategoryPanel {
		t.Errorf("default pick order replaced: %v", cfg.PickOrder)
	}
}
