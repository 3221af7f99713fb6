package orrery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupported is reported when the graphics capability check fails.
	ErrUnsupported = errors.New("orrery: graphics capability unavailable")
	// ErrEmptyEntityID is returned by Mount for a descriptor without an ID.
	ErrEmptyEntityID = errors.New("orrery: entity id is empty")
	// ErrDuplicateEntity is returned by Mount when two descriptors share an ID.
	ErrDuplicateEntity = errors.New("orrery: duplicate entity id")
	// ErrEngineClosed is returned when mounting an engine after a fatal error.
	ErrEngineClosed = errors.New("orrery: engine closed")
)

// QualityTier selects how much is instantiated: entity cap, star count,
// point lights and LOD distances.
type QualityTier uint8

const (
	QualityDesktop QualityTier = iota
	QualityTablet
	QualityMobile
)

func (q QualityTier) String() string {
	switch q {
	case QualityDesktop:
		return "desktop"
	case QualityTablet:
		return "tablet"
	case QualityMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// UnmarshalText parses "desktop", "tablet" or "mobile".
func (q *QualityTier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "desktop", "":
		*q = QualityDesktop
	case "tablet":
		*q = QualityTablet
	case "mobile":
		*q = QualityMobile
	default:
		return fmt.Errorf("unknown quality tier %q", text)
	}
	return nil
}

// LODThresholds are camera distances. Beyond Far an entity is at the far
// tier, beyond Near at medium, otherwise near.
type LODThresholds struct {
	Near, Far float64
}

// QualityPreset is the concrete budget a QualityTier resolves to.
type QualityPreset struct {
	MaxEntities    int     // entities beyond this are not instantiated
	StarScale      float64 // multiplier on star field layer counts
	PointLights    bool    // per-entity point lights
	SphereSegments int
	MemberLOD      LODThresholds
	PanelLOD       LODThresholds
}

// Preset returns the built-in preset for a tier.
func Preset(q QualityTier) QualityPreset {
	switch q {
	case QualityTablet:
		return QualityPreset{
			MaxEntities:    32,
			StarScale:      0.5,
			PointLights:    true,
			SphereSegments: 24,
			MemberLOD:      LODThresholds{Near: 10, Far: 20},
			PanelLOD:       LODThresholds{Near: 12, Far: 25},
		}
	case QualityMobile:
		return QualityPreset{
			MaxEntities:    16,
			StarScale:      0.25,
			PointLights:    false,
			SphereSegments: 16,
			MemberLOD:      LODThresholds{Near: 8, Far: 16},
			PanelLOD:       LODThresholds{Near: 10, Far: 20},
		}
	default:
		return QualityPreset{
			MaxEntities:    64,
			StarScale:      1,
			PointLights:    true,
			SphereSegments: 32,
			MemberLOD:      LODThresholds{Near: 12, Far: 25},
			PanelLOD:       LODThresholds{Near: 15, Far: 30},
		}
	}
}

// SelectionPolicy decides what a click on an entity does.
type SelectionPolicy uint8

const (
	// SelectZoom selects the entity and flies the camera to it.
	SelectZoom SelectionPolicy = iota
	// SelectOnly reports the selection without moving the camera.
	SelectOnly
)

// UnmarshalText parses "zoom" or "select-only".
func (p *SelectionPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "zoom", "":
		*p = SelectZoom
	case "select-only":
		*p = SelectOnly
	default:
		return fmt.Errorf("unknown selection policy %q", text)
	}
	return nil
}

// FlyProgress is reported on every frame of a camera fly animation.
type FlyProgress struct {
	Mode     CameraMode
	EntityID string
	// Progress runs from 0 to 1 over the animation.
	Progress float64
	// OverlayOpacity is the opacity the host should give its 2D detail
	// overlay. It stays 0 until the last 30% of a fly-to.
	OverlayOpacity float64
}

// Config parameterises an Engine.
type Config struct {
	// Quality selects the built-in preset. Preset, when non-nil, replaces it.
	Quality QualityTier
	Preset  *QualityPreset

	// Width and Height are the initial surface size in pixels.
	Width, Height int

	// Background is the clear color.
	Background Color

	// MemberPolicy and PanelPolicy choose what a click does per category.
	MemberPolicy SelectionPolicy
	PanelPolicy  SelectionPolicy

	// PickOrder lists categories in tie-break priority order. Defaults to
	// panels before members.
	PickOrder []Category

	// SkipEntrance starts every entity at full scale instead of playing the
	// staggered scale-in.
	SkipEntrance bool

	// Loader fetches entity images. Nil means every entity keeps its
	// generated placeholder.
	Loader ImageLoader

	// Capability is checked once before the first mount. A non-nil error is
	// fatal.
	Capability func() error

	// Logger receives engine logs. Defaults to a discarding logger.
	Logger *slog.Logger

	// Debug enables per-frame timing logs.
	Debug bool
	// ShowFPS draws an FPS/TPS overlay in the top-left corner.
	ShowFPS bool
	// ScreenshotDir receives PNGs queued with Engine.Screenshot. Defaults
	// to "screenshots".
	ScreenshotDir string

	OnEntitySelected func(id string) // "" means the selection was cleared
	OnPanelSelected  func(PanelPayload)
	OnReady          func()
	OnFatalError     func(msg string)
	OnFlyProgress    func(FlyProgress)
}

// DefaultConfig returns the desktop configuration at 1280x720.
func DefaultConfig() Config {
	return Config{
		Quality:    QualityDesktop,
		Width:      1280,
		Height:     720,
		Background: Color{0, 0, 0, 1},
		PickOrder:  []Category{CategoryPanel, CategoryMember},
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("orrery: invalid surface size %dx%d", c.Width, c.Height)
	}
	if c.Preset != nil {
		for _, l := range []LODThresholds{c.Preset.MemberLOD, c.Preset.PanelLOD} {
			if l.Near < 0 || l.Far < l.Near {
				return fmt.Errorf("orrery: invalid LOD thresholds near=%v far=%v", l.Near, l.Far)
			}
		}
	}
	return nil
}

func (c *Config) preset() QualityPreset {
	if c.Preset != nil {
		return *c.Preset
	}
	return Preset(c.Quality)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c *Config) policy(cat Category) SelectionPolicy {
	if cat == CategoryPanel {
		return c.PanelPolicy
	}
	return c.MemberPolicy
}

// --- Scene files ---

// SceneFile is the YAML form of a scene: presentation settings plus the
// entity list.
type SceneFile struct {
	Quality      QualityTier        `yaml:"quality"`
	Background   *Color             `yaml:"background"`
	MemberPolicy SelectionPolicy    `yaml:"memberPolicy"`
	PanelPolicy  SelectionPolicy    `yaml:"panelPolicy"`
	PickOrder    []Category         `yaml:"pickOrder"`
	Entities     []EntityDescriptor `yaml:"entities"`
}

// ParseScene decodes a YAML scene.
func ParseScene(data []byte) (*SceneFile, error) {
	var s SceneFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := validateDescriptors(s.Entities); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// LoadSceneFile reads and decodes a YAML scene from disk.
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return ParseScene(data)
}

// Apply copies the scene's presentation settings into cfg.
func (s *SceneFile) Apply(cfg *Config) {
	cfg.Quality = s.Quality
	cfg.MemberPolicy = s.MemberPolicy
	cfg.PanelPolicy = s.PanelPolicy
	if s.Background != nil {
		cfg.Background = *s.Background
	}
	if len(s.PickOrder) > 0 {
		cfg.PickOrder = s.PickOrder
	}
}
