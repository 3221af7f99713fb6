package orrery

// GeometryKind selects the shape a Geometry describes.
type GeometryKind uint8

const (
	GeometrySphere GeometryKind = iota // sphere of Radius
	GeometryQuad                       // Width x Height rectangle facing +Z
	GeometryPoints                     // point cloud
)

// Geometry is shape data shared by mesh nodes and the picker.
type Geometry struct {
	Kind GeometryKind

	Radius   float64 // sphere
	Segments int     // sphere outline resolution when rasterised

	Width, Height float64 // quad

	Points    []Vec3  // point cloud, in local space
	PointSize float64 // world-space point size

	disposed bool
}

// NewSphereGeometry creates a sphere of the given radius.
func NewSphereGeometry(radius float64, segments int) *Geometry {
	if segments < 8 {
		segments = 8
	}
	return &Geometry{Kind: GeometrySphere, Radius: radius, Segments: segments}
}

// NewQuadGeometry creates a w x h rectangle centred on the origin.
func NewQuadGeometry(w, h float64) *Geometry {
	return &Geometry{Kind: GeometryQuad, Width: w, Height: h}
}

// NewPointsGeometry creates a point cloud.
func NewPointsGeometry(points []Vec3, size float64) *Geometry {
	return &Geometry{Kind: GeometryPoints, Points: points, PointSize: size}
}

// ResourceKind implements Resource.
func (g *Geometry) ResourceKind() ResourceKind { return ResourceGeometry }

// Dispose drops the vertex data. Safe to call more than once.
func (g *Geometry) Dispose() {
	g.disposed = true
	g.Points = nil
}

// IsDisposed implements Resource.
func (g *Geometry) IsDisposed() bool { return g.disposed }

// Material describes how a mesh or point cloud is shaded.
type Material struct {
	Color             Color
	Opacity           float64
	Emissive          Color
	EmissiveIntensity float64
	Texture           *Texture
	Blend             BlendMode

	// Fog fades the surface with view depth.
	Fog bool

	disposed bool
}

// NewMaterial creates an opaque material of the given color.
func NewMaterial(c Color) *Material {
	return &Material{Color: c, Opacity: 1, Emissive: c, Fog: true}
}

// ResourceKind implements Resource.
func (m *Material) ResourceKind() ResourceKind { return ResourceMaterial }

// Dispose detaches the texture reference. The texture itself is a separate
// resource. Safe to call more than once.
func (m *Material) Dispose() {
	m.disposed = true
	m.Texture = nil
}

// IsDisposed implements Resource.
func (m *Material) IsDisposed() bool { return m.disposed }

// shade returns the premultiplied-ready tint for the material.
func (m *Material) shade(ambient float64) Color {
	light := ambient + m.EmissiveIntensity
	c := Color{
		R: m.Color.R*ambient + m.Emissive.R*m.EmissiveIntensity,
		G: m.Color.G*ambient + m.Emissive.G*m.EmissiveIntensity,
		B: m.Color.B*ambient + m.Emissive.B*m.EmissiveIntensity,
		A: m.Opacity,
	}
	if light > 1 {
		c = c.Scale(1 / light)
	}
	return c
}

// PointLight is a coloured light with a finite range. It renders as an
// additive glow in the light layer.
type PointLight struct {
	Color     Color
	Intensity float64
	Range     float64
	Visible   bool

	disposed bool
}

// NewPointLight creates a visible point light.
func NewPointLight(c Color, intensity, rng float64) *PointLight {
	return &PointLight{Color: c, Intensity: intensity, Range: rng, Visible: true}
}

// ResourceKind implements Resource.
func (l *PointLight) ResourceKind() ResourceKind { return ResourceLight }

// Dispose turns the light off. Safe to call more than once.
func (l *PointLight) Dispose() {
	l.disposed = true
	l.Visible = false
}

// IsDisposed implements Resource.
func (l *PointLight) IsDisposed() bool { return l.disposed }
