package orrery

import (
	"cmp"
	"image"
	"math"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandSphere CommandType = iota // translucent sphere drawn as a shaded disc
	CommandQuad                      // textured or flat quad
)

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type      CommandType
	Depth     float64
	BlendMode BlendMode
	treeOrder int // assigned during traversal for stable sort

	verts []ebiten.Vertex
	inds  []uint16
	image *ebiten.Image
}

// Linear depth fog, matching a black background.
const (
	fogNear = 10.0
	fogFar  = 100.0
)

func fogFactor(depth float64) float64 {
	return clamp01((fogFar - depth) / (fogFar - fogNear))
}

// whiteSrc samples the centre of the renderer's white sub-image.
const whiteSrc = 1.5

// renderer projects the scene with the camera and rasterises it with
// DrawTriangles. Commands are depth sorted back to front.
type renderer struct {
	white    *ebiten.Image
	commands []RenderCommand
	vertBuf  []ebiten.Vertex
	indBuf   []uint16
	stars    []ebiten.Vertex
	starInds []uint16
	stats    debugStats
}

func newRenderer() *renderer {
	img := ebiten.NewImage(3, 3)
	img.Fill(ColorWhite.RGBA())
	return &renderer{
		white: img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// draw renders one frame of s into screen.
func (r *renderer) draw(screen *ebiten.Image, s *Scene, cam *Camera, lights *LightLayer, bg Color) {
	r.stats = debugStats{updateTime: r.stats.updateTime}
	screen.Fill(bg.RGBA())

	t0 := time.Now()
	r.drawStars(screen, s, cam)

	r.commands = r.commands[:0]
	r.vertBuf = r.vertBuf[:0]
	r.indBuf = r.indBuf[:0]
	order := 0
	for _, parent := range []*Node{s.members, s.panels} {
		for _, group := range parent.Children() {
			if !group.Visible || group.Scale <= 0 {
				continue
			}
			for _, n := range group.Children() {
				if !n.Visible || n.Type != NodeTypeMesh {
					continue
				}
				r.emit(n, cam, order)
				order++
			}
		}
	}
	t1 := time.Now()

	slices.SortStableFunc(r.commands, func(a, b RenderCommand) int {
		if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.treeOrder, b.treeOrder)
	})
	t2 := time.Now()

	var op ebiten.DrawTrianglesOptions
	for i := range r.commands {
		cmd := &r.commands[i]
		img := cmd.image
		if img == nil {
			img = r.white
		}
		op.Blend = cmd.BlendMode.EbitenBlend()
		screen.DrawTriangles(cmd.verts, cmd.inds, img, &op)
		r.stats.drawCallCount++
	}

	if lights != nil {
		r.drawLights(screen, s, cam, lights)
	}
	t3 := time.Now()

	r.stats.traverseTime = t1.Sub(t0)
	r.stats.sortTime = t2.Sub(t1)
	r.stats.submitTime = t3.Sub(t2)
	r.stats.commandCount = len(r.commands)
}

// emit appends the command for mesh node n, if it is in front of the camera.
func (r *renderer) emit(n *Node, cam *Camera, order int) {
	geo, mat := n.Geometry, n.Material
	if geo == nil || mat == nil || mat.Opacity <= 0 {
		return
	}
	pos, rot, scale := n.World()
	switch geo.Kind {
	case GeometrySphere:
		r.emitSphere(geo, mat, pos, scale, cam, order)
	case GeometryQuad:
		r.emitQuad(geo, mat, pos, rot, scale, cam, order)
	}
}

func (r *renderer) emitSphere(geo *Geometry, mat *Material, pos Vec3, scale float64, cam *Camera, order int) {
	sx, sy, depth, ok := cam.Project(pos)
	if !ok {
		return
	}
	radius := geo.Radius * scale * cam.PixelsPerUnit(depth)
	if radius < 0.5 {
		return
	}
	c := mat.shade(sceneAmbient)
	alpha := mat.Opacity * fogFactor(depth)
	rim := c.Lerp(ColorWhite, 0.35)

	base := len(r.vertBuf)
	r.vertBuf = append(r.vertBuf, vertex(sx, sy, whiteSrc, whiteSrc, c, alpha*0.55))
	for i := 0; i <= geo.Segments; i++ {
		a := float64(i) / float64(geo.Segments) * 2 * math.Pi
		r.vertBuf = append(r.vertBuf, vertex(sx+math.Cos(a)*radius, sy+math.Sin(a)*radius, whiteSrc, whiteSrc, rim, alpha))
	}
	ib := len(r.indBuf)
	for i := 1; i <= geo.Segments; i++ {
		r.indBuf = append(r.indBuf, 0, uint16(i), uint16(i+1))
	}
	r.commands = append(r.commands, RenderCommand{
		Type:      CommandSphere,
		Depth:     depth,
		BlendMode: mat.Blend,
		treeOrder: order,
		verts:     r.vertBuf[base:len(r.vertBuf):len(r.vertBuf)],
		inds:      r.indBuf[ib:len(r.indBuf):len(r.indBuf)],
	})
}

func (r *renderer) emitQuad(geo *Geometry, mat *Material, pos Vec3, rot Rotation, scale float64, cam *Camera, order int) {
	right, up, _ := rot.basis()
	hw, hh := geo.Width/2*scale, geo.Height/2*scale
	corners := [4]Vec3{
		pos.Sub(right.Mul(hw)).Add(up.Mul(hh)), // top-left
		pos.Add(right.Mul(hw)).Add(up.Mul(hh)), // top-right
		pos.Add(right.Mul(hw)).Sub(up.Mul(hh)), // bottom-right
		pos.Sub(right.Mul(hw)).Sub(up.Mul(hh)), // bottom-left
	}
	_, _, depth, ok := cam.Project(pos)
	if !ok {
		return
	}

	var img *ebiten.Image
	sw, sh := float32(1), float32(1)
	if mat.Texture != nil && mat.Texture.Image() != nil {
		img = mat.Texture.Image()
		sw, sh = float32(mat.Texture.Width()), float32(mat.Texture.Height())
	}
	src := [4][2]float32{{0, 0}, {sw, 0}, {sw, sh}, {0, sh}}
	if img == nil {
		// Sample the centre of the white sub-image.
		src = [4][2]float32{{1, 1}, {2, 1}, {2, 2}, {1, 2}}
	}

	c := mat.shade(sceneAmbient)
	if img != nil {
		c = ColorWhite.Lerp(c, 0.15)
	}
	alpha := mat.Opacity
	if mat.Fog {
		alpha *= fogFactor(depth)
	}

	base := len(r.vertBuf)
	for i, p := range corners {
		x, y, _, ok := cam.Project(p)
		if !ok {
			r.vertBuf = r.vertBuf[:base]
			return
		}
		v := vertex(x, y, src[i][0], src[i][1], c, alpha)
		r.vertBuf = append(r.vertBuf, v)
	}
	ib := len(r.indBuf)
	r.indBuf = append(r.indBuf, 0, 1, 2, 0, 2, 3)
	r.commands = append(r.commands, RenderCommand{
		Type:      CommandQuad,
		Depth:     depth,
		BlendMode: mat.Blend,
		treeOrder: order,
		verts:     r.vertBuf[base:len(r.vertBuf):len(r.vertBuf)],
		inds:      r.indBuf[ib:len(r.indBuf):len(r.indBuf)],
		image:     img,
	})
}

// drawStars renders every star layer. The field reaches past the far plane,
// so stars are projected with an unbounded depth range.
func (r *renderer) drawStars(screen *ebiten.Image, s *Scene, cam *Camera) {
	sky := *cam
	sky.Far = math.Inf(1)
	var op ebiten.DrawTrianglesOptions
	op.Blend = BlendAdd.EbitenBlend()
	for _, f := range s.fields {
		n := f.node
		if n.IsDisposed() || !n.Visible || n.Geometry == nil || n.Material == nil {
			continue
		}
		_, rot, scale := n.World()
		c := n.Material.Color
		alpha := n.Material.Opacity
		size := n.Geometry.PointSize / 2

		r.stars = r.stars[:0]
		r.starInds = r.starInds[:0]
		for _, p := range n.Geometry.Points {
			x, y, _, ok := sky.Project(rot.apply(p.Mul(scale)))
			if !ok {
				continue
			}
			if len(r.stars)+4 > math.MaxUint16 {
				screen.DrawTriangles(r.stars, r.starInds, r.white, &op)
				r.stats.drawCallCount++
				r.stars = r.stars[:0]
				r.starInds = r.starInds[:0]
			}
			b := uint16(len(r.stars))
			r.stars = append(r.stars,
				vertex(x-size, y-size, 1, 1, c, alpha),
				vertex(x+size, y-size, 2, 1, c, alpha),
				vertex(x+size, y+size, 2, 2, c, alpha),
				vertex(x-size, y+size, 1, 2, c, alpha),
			)
			r.starInds = append(r.starInds, b, b+1, b+2, b, b+2, b+3)
		}
		if len(r.stars) > 0 {
			screen.DrawTriangles(r.stars, r.starInds, r.white, &op)
			r.stats.drawCallCount++
		}
	}
}

// drawLights queues a glow for every visible light and adds the light layer
// over the frame.
func (r *renderer) drawLights(screen *ebiten.Image, s *Scene, cam *Camera, lights *LightLayer) {
	lights.reset()
	for _, n := range s.lights.Children() {
		l := n.Light
		if l == nil || !n.Visible || !l.Visible {
			continue
		}
		x, y, depth, ok := cam.Project(n.WorldPosition())
		if !ok {
			continue
		}
		lights.add(glow{
			x:         x,
			y:         y,
			radius:    l.Range * 0.35 * cam.PixelsPerUnit(depth),
			intensity: l.Intensity * fogFactor(depth),
			color:     l.Color,
		})
	}
	lights.Redraw()
	lights.Composite(screen)
	r.stats.lightCount = len(lights.glows)
}

func vertex(x, y float64, srcX, srcY float32, c Color, alpha float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   srcX,
		SrcY:   srcY,
		ColorR: float32(clamp01(c.R)),
		ColorG: float32(clamp01(c.G)),
		ColorB: float32(clamp01(c.B)),
		ColorA: float32(clamp01(alpha)),
	}
}
