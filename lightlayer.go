package orrery

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/hajimehoshi/ebiten/v2"
)

// glow is one light as it lands on screen: a centre, a radius in pixels and
// a tint.
type glow struct {
	x, y      float64
	radius    float64
	intensity float64
	color     Color
}

// LightLayer accumulates point-light glows in an offscreen texture the size
// of the surface, then adds it over the rendered scene. Resizing the surface
// reallocates the texture in place, so resource counts stay constant.
type LightLayer struct {
	target *Texture
	sprite *Texture
	glows  []glow
	imgOp  ebiten.DrawImageOptions
}

const glowSpriteSize = 64

// newLightLayer creates a light layer covering (w x h) pixels. Both textures
// are registered with res.
func newLightLayer(res *Resources, w, h int) *LightLayer {
	return &LightLayer{
		target: track(res, NewTexture("light-layer", max(w, 1), max(h, 1))),
		sprite: track(res, NewTextureFromImage("glow", generateGlow(glowSpriteSize))),
	}
}

// Resize reallocates the offscreen target.
func (ll *LightLayer) Resize(w, h int) {
	ll.target.Resize(max(w, 1), max(h, 1))
}

// Size returns the offscreen target size.
func (ll *LightLayer) Size() (int, int) {
	return ll.target.Width(), ll.target.Height()
}

func (ll *LightLayer) reset() {
	ll.glows = ll.glows[:0]
}

func (ll *LightLayer) add(g glow) {
	if g.radius <= 0 || g.intensity <= 0 {
		return
	}
	ll.glows = append(ll.glows, g)
}

// Redraw clears the texture and draws every queued glow additively.
func (ll *LightLayer) Redraw() {
	target := ll.target.Image()
	sprite := ll.sprite.Image()
	if target == nil || sprite == nil {
		return
	}
	target.Clear()

	op := &ll.imgOp
	sz := float64(glowSpriteSize)
	for _, g := range ll.glows {
		op.GeoM.Reset()
		op.GeoM.Scale(g.radius*2/sz, g.radius*2/sz)
		op.GeoM.Translate(g.x-g.radius, g.y-g.radius)
		op.ColorScale.Reset()
		i := float32(clamp01(g.intensity))
		op.ColorScale.Scale(float32(g.color.R)*i, float32(g.color.G)*i, float32(g.color.B)*i, i)
		op.Blend = BlendAdd.EbitenBlend()
		target.DrawImage(sprite, op)
	}
}

// Composite adds the light texture over dst.
func (ll *LightLayer) Composite(dst *ebiten.Image) {
	target := ll.target.Image()
	if target == nil || len(ll.glows) == 0 {
		return
	}
	op := &ll.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = BlendAdd.EbitenBlend()
	dst.DrawImage(target, op)
}

// generateGlow creates a soft white radial sprite: a smoothstep falloff
// softened further with a Gaussian blur.
func generateGlow(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			dist := math.Sqrt(dx*dx+dy*dy) / (r * 0.8)
			var a float64
			if dist < 1 {
				t := 1 - dist
				a = t * t * (3 - 2*t)
			}
			v := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{v, v, v, v})
		}
	}
	return blur.Gaussian(img, float64(size)/16)
}
