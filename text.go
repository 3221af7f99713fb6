package orrery

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Content surface sizes in pixels.
const (
	memberCardW = 128
	memberCardH = 160
	panelCardW  = 512
	panelCardH  = 307
)

var cardFace font.Face = basicfont.Face7x13

// initials returns up to two upper-case initials for label.
func initials(label string) string {
	var out []rune
	for _, w := range strings.Fields(label) {
		r, _ := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// fillGradient paints a vertical gradient from top to bottom.
func fillGradient(img *image.RGBA, top, bottom Color) {
	b := img.Bounds()
	h := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y-b.Min.Y) / float64(h-1)
		}
		c := top.Lerp(bottom, t).RGBA()
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// drawString draws s with its baseline at (x, y).
func drawString(dst draw.Image, x, y int, s string, c Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.RGBA()),
		Face: cardFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawStringCentered draws s centred horizontally on cx.
func drawStringCentered(dst draw.Image, cx, y int, s string, c Color) {
	w := font.MeasureString(cardFace, s).Ceil()
	drawString(dst, cx-w/2, y, s, c)
}

// scaledString rasterises s at the font's native size and enlarges it by
// an integer factor, which keeps the bitmap font crisp.
func scaledString(s string, scale int, c Color) image.Image {
	m := cardFace.Metrics()
	w := font.MeasureString(cardFace, s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	drawString(small, 0, m.Ascent.Ceil(), s, c)
	return transform.Resize(small, w*scale, h*scale, transform.NearestNeighbor)
}

// wrapText breaks s into lines no wider than maxWidth pixels.
func wrapText(s string, maxWidth int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if font.MeasureString(cardFace, candidate).Ceil() > maxWidth && line != "" {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// truncate shortens s with an ellipsis until it fits maxWidth pixels.
func truncate(s string, maxWidth int) string {
	if font.MeasureString(cardFace, s).Ceil() <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := string(r) + "..."
		if font.MeasureString(cardFace, t).Ceil() <= maxWidth {
			return t
		}
	}
	return ""
}

// circle is an image.Image mask that is opaque inside a circle.
type circle struct {
	p image.Point
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.p.X-c.r, c.p.Y-c.r, c.p.X+c.r, c.p.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	xx, yy, rr := float64(x-c.p.X)+0.5, float64(y-c.p.Y)+0.5, float64(c.r)
	if xx*xx+yy*yy < rr*rr {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

// renderMemberCard draws a member's content surface: a circular portrait
// (the photo when available, otherwise initials) over a gradient in the
// entity color, with the label underneath. The result is fully determined
// by the descriptor and photo.
func renderMemberCard(d *EntityDescriptor, photo image.Image) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, memberCardW, memberCardH))
	base := d.Color
	if base == (Color{}) {
		base = Color{0.4, 0.6, 1, 1}
	}
	fillGradient(img, base.Scale(0.55), base.Scale(0.15))

	center := image.Pt(memberCardW/2, 62)
	const radius = 44
	mask := &circle{p: center, r: radius}
	if photo != nil {
		fitted := transform.Resize(photo, radius*2, radius*2, transform.Linear)
		draw.DrawMask(img, mask.Bounds(), fitted, image.Point{}, mask, mask.Bounds().Min, draw.Over)
	} else {
		disc := image.NewUniform(base.Lerp(ColorWhite, 0.25).RGBA())
		draw.DrawMask(img, mask.Bounds(), disc, image.Point{}, mask, mask.Bounds().Min, draw.Over)
		txt := scaledString(initials(labelOf(d)), 3, ColorWhite)
		tb := txt.Bounds()
		at := image.Pt(center.X-tb.Dx()/2, center.Y-tb.Dy()/2)
		draw.Draw(img, tb.Add(at), txt, tb.Min, draw.Over)
	}

	drawStringCentered(img, memberCardW/2, 134, truncate(labelOf(d), memberCardW-8), ColorWhite)
	return img
}

// renderPanelCard draws a panel's content surface: title and wrapped body
// on a dark plate with a border in the entity color.
func renderPanelCard(d *EntityDescriptor) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, panelCardW, panelCardH))
	accent := d.Color
	if accent == (Color{}) {
		accent = Color{0.3, 0.8, 1, 1}
	}
	fillGradient(img, Color{0.04, 0.06, 0.12, 0.92}, Color{0.02, 0.03, 0.07, 0.92})

	border := accent.RGBA()
	for x := 0; x < panelCardW; x++ {
		for t := 0; t < 3; t++ {
			img.Set(x, t, border)
			img.Set(x, panelCardH-1-t, border)
		}
	}
	for y := 0; y < panelCardH; y++ {
		for t := 0; t < 3; t++ {
			img.Set(t, y, border)
			img.Set(panelCardW-1-t, y, border)
		}
	}

	var title, body string
	if d.Panel != nil {
		title, body = d.Panel.Title, d.Panel.Body
	}
	if title == "" {
		title = labelOf(d)
	}
	heading := scaledString(truncate(title, (panelCardW-40)/2), 2, accent)
	hb := heading.Bounds()
	draw.Draw(img, hb.Add(image.Pt(20, 18)), heading, hb.Min, draw.Over)

	lineH := cardFace.Metrics().Height.Ceil() + 4
	y := 18 + hb.Dy() + 24
	for _, line := range wrapText(body, panelCardW-40) {
		if y > panelCardH-16 {
			break
		}
		drawString(img, 20, y, line, Color{0.85, 0.9, 1, 1})
		y += lineH
	}
	return img
}

func labelOf(d *EntityDescriptor) string {
	if d.Label != "" {
		return d.Label
	}
	return d.ID
}
