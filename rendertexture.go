package orrery

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a GPU image owned by the Lifecycle Manager. Content surfaces,
// the glow sprite and the light layer are all Textures.
type Texture struct {
	Name     string
	image    *ebiten.Image
	w, h     int
	disposed bool
}

// NewTexture allocates an empty texture of the given size.
func NewTexture(name string, w, h int) *Texture {
	return &Texture{Name: name, image: ebiten.NewImage(w, h), w: w, h: h}
}

// NewTextureFromImage uploads img into a new texture.
func NewTextureFromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{
		Name:  name,
		image: ebiten.NewImageFromImage(img),
		w:     b.Dx(),
		h:     b.Dy(),
	}
}

// Image returns the underlying *ebiten.Image, or nil once disposed.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.w
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.h
}

// Replace swaps the texture contents for img. The old GPU image is released;
// the Texture itself stays registered, so resource counts do not change.
func (t *Texture) Replace(img image.Image) {
	if t.disposed {
		return
	}
	if t.image != nil {
		t.image.Deallocate()
	}
	b := img.Bounds()
	t.image = ebiten.NewImageFromImage(img)
	t.w, t.h = b.Dx(), b.Dy()
}

// Resize reallocates the texture at a new size. Contents are cleared.
func (t *Texture) Resize(w, h int) {
	if t.disposed || (w == t.w && h == t.h && t.image != nil) {
		return
	}
	if t.image != nil {
		t.image.Deallocate()
	}
	t.image = ebiten.NewImage(w, h)
	t.w, t.h = w, h
}

// ResourceKind implements Resource.
func (t *Texture) ResourceKind() ResourceKind { return ResourceTexture }

// Dispose deallocates the underlying image. Safe to call more than once.
func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
}

// IsDisposed implements Resource.
func (t *Texture) IsDisposed() bool { return t.disposed }
