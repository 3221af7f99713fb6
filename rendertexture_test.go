package orrery

import (
	"image/color"
	"testing"
)

func TestTextureReplace(t *testing.T) {
	tex := NewTextureFromImage("card", solidImage(8, 10, color.White))
	if tex.Width() != 8 || tex.Height() != 10 {
		t.Fatalf("size = %dx%d", tex.Width(), tex.Height())
	}
	tex.Replace(solidImage(128, 160, color.White))
	if tex.Width() != 128 || tex.Height() != 160 || tex.Image() == nil {
		t.Errorf("after replace: %dx%d", tex.Width(), tex.Height())
	}
}

func TestTextureResize(t *testing.T) {
	tex := NewTexture("layer", 4, 4)
	img := tex.Image()
	tex.Resize(4, 4)
	if tex.Image() != img {
		t.Error("same-size resize reallocated")
	}
	tex.Resize(16, 8)
	if tex.Width() != 16 || tex.Height() != 8 {
		t.Errorf("size = %dx%d", tex.Width(), tex.Height())
	}
}

func TestTextureDispose(t *testing.T) {
	tex := NewTexture("t", 2, 2)
	tex.Dispose()
	tex.Dispose()
	if !tex.IsDisposed() || tex.Image() != nil {
		t.Fatal("image kept after dispose")
	}
	tex.Replace(solidImage(2, 2, color.White))
	tex.Resize(4, 4)
	if tex.Image() != nil {
		t.Error("disposed texture reallocated")
	}
}
