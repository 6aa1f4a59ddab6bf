package frames

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePNG_ResizesToTarget(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	p := filepath.Join(t.TempDir(), "frame_0000.png")
	if err := WritePNG(p, src, 16, 16); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
	}
	r, _, _, a := got.At(8, 8).RGBA()
	if a == 0 || r>>8 < 150 {
		t.Fatalf("unexpected pixel after resize: r=%d a=%d", r>>8, a>>8)
	}
}

func TestWritePNG_InvalidSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := WritePNG(filepath.Join(t.TempDir(), "x.png"), src, 0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
}
