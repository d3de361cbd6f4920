package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/gris/internal/project"
)

// fakeSource serves solid-color pages without touching the filesystem.
type fakeSource struct {
	sizes []image.Point
	fail  int // page index that errors, -1 for none
}

func (s *fakeSource) PageCount() int { return len(s.sizes) }

func (s *fakeSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index == s.fail {
		return nil, fmt.Errorf("page %d broken", index)
	}
	sz := s.sizes[index]
	img := image.NewRGBA(image.Rect(0, 0, sz.X, sz.Y))
	for i := range img.Pix {
		img.Pix[i] = byte(index + 1)
	}
	return img, nil
}

func (s *fakeSource) Close() error { return nil }

func TestImportAppendsPagesInOrder(t *testing.T) {
	store := project.NewStore()
	src := &fakeSource{
		sizes: []image.Point{{100, 50}, {200, 80}, {150, 60}},
		fail:  -1,
	}

	n, err := Import(context.Background(), store, src, 150, 4)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d pages, want 3", n)
	}

	bgs := store.State().Backgrounds
	if len(bgs) != 3 {
		t.Fatalf("got %d backgrounds, want 3", len(bgs))
	}
	for i, bg := range bgs {
		if bg.ZIndex != i+1 {
			t.Errorf("background %d: zIndex = %d, want %d", i, bg.ZIndex, i+1)
		}
		img, err := png.Decode(bytes.NewReader(bg.ImageData))
		if err != nil {
			t.Fatalf("background %d: decode: %v", i, err)
		}
		want := src.sizes[i]
		if b := img.Bounds(); b.Dx() != want.X || b.Dy() != want.Y {
			t.Errorf("background %d: %dx%d, want %dx%d", i, b.Dx(), b.Dy(), want.X, want.Y)
		}
	}
}

func TestImportGrowsCanvas(t *testing.T) {
	store := project.NewStore()
	src := &fakeSource{sizes: []image.Point{{1000, 900}}, fail: -1}

	if _, err := Import(context.Background(), store, src, 150, 1); err != nil {
		t.Fatal(err)
	}
	size := store.State().Project.CanvasSize
	if size.Width != 1000 || size.Height != 900 {
		t.Errorf("canvas = %vx%v, want 1000x900", size.Width, size.Height)
	}
}

func TestImportFailedPageAddsNothing(t *testing.T) {
	store := project.NewStore()
	src := &fakeSource{
		sizes: []image.Point{{100, 50}, {100, 50}},
		fail:  1,
	}

	if _, err := Import(context.Background(), store, src, 150, 2); err == nil {
		t.Fatal("expected error from failing page")
	}
	if got := len(store.State().Backgrounds); got != 0 {
		t.Errorf("got %d backgrounds after failed import, want 0", got)
	}
}

func TestFitToMaxEdgeDownscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, MaxEdge*2, MaxEdge))
	scaled, pooled := fitToMaxEdge(img)
	if pooled == nil {
		t.Fatal("expected pooled buffer for oversized image")
	}
	b := scaled.Bounds()
	if b.Dx() != MaxEdge || b.Dy() != MaxEdge/2 {
		t.Errorf("scaled to %dx%d, want %dx%d", b.Dx(), b.Dy(), MaxEdge, MaxEdge/2)
	}
}

func TestFitToMaxEdgeLeavesSmallAlone(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	scaled, pooled := fitToMaxEdge(img)
	if pooled != nil {
		t.Error("small image should not be rescaled")
	}
	if scaled != image.Image(img) {
		t.Error("small image should pass through unchanged")
	}
}

func TestImageSourceUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ART.PNG"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1 (extension match must be case-insensitive)", src.PageCount())
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "notes.txt"} {
		path := filepath.Join(dir, name)
		if filepath.Ext(name) == ".png" {
			img := image.NewRGBA(image.Rect(0, 0, 10, 10))
			img.Set(0, 0, color.White)
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				t.Fatal(err)
			}
		} else {
			if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", src.PageCount())
	}
	if _, err := src.RenderPage(0, 150); err != nil {
		t.Errorf("RenderPage: %v", err)
	}
}
