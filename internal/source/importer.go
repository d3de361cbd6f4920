package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/gris/internal/project"
	"github.com/ivlev/gris/internal/system"
)

// MaxEdge caps imported background dimensions. Anything larger is
// downscaled proportionally; backgrounds are reference art, not print
// masters, and oversized blobs blow the autosave budget.
const MaxEdge = 2048

// Import renders every page of a source concurrently, downscales
// oversized pages, and appends the results to the store as background
// layers in page order. Returns the number of backgrounds added.
func Import(ctx context.Context, store *project.Store, src Source, dpi, workers int) (int, error) {
	count := src.PageCount()
	if count == 0 {
		return 0, fmt.Errorf("source has no pages")
	}
	if workers < 1 {
		workers = 1
	}

	type page struct {
		data          []byte
		width, height float64
	}
	pages := make([]page, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := src.RenderPage(i, dpi)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i+1, err)
			}
			scaled, pooled := fitToMaxEdge(img)

			var buf bytes.Buffer
			err = png.Encode(&buf, scaled)
			b := scaled.Bounds()
			if pooled != nil {
				system.PutImage(pooled)
			}
			if err != nil {
				return fmt.Errorf("encode page %d: %w", i+1, err)
			}
			pages[i] = page{
				data:   buf.Bytes(),
				width:  float64(b.Dx()),
				height: float64(b.Dy()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// Append in page order so z-indices follow the document
	for _, p := range pages {
		store.AddBackground(p.data, p.width, p.height)
	}
	return count, nil
}

// fitToMaxEdge downscales an image so its longer edge is at most
// MaxEdge, preserving aspect ratio. When scaling happens the returned
// buffer comes from the shared image pool; the caller returns it with
// system.PutImage once encoded.
func fitToMaxEdge(img image.Image) (image.Image, *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxEdge && h <= MaxEdge {
		return img, nil
	}

	scale := float64(MaxEdge) / float64(w)
	if h > w {
		scale = float64(MaxEdge) / float64(h)
	}
	dst := system.GetImage(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, dst
}
