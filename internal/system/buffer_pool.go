package system

import (
	"image"
	"sync"
)

// ImagePool recycles same-sized *image.RGBA buffers to keep GC pressure
// down while importing many equally sized PDF pages.
type ImagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &ImagePool{
	pools: make(map[string]*sync.Pool),
}

// GetImage returns a pooled *image.RGBA for the given bounds, or a fresh
// one when the pool is empty.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage returns an *image.RGBA to the pool for reuse.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
