package orrery

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for FileLoader
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/sync/singleflight"
)

// ImageLoader fetches the image an entity's ImageRef points at. Loads run
// off the update thread and must honour ctx cancellation.
type ImageLoader interface {
	LoadImage(ctx context.Context, ref string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, ref string) (image.Image, error)

// LoadImage implements ImageLoader.
func (f ImageLoaderFunc) LoadImage(ctx context.Context, ref string) (image.Image, error) {
	return f(ctx, ref)
}

// FileLoader loads PNG and JPEG images relative to Root.
type FileLoader struct {
	Root string
}

// LoadImage implements ImageLoader.
func (l FileLoader) LoadImage(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.Root, filepath.FromSlash(ref)))
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", ref, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", ref, err)
	}
	return img, nil
}

// liveness is shared between a mount and the loads it started. Once killed,
// late results are discarded instead of touching released resources.
type liveness struct {
	alive atomic.Bool
}

func newLiveness() *liveness {
	l := &liveness{}
	l.alive.Store(true)
	return l
}

func (l *liveness) Alive() bool { return l.alive.Load() }
func (l *liveness) kill() { l.alive.Store(false) }

// imageResult is one completed load, delivered to the update thread.
type imageResult struct {
	entityID string
	ref      string
	img      image.Image
	err      error
	token    *liveness
}

// photoSize is the edge length photos are fitted to before compositing.
const photoSize = 128

// textureLoader runs image loads in goroutines. Concurrent loads of the same
// ref are collapsed into one. Results are queued on a channel and applied
// by drain on the update thread.
type textureLoader struct {
	loader  ImageLoader
	sfg     singleflight.Group
	results chan imageResult
	ctx     context.Context
	cancel  context.CancelFunc
	token   *liveness
	wg      sync.WaitGroup
	log     *slog.Logger
}

func newTextureLoader(loader ImageLoader, capacity int, log *slog.Logger) *textureLoader {
	ctx, cancel := context.WithCancel(context.Background())
	return &textureLoader{
		loader:  loader,
		results: make(chan imageResult, max(capacity, 1)),
		ctx:     ctx,
		cancel:  cancel,
		token:   newLiveness(),
		log:     log,
	}
}

// request starts loading ref for the entity. It never blocks.
func (l *textureLoader) request(entityID, ref string) {
	if l.loader == nil || ref == "" {
		return
	}
	token := l.token
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		v, err, _ := l.sfg.Do(ref, func() (any, error) {
			img, err := l.loader.LoadImage(l.ctx, ref)
			if err != nil {
				return nil, err
			}
			return fitPhoto(img), nil
		})
		if !token.Alive() {
			return
		}
		res := imageResult{entityID: entityID, ref: ref, err: err, token: token}
		if img, ok := v.(image.Image); ok {
			res.img = img
		}
		select {
		case l.results <- res:
		case <-l.ctx.Done():
		}
	}()
}

// drain applies every queued result whose mount is still alive and returns
// how many were applied. It never blocks.
func (l *textureLoader) drain(apply func(imageResult)) int {
	n := 0
	for {
		select {
		case res := <-l.results:
			if !res.token.Alive() {
				continue
			}
			if res.err != nil {
				l.log.Debug("image load failed, keeping placeholder",
					"entity", res.entityID, "ref", res.ref, "err", res.err)
				continue
			}
			apply(res)
			n++
		default:
			return n
		}
	}
}

// stop invalidates every in-flight load. It does not wait for them.
func (l *textureLoader) stop() {
	l.token.kill()
	l.cancel()
}

// wait blocks until every started load has returned.
func (l *textureLoader) wait() {
	l.wg.Wait()
}

// fitPhoto crops img to a centred square and scales it to photoSize.
func fitPhoto(img image.Image) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	if side <= 0 {
		return img
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	sq := transform.Crop(img, image.Rect(x0, y0, x0+side, y0+side))
	return transform.Resize(sq, photoSize, photoSize, transform.Linear)
}
