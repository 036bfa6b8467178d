package memimg

import (
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// FrameStore keeps the most recent rendered frame in memory so HTTP readers
// never touch the game loop.
type FrameStore struct {
	mu    sync.RWMutex
	frame image.Image
	seq   uint64
}

func NewFrameStore() *FrameStore {
	return &FrameStore{}
}

// Store replaces the current frame. The store keeps img; callers must not draw on it afterwards.
func (f *FrameStore) Store(img image.Image) {
	f.mu.Lock()
	f.frame = img
	f.seq++
	f.mu.Unlock()
}

// Latest returns the current frame and its sequence number.
func (f *FrameStore) Latest() (image.Image, uint64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frame, f.seq, f.frame != nil
}

// Scaled returns the current frame resized to width, keeping the aspect ratio.
// A non-positive width or one at least as wide as the frame returns the frame unchanged.
func (f *FrameStore) Scaled(width int) (image.Image, bool) {
	img, _, ok := f.Latest()
	if !ok {
		return nil, false
	}
	if width <= 0 || width >= img.Bounds().Dx() {
		return img, true
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos), true
}

// Blur returns a gaussian-blurred copy of img, used as the backdrop behind pause and game-over screens.
func Blur(img image.Image, sigma float64) image.Image {
	if sigma <= 0 {
		return img
	}
	return imaging.Blur(img, sigma)
}
