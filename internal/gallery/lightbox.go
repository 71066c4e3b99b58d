package gallery

import (
	"fmt"
	"sync"

	"github.com/almaghboub/FixerUpper/internal/domain"
)

// Lightbox is the full-screen viewer over the gallery's loaded page. It
// never crosses into another page.
type Lightbox struct {
	gallery  *Gallery
	keyboard *Keyboard
	rtl      bool

	mu         sync.Mutex
	open       bool
	index      int
	unregister func()
}

func NewLightbox(g *Gallery, kb *Keyboard, locale string) *Lightbox {
	return &Lightbox{gallery: g, keyboard: kb, rtl: IsRTL(locale)}
}

func (l *Lightbox) RTL() bool { return l.rtl }

// Open shows the image at index and starts listening for keys.
func (l *Lightbox) Open(index int) error {
	images := l.gallery.Images()
	if index < 0 || index >= len(images) {
		return fmt.Errorf("image index %d out of range [0, %d)", index, len(images))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = index
	if !l.open {
		l.open = true
		l.unregister = l.keyboard.Register(l.HandleKey)
	}
	return nil
}

// Close hides the viewer and stops listening for keys.
func (l *Lightbox) Close() {
	l.mu.Lock()
	unregister := l.unregister
	l.open = false
	l.unregister = nil
	l.mu.Unlock()

	if unregister != nil {
		unregister()
	}
}

func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Index is the position of the displayed image, clamped to the loaded page.
func (l *Lightbox) Index() int {
	n := len(l.gallery.Images())
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = clamp(l.index, n)
	return l.index
}

// Current is the displayed image. It reports false when the viewer is
// closed or the page is empty.
func (l *Lightbox) Current() (domain.ImageRecord, bool) {
	images := l.gallery.Images()
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open || len(images) == 0 {
		return domain.ImageRecord{}, false
	}
	l.index = clamp(l.index, len(images))
	return images[l.index], true
}

// Next and Previous move through the page in array order and stop at its
// ends.
func (l *Lightbox) Next() { l.move(1) }

func (l *Lightbox) Previous() { l.move(-1) }

// Left and Right are the on-screen arrows; their meaning follows the
// reading direction.
func (l *Lightbox) Left() {
	if l.rtl {
		l.Next()
		return
	}
	l.Previous()
}

func (l *Lightbox) Right() {
	if l.rtl {
		l.Previous()
		return
	}
	l.Next()
}

func (l *Lightbox) move(delta int) {
	n := len(l.gallery.Images())
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return
	}
	l.index = clamp(l.index+delta, n)
}

// RequestDelete opens the gallery's delete confirmation for the displayed
// image.
func (l *Lightbox) RequestDelete() bool {
	img, ok := l.Current()
	if !ok {
		return false
	}
	l.gallery.RequestDelete(img.ID)
	return true
}

// HandleKey is registered with the keyboard while the viewer is open.
func (l *Lightbox) HandleKey(k Key) bool {
	if !l.IsOpen() {
		return false
	}
	switch k {
	case KeyLeft:
		l.Left()
	case KeyRight:
		l.Right()
	case KeyEscape:
		l.Close()
	case KeyDelete:
		return l.RequestDelete()
	default:
		return false
	}
	return true
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
