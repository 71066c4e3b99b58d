package gallery

import "sync"

type Key string

const (
	KeyLeft   Key = "ArrowLeft"
	KeyRight  Key = "ArrowRight"
	KeyEscape Key = "Escape"
	KeyDelete Key = "Delete"
)

// KeyHandler reports whether it consumed the key.
type KeyHandler func(Key) bool

// Keyboard routes key presses to whoever is currently listening.
type Keyboard struct {
	mu       sync.Mutex
	handlers map[uint64]KeyHandler
	order    []uint64
	nextID   uint64
}

func NewKeyboard() *Keyboard {
	return &Keyboard{handlers: make(map[uint64]KeyHandler)}
}

// Register adds h and returns the function that removes it. Calling the
// returned function more than once is harmless.
func (k *Keyboard) Register(h KeyHandler) func() {
	k.mu.Lock()
	defer k.mu.Unlock()

	id := k.nextID
	k.nextID++
	k.handlers[id] = h
	k.order = append(k.order, id)

	return func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		if _, ok := k.handlers[id]; !ok {
			return
		}
		delete(k.handlers, id)
		for i, v := range k.order {
			if v == id {
				k.order = append(k.order[:i], k.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch offers key to the most recently registered handler first.
func (k *Keyboard) Dispatch(key Key) bool {
	k.mu.Lock()
	handlers := make([]KeyHandler, 0, len(k.order))
	for i := len(k.order) - 1; i >= 0; i-- {
		handlers = append(handlers, k.handlers[k.order[i]])
	}
	k.mu.Unlock()

	for _, h := range handlers {
		if h(key) {
			return true
		}
	}
	return false
}

// Listeners is the number of registered handlers.
func (k *Keyboard) Listeners() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.handlers)
}
