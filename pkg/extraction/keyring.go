package extraction

import (
	"strings"
	"sync"
)

// KeyRing is an ordered set of API keys with a shared current index. All
// clients built on the same ring see rotations made by any of them.
type KeyRing struct {
	mu       sync.Mutex
	keys     []string
	current  int
	onRotate func(from, to int)
}

// NewKeyRing creates a ring from the non-empty keys, starting at the first.
func NewKeyRing(keys []string) *KeyRing {
	r := &KeyRing{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			r.keys = append(r.keys, k)
		}
	}
	return r
}

// OnRotate registers a hook called (outside the lock) after each rotation.
func (r *KeyRing) OnRotate(fn func(from, to int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRotate = fn
}

// Len returns the number of keys.
func (r *KeyRing) Len() int {
	return len(r.keys)
}

// Current returns the index and value of the key in use.
func (r *KeyRing) Current() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return 0, ""
	}
	return r.current, r.keys[r.current]
}

// Advance moves to the next key, wrapping, but only if the ring still points
// at from. Callers pass the index they were rate limited on, so two tasks
// that exhausted the same key rotate once between them. It returns the index
// now current.
func (r *KeyRing) Advance(from int) int {
	r.mu.Lock()
	if len(r.keys) == 0 {
		r.mu.Unlock()
		return 0
	}
	if r.current != from {
		cur := r.current
		r.mu.Unlock()
		return cur
	}
	r.current = (r.current + 1) % len(r.keys)
	to := r.current
	hook := r.onRotate
	r.mu.Unlock()

	if hook != nil {
		hook(from, to)
	}
	return to
}
