// Package highlight links hover state across views. Hovering any element
// for a constituency code fires one Highlight(code) call that every
// registered view receives.
package highlight

import "sync"

// Listener reacts to hover changes for a constituency code.
type Listener interface {
	OnHighlight(code string)
	OnUnhighlight(code string)
}

// Funcs adapts a pair of functions to Listener. Nil funcs are skipped.
type Funcs struct {
	Highlight   func(code string)
	Unhighlight func(code string)
}

func (f Funcs) OnHighlight(code string) {
	if f.Highlight != nil {
		f.Highlight(code)
	}
}

func (f Funcs) OnUnhighlight(code string) {
	if f.Unhighlight != nil {
		f.Unhighlight(code)
	}
}

// Registry fans hover events out to listeners in subscription order and
// remembers which codes are currently highlighted.
type Registry struct {
	mu        sync.RWMutex
	nextID    int
	listeners []entry
	active    map[string]bool
}

type entry struct {
	id int
	l  Listener
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]bool)}
}

// Subscribe registers l and returns a function that removes it.
func (r *Registry) Subscribe(l Listener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, entry{id: id, l: l})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, e := range r.listeners {
			if e.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// Highlight marks code active and notifies listeners. Repeated calls for an
// already active code are ignored.
func (r *Registry) Highlight(code string) {
	r.mu.Lock()
	if r.active[code] {
		r.mu.Unlock()
		return
	}
	r.active[code] = true
	ls := r.snapshot()
	r.mu.Unlock()

	for _, l := range ls {
		l.OnHighlight(code)
	}
}

// Unhighlight clears code and notifies listeners. Codes that are not active
// are ignored.
func (r *Registry) Unhighlight(code string) {
	r.mu.Lock()
	if !r.active[code] {
		r.mu.Unlock()
		return
	}
	delete(r.active, code)
	ls := r.snapshot()
	r.mu.Unlock()

	for _, l := range ls {
		l.OnUnhighlight(code)
	}
}

// Active reports whether code is highlighted.
func (r *Registry) Active(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[code]
}

// Len is the number of subscribed listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// snapshot copies the listener list; callers hold mu.
func (r *Registry) snapshot() []Listener {
	out := make([]Listener, len(r.listeners))
	for i, e := range r.listeners {
		out[i] = e.l
	}
	return out
}
