package sky

// Registry is the bounded, arrival-ordered set of live elements
type Registry struct {
	capacity int
	elems    []*Element
	release  func(*Element) // hands evicted/removed elements back to the renderer
}

// NewRegistry creates a registry holding at most capacity elements
func NewRegistry(capacity int, release func(*Element)) *Registry {
	if capacity < 1 {
		capacity = 1
	}
	return &Registry{
		capacity: capacity,
		elems:    make([]*Element, 0, capacity+1),
		release:  release,
	}
}

// Add appends e and evicts from the front until the registry is back within capacity.
// Elements whose id is already live are ignored (ok == false).
func (r *Registry) Add(e *Element) (evicted []*Element, ok bool) {
	if r.indexOf(e.ID()) >= 0 {
		return nil, false
	}

	r.elems = append(r.elems, e)
	for len(r.elems) > r.capacity {
		oldest := r.elems[0]
		r.elems[0] = nil
		r.elems = r.elems[1:]
		r.releaseOne(oldest)
		evicted = append(evicted, oldest)
	}
	return evicted, true
}

// Remove deletes the element with id; unknown ids are a no-op
func (r *Registry) Remove(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	e := r.elems[i]
	copy(r.elems[i:], r.elems[i+1:])
	r.elems[len(r.elems)-1] = nil
	r.elems = r.elems[:len(r.elems)-1]
	r.releaseOne(e)
	return true
}

// Clear removes every element, oldest first
func (r *Registry) Clear() int {
	n := len(r.elems)
	for i, e := range r.elems {
		r.releaseOne(e)
		r.elems[i] = nil
	}
	r.elems = r.elems[:0]
	return n
}

// Get looks up a live element
func (r *Registry) Get(id string) (*Element, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return r.elems[i], true
}

// All returns the live elements in arrival order. The slice is a copy; the elements
// are shared.
func (r *Registry) All() []*Element {
	out := make([]*Element, len(r.elems))
	copy(out, r.elems)
	return out
}

// Len returns the number of live elements
func (r *Registry) Len() int {
	return len(r.elems)
}

// Cap returns the configured capacity
func (r *Registry) Cap() int {
	return r.capacity
}

// Boxes returns the bounding boxes of every live element
func (r *Registry) Boxes() []Rect {
	out := make([]Rect, len(r.elems))
	for i, e := range r.elems {
		out[i] = e.Box()
	}
	return out
}

func (r *Registry) indexOf(id string) int {
	for i, e := range r.elems {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

func (r *Registry) releaseOne(e *Element) {
	if r.release != nil {
		r.release(e)
	}
}
