package model

import (
	"fmt"
	"sync"
)

// Directory maps object identifiers to live objects.
//
// The directory itself is safe for concurrent use. Individual objects
// guard their own fields; two merges into the same object from different
// goroutines still resolve as last writer wins per field.
type Directory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{objects: make(map[string]Object)}
}

// Lookup resolves an identifier. A miss is an ordinary outcome.
func (d *Directory) Lookup(id string) (Object, bool) {
	if id == "" {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.objects[id]
	return o, ok
}

// LookupKind resolves an identifier and requires the object to be of kind.
func (d *Directory) LookupKind(id string, kind Kind) (Object, error) {
	o, ok := d.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if o.Kind() != kind {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, id, o.Kind(), kind)
	}
	return o, nil
}

// Register adds an object, replacing any object with the same identifier.
func (d *Directory) Register(o Object) error {
	if o == nil || o.ID() == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidSnapshot)
	}
	d.mu.Lock()
	d.objects[o.ID()] = o
	d.mu.Unlock()
	return nil
}

// Remove drops an object and reports whether it was present.
func (d *Directory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.objects[id]; !ok {
		return false
	}
	delete(d.objects, id)
	return true
}

// Len returns the number of registered objects.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.objects)
}

// Range calls fn for every object until fn returns false. The directory
// must not be modified from fn.
func (d *Directory) Range(fn func(Object) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.objects {
		if !fn(o) {
			return
		}
	}
}

// LookupAs resolves an identifier to a concrete object type.
func LookupAs[T Object](d *Directory, id string) (T, bool) {
	var zero T
	o, ok := d.Lookup(id)
	if !ok {
		return zero, false
	}
	t, ok := o.(T)
	return t, ok
}
