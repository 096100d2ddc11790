package model

import "github.com/luciancaetano/colonynet/message"

// Region is a named area of the map.
type Region struct {
	base

	name         string
	regionType   string
	parent       string
	discoveredBy string
}

// NewRegion creates an empty region with the given identifier.
func NewRegion(id string) *Region {
	return &Region{base: base{id: id}}
}

func (r *Region) Kind() Kind { return KindRegion }

// Apply implements Object.
func (r *Region) Apply(snap *message.Message) (bool, error) {
	if err := r.checkID(snap); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := false
	setString(&r.name, snap.Attr("name"), &changed)
	setString(&r.regionType, snap.Attr("type"), &changed)
	setString(&r.parent, snap.Attr("parent"), &changed)
	setString(&r.discoveredBy, snap.Attr("discoveredBy"), &changed)
	return changed, nil
}

func (r *Region) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

// SetName records the name chosen for the region.
func (r *Region) SetName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

func (r *Region) Parent() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parent
}
