package model

import "github.com/luciancaetano/colonynet/message"

// Settlement holds the fields shared by colonies and native settlements.
type Settlement struct {
	base

	name  string
	owner string
	tile  string
	size  int
}

// Apply implements Object.
func (s *Settlement) Apply(snap *message.Message) (bool, error) {
	if err := s.checkID(snap); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	setString(&s.name, snap.Attr("name"), &changed)
	setString(&s.owner, snap.Attr("owner"), &changed)
	setString(&s.tile, snap.Attr("tile"), &changed)
	setInt(&s.size, snap.IntOr("size", 0), &changed)
	return changed, nil
}

func (s *Settlement) OwnerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

func (s *Settlement) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// TileID returns the identifier of the tile the settlement occupies.
func (s *Settlement) TileID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tile
}

func (s *Settlement) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Colony is a European settlement.
type Colony struct{ Settlement }

// NewColony creates an empty colony with the given identifier.
func NewColony(id string) *Colony {
	return &Colony{Settlement{base: base{id: id}}}
}

func (c *Colony) Kind() Kind { return KindColony }

// IndianSettlement is a native settlement.
type IndianSettlement struct{ Settlement }

// NewIndianSettlement creates an empty native settlement with the given
// identifier.
func NewIndianSettlement(id string) *IndianSettlement {
	return &IndianSettlement{Settlement{base: base{id: id}}}
}

func (s *IndianSettlement) Kind() Kind { return KindIndianSettlement }
