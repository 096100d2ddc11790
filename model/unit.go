package model

import "github.com/luciancaetano/colonynet/message"

// Unit is a movable piece owned by a player.
type Unit struct {
	base

	unitType  string
	owner     string
	location  string
	role      string
	movesLeft int
}

// NewUnit creates an empty unit with the given identifier.
func NewUnit(id string) *Unit {
	return &Unit{base: base{id: id}}
}

func (u *Unit) Kind() Kind { return KindUnit }

// Apply implements Object.
func (u *Unit) Apply(snap *message.Message) (bool, error) {
	if err := u.checkID(snap); err != nil {
		return false, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	changed := false
	setString(&u.unitType, snap.Attr("unitType"), &changed)
	setString(&u.owner, snap.Attr("owner"), &changed)
	setString(&u.location, snap.Attr("location"), &changed)
	setString(&u.role, snap.Attr("role"), &changed)
	setInt(&u.movesLeft, snap.IntOr("movesLeft", 0), &changed)
	return changed, nil
}

func (u *Unit) OwnerID() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.owner
}

func (u *Unit) UnitType() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.unitType
}

// Location returns the identifier of the tile, settlement or carrier
// holding the unit, or "" when the unit is nowhere.
func (u *Unit) Location() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.location
}

func (u *Unit) Role() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.role
}

func (u *Unit) MovesLeft() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.movesLeft
}
