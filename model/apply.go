package model

import (
	"fmt"

	"github.com/luciancaetano/colonynet/message"
)

var constructors = map[Kind]func(id string) Object{
	KindPlayer:           func(id string) Object { return NewPlayer(id) },
	KindUnit:             func(id string) Object { return NewUnit(id) },
	KindColony:           func(id string) Object { return NewColony(id) },
	KindIndianSettlement: func(id string) Object { return NewIndianSettlement(id) },
	KindTile:             func(id string) Object { return NewTile(id) },
	KindRegion:           func(id string) Object { return NewRegion(id) },
}

// Applier merges object snapshots into a Directory.
type Applier struct {
	dir   *Directory
	local func() string
}

// NewApplier creates an applier. local returns the identifier of the local
// player at the time of each merge.
func NewApplier(dir *Directory, local func() string) *Applier {
	if local == nil {
		local = func() string { return "" }
	}
	return &Applier{dir: dir, local: local}
}

// Construct builds a new, unregistered object from a snapshot.
func (a *Applier) Construct(snap *message.Message) (Object, error) {
	if snap == nil {
		return nil, ErrInvalidSnapshot
	}
	id := snap.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: %s without id", ErrInvalidSnapshot, snap.Tag)
	}
	ctor, ok := constructors[KindOf(snap.Tag)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tag %q", ErrInvalidSnapshot, snap.Tag)
	}
	o := ctor(id)
	if _, err := o.Apply(snap); err != nil {
		return nil, err
	}
	return o, nil
}

// Merge applies a snapshot to the object with the given identifier,
// constructing and registering it when absent. It reports whether the
// local player's visibility may have changed: the object is new or
// differs from the snapshot, and it is the local player or a unit or
// settlement the local player owns.
func (a *Applier) Merge(id string, snap *message.Message) (bool, error) {
	if snap == nil {
		return false, ErrInvalidSnapshot
	}
	if id == "" {
		id = snap.ID()
	}
	if sid := snap.ID(); sid != "" && sid != id {
		return false, fmt.Errorf("%w: snapshot %s addressed to %s", ErrInvalidSnapshot, sid, id)
	}
	if o, ok := a.dir.Lookup(id); ok {
		return a.apply(o, snap)
	}
	if snap.ID() == "" {
		snap = snap.Clone().With(message.AttrID, id)
	}
	o, err := a.Construct(snap)
	if err != nil {
		return false, err
	}
	if err := a.dir.Register(o); err != nil {
		return false, err
	}
	return a.AffectsLocal(o), nil
}

// Update applies a snapshot to an existing object only. It returns
// ErrNotFound when the identifier does not resolve.
func (a *Applier) Update(id string, snap *message.Message) (bool, error) {
	o, ok := a.dir.Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a.apply(o, snap)
}

func (a *Applier) apply(o Object, snap *message.Message) (bool, error) {
	if k := KindOf(snap.Tag); k != KindUnknown && k != o.Kind() {
		return false, fmt.Errorf("%w: %s is %s, snapshot is %s", ErrKindMismatch, o.ID(), o.Kind(), snap.Tag)
	}
	changed, err := o.Apply(snap)
	if err != nil {
		return false, err
	}
	return changed && a.AffectsLocal(o), nil
}

// AffectsLocal reports whether o is the local player or a unit or
// settlement the local player owns.
func (a *Applier) AffectsLocal(o Object) bool {
	local := a.local()
	if local == "" {
		return false
	}
	switch v := o.(type) {
	case *Player:
		return v.ID() == local
	case *Unit, *Colony, *IndianSettlement:
		return v.(Ownable).OwnerID() == local
	}
	return false
}
