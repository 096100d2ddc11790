package model

import "github.com/luciancaetano/colonynet/message"

// tileFields are the attributes a tile stores in typed fields; everything
// else in a tile snapshot is kept verbatim in extra.
var tileFields = map[string]bool{
	message.AttrID: true, "x": true, "y": true, "type": true, "owner": true, "settlement": true,
}

// Tile is a map cell.
type Tile struct {
	base

	x, y       int
	tileType   string
	owner      string
	settlement string
	extra      map[string]string
}

// NewTile creates an empty tile with the given identifier.
func NewTile(id string) *Tile {
	return &Tile{base: base{id: id}}
}

func (t *Tile) Kind() Kind { return KindTile }

// Apply implements Object. Unknown attributes, such as the privileged
// settlement details revealed by a spy, replace the previous extra set.
func (t *Tile) Apply(snap *message.Message) (bool, error) {
	if err := t.checkID(snap); err != nil {
		return false, err
	}
	extra := make(map[string]string)
	for k, v := range snap.Attrs {
		if !tileFields[k] {
			extra[k] = v
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	changed := false
	setInt(&t.x, snap.IntOr("x", 0), &changed)
	setInt(&t.y, snap.IntOr("y", 0), &changed)
	setString(&t.tileType, snap.Attr("type"), &changed)
	setString(&t.owner, snap.Attr("owner"), &changed)
	setString(&t.settlement, snap.Attr("settlement"), &changed)
	if !sameStrings(t.extra, extra) {
		t.extra = extra
		changed = true
	}
	return changed, nil
}

func sameStrings(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Position returns the map coordinates.
func (t *Tile) Position() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.x, t.y
}

func (t *Tile) OwnerID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

func (t *Tile) TileType() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tileType
}

// SettlementID returns the settlement on the tile, or "".
func (t *Tile) SettlementID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settlement
}

// Detail returns an attribute outside the typed fields.
func (t *Tile) Detail(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.extra[key]
	return v, ok
}
