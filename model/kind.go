package model

// Kind identifies the entity type of a game object.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlayer
	KindUnit
	KindColony
	KindIndianSettlement
	KindTile
	KindRegion
)

// Snapshot tags, one per kind.
const (
	TagPlayer           = "player"
	TagUnit             = "unit"
	TagColony           = "colony"
	TagIndianSettlement = "indianSettlement"
	TagTile             = "tile"
	TagRegion           = "region"
)

var kindTags = map[Kind]string{
	KindPlayer:           TagPlayer,
	KindUnit:             TagUnit,
	KindColony:           TagColony,
	KindIndianSettlement: TagIndianSettlement,
	KindTile:             TagTile,
	KindRegion:           TagRegion,
}

// KindOf maps a snapshot tag to its kind. Unrecognised tags map to
// KindUnknown.
func KindOf(tag string) Kind {
	for k, t := range kindTags {
		if t == tag {
			return k
		}
	}
	return KindUnknown
}

// String returns the snapshot tag for the kind.
func (k Kind) String() string {
	if t, ok := kindTags[k]; ok {
		return t
	}
	return "unknown"
}
