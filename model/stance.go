package model

import "fmt"

// Stance is the diplomatic relation between two players.
type Stance int

const (
	StanceUncontacted Stance = iota
	StanceAlliance
	StancePeace
	StanceCeaseFire
	StanceWar
)

var stanceNames = [...]string{
	StanceUncontacted: "uncontacted",
	StanceAlliance:    "alliance",
	StancePeace:       "peace",
	StanceCeaseFire:   "ceaseFire",
	StanceWar:         "war",
}

func (s Stance) String() string {
	if s < 0 || int(s) >= len(stanceNames) {
		return fmt.Sprintf("Stance(%d)", int(s))
	}
	return stanceNames[s]
}

// ParseStance resolves a stance name. Matching is exact.
func ParseStance(name string) (Stance, error) {
	for i, n := range stanceNames {
		if n == name {
			return Stance(i), nil
		}
	}
	return StanceUncontacted, fmt.Errorf("unknown stance %q", name)
}
