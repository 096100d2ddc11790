package model

import (
	"fmt"
	"sync"

	"github.com/luciancaetano/colonynet/message"
)

// NationState tells who may pick a nation in the lobby.
type NationState int

const (
	NationAvailable NationState = iota
	NationAIOnly
	NationHumanOnly
	NationNotAvailable
)

var nationStateNames = [...]string{
	NationAvailable:    "available",
	NationAIOnly:       "aiOnly",
	NationHumanOnly:    "humanOnly",
	NationNotAvailable: "notAvailable",
}

func (s NationState) String() string {
	if s < 0 || int(s) >= len(nationStateNames) {
		return fmt.Sprintf("NationState(%d)", int(s))
	}
	return nationStateNames[s]
}

// ParseNationState resolves a nation state name.
func ParseNationState(name string) (NationState, error) {
	for i, n := range nationStateNames {
		if n == name {
			return NationState(i), nil
		}
	}
	return NationAvailable, fmt.Errorf("unknown nation state %q", name)
}

// Nation is a playable nation known to the game.
type Nation struct {
	mu    sync.RWMutex
	id    string
	color int
	state NationState
}

func (n *Nation) ID() string { return n.id }

func (n *Nation) Color() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.color
}

func (n *Nation) SetColor(rgb int) {
	n.mu.Lock()
	n.color = rgb
	n.mu.Unlock()
}

func (n *Nation) State() NationState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

func (n *Nation) SetState(s NationState) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// OptionGroup is a flat set of option values.
type OptionGroup struct {
	mu     sync.RWMutex
	id     string
	values map[string]string
}

// NewOptionGroup creates an empty group.
func NewOptionGroup(id string) *OptionGroup {
	return &OptionGroup{id: id, values: make(map[string]string)}
}

func (g *OptionGroup) ID() string { return g.id }

// Read replaces the group's values with the "option" children of snap.
func (g *OptionGroup) Read(snap *message.Message) error {
	if snap == nil {
		return ErrInvalidSnapshot
	}
	values := make(map[string]string)
	for _, o := range snap.ChildrenByTag("option") {
		id, err := o.Required(message.AttrID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		values[id] = o.Attr("value")
	}
	g.mu.Lock()
	g.values = values
	g.mu.Unlock()
	return nil
}

// Get returns an option value.
func (g *OptionGroup) Get(id string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.values[id]
	return v, ok
}

// Len returns the number of options.
func (g *OptionGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.values)
}
