package model

import (
	"fmt"
	"sync"

	"github.com/luciancaetano/colonynet/message"
)

// Tags of the children of a game snapshot.
const (
	TagGame                = "game"
	TagMap                 = "map"
	TagNation              = "nation"
	TagNationType          = "nationType"
	TagGameOptions         = "gameOptions"
	TagMapGeneratorOptions = "mapGeneratorOptions"
)

// Game is the client's replica of the shared game state.
type Game struct {
	dir     *Directory
	applier *Applier

	mu            sync.RWMutex
	myPlayer      string
	currentPlayer string
	turn          int
	hasMap        bool
	nations       map[string]*Nation
	nationTypes   map[string]bool

	gameOptions         *OptionGroup
	mapGeneratorOptions *OptionGroup
}

// NewGame creates an empty game for the given local player.
func NewGame(myPlayerID string) *Game {
	g := &Game{
		dir:                 NewDirectory(),
		myPlayer:            myPlayerID,
		nations:             make(map[string]*Nation),
		nationTypes:         make(map[string]bool),
		gameOptions:         NewOptionGroup(TagGameOptions),
		mapGeneratorOptions: NewOptionGroup(TagMapGeneratorOptions),
	}
	g.applier = NewApplier(g.dir, g.MyPlayerID)
	return g
}

func (g *Game) Directory() *Directory { return g.dir }
func (g *Game) Applier() *Applier     { return g.applier }

func (g *Game) MyPlayerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.myPlayer
}

func (g *Game) SetMyPlayerID(id string) {
	g.mu.Lock()
	g.myPlayer = id
	g.mu.Unlock()
}

// MyPlayer resolves the local player.
func (g *Game) MyPlayer() (*Player, bool) {
	return LookupAs[*Player](g.dir, g.MyPlayerID())
}

// Player resolves a player by identifier.
func (g *Game) Player(id string) (*Player, bool) {
	return LookupAs[*Player](g.dir, id)
}

// Players returns every registered player.
func (g *Game) Players() []*Player {
	var out []*Player
	g.dir.Range(func(o Object) bool {
		if p, ok := o.(*Player); ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

// AddPlayer registers a player.
func (g *Game) AddPlayer(p *Player) error {
	return g.dir.Register(p)
}

// RemovePlayer drops a player from the directory.
func (g *Game) RemovePlayer(id string) bool {
	return g.dir.Remove(id)
}

func (g *Game) CurrentPlayerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentPlayer
}

func (g *Game) SetCurrentPlayer(id string) {
	g.mu.Lock()
	g.currentPlayer = id
	g.mu.Unlock()
}

// CurrentPlayerIsMine reports whether the active player is the local player.
func (g *Game) CurrentPlayerIsMine() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.myPlayer != "" && g.currentPlayer == g.myPlayer
}

func (g *Game) Turn() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.turn
}

func (g *Game) SetTurn(n int) {
	g.mu.Lock()
	g.turn = n
	g.mu.Unlock()
}

// HasMap reports whether a map has been received.
func (g *Game) HasMap() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasMap
}

// Nation resolves a nation by identifier.
func (g *Game) Nation(id string) (*Nation, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nations[id]
	return n, ok
}

// DefineNation registers a nation, returning the existing one if known.
func (g *Game) DefineNation(id string) *Nation {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nations[id]; ok {
		return n
	}
	n := &Nation{id: id}
	g.nations[id] = n
	return n
}

// HasNationType reports whether the nation type is known.
func (g *Game) HasNationType(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nationTypes[id]
}

// DefineNationType registers a nation type.
func (g *Game) DefineNationType(id string) {
	g.mu.Lock()
	g.nationTypes[id] = true
	g.mu.Unlock()
}

func (g *Game) GameOptions() *OptionGroup         { return g.gameOptions }
func (g *Game) MapGeneratorOptions() *OptionGroup { return g.mapGeneratorOptions }

// TileOf resolves the tile a unit stands on. Units aboard a carrier
// resolve through the carrier.
func (g *Game) TileOf(u *Unit) (*Tile, bool) {
	seen := map[string]bool{}
	loc := u.Location()
	for loc != "" && !seen[loc] {
		seen[loc] = true
		o, ok := g.dir.Lookup(loc)
		if !ok {
			return nil, false
		}
		switch v := o.(type) {
		case *Tile:
			return v, true
		case *Colony:
			return LookupAs[*Tile](g.dir, v.TileID())
		case *IndianSettlement:
			return LookupAs[*Tile](g.dir, v.TileID())
		case *Unit:
			loc = v.Location()
		default:
			return nil, false
		}
	}
	return nil, false
}

// ReadSnapshot applies a full game snapshot: players, nations, nation
// types, the map and both option groups.
func (g *Game) ReadSnapshot(snap *message.Message) error {
	if snap == nil || snap.Tag != TagGame {
		return fmt.Errorf("%w: want %s", ErrInvalidSnapshot, TagGame)
	}
	for _, c := range snap.Children {
		switch c.Tag {
		case TagPlayer:
			if _, err := g.applier.Merge(c.ID(), c); err != nil {
				return err
			}
		case TagNation:
			n := g.DefineNation(c.ID())
			n.SetColor(c.IntOr("color", 0))
			if st := c.Attr("state"); st != "" {
				s, err := ParseNationState(st)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
				}
				n.SetState(s)
			}
		case TagNationType:
			g.DefineNationType(c.ID())
		case TagMap:
			for _, obj := range c.Children {
				if _, err := g.applier.Merge(obj.ID(), obj); err != nil {
					return err
				}
			}
			g.mu.Lock()
			g.hasMap = true
			g.mu.Unlock()
		case TagGameOptions:
			if err := g.gameOptions.Read(c); err != nil {
				return err
			}
		case TagMapGeneratorOptions:
			if err := g.mapGeneratorOptions.Read(c); err != nil {
				return err
			}
		default:
			if KindOf(c.Tag) != KindUnknown {
				if _, err := g.applier.Merge(c.ID(), c); err != nil {
					return err
				}
			}
		}
	}
	if cp := snap.Attr("currentPlayer"); cp != "" {
		g.SetCurrentPlayer(cp)
	}
	if t, err := snap.Int("turn"); err == nil {
		g.SetTurn(t)
	}
	return nil
}
