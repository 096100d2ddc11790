package model

import (
	"sync/atomic"

	"github.com/luciancaetano/colonynet/message"
)

// Player types carried in the "playerType" attribute.
const (
	PlayerTypeColonial = "colonial"
	PlayerTypeNative   = "native"
	PlayerTypeRoyal    = "royal"
)

// Player is a participant in the game.
type Player struct {
	base

	name       string
	nation     string
	nationType string
	playerType string
	ai         bool
	ready      bool
	dead       bool
	gold       int
	score      int
	stances    map[string]Stance

	fathers       []string
	history       []HistoryEvent
	lastSales     []LastSale
	modelMessages []ModelMessage
	tradeRoutes   []TradeRoute

	// canSeeGen is bumped every time the visibility cache is invalidated.
	canSeeGen atomic.Uint64
}

// NewPlayer creates an empty player with the given identifier.
func NewPlayer(id string) *Player {
	return &Player{base: base{id: id}, stances: make(map[string]Stance)}
}

func (p *Player) Kind() Kind { return KindPlayer }

// Apply implements Object. Stances are read from "stance" children
// carrying "player" and "value" attributes.
func (p *Player) Apply(snap *message.Message) (bool, error) {
	if err := p.checkID(snap); err != nil {
		return false, err
	}
	stances := make(map[string]Stance)
	for _, c := range snap.ChildrenByTag("stance") {
		s, err := ParseStance(c.Attr("value"))
		if err != nil {
			return false, err
		}
		stances[c.Attr("player")] = s
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	changed := false
	setString(&p.name, snap.Attr("name"), &changed)
	setString(&p.nation, snap.Attr("nation"), &changed)
	setString(&p.nationType, snap.Attr("nationType"), &changed)
	setString(&p.playerType, snap.Attr("playerType"), &changed)
	setBool(&p.ai, snap.Bool("ai"), &changed)
	setBool(&p.ready, snap.Bool("ready"), &changed)
	setBool(&p.dead, snap.Bool("dead"), &changed)
	setInt(&p.gold, snap.IntOr("gold", 0), &changed)
	setInt(&p.score, snap.IntOr("score", 0), &changed)
	if !sameStances(p.stances, stances) {
		p.stances = stances
		changed = true
	}
	return changed, nil
}

func sameStances(a, b map[string]Stance) bool {
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

func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *Player) Nation() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nation
}

func (p *Player) SetNation(id string) {
	p.mu.Lock()
	p.nation = id
	p.mu.Unlock()
}

func (p *Player) NationType() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nationType
}

// ChangeNationType switches the player's nation type.
func (p *Player) ChangeNationType(id string) {
	p.mu.Lock()
	p.nationType = id
	p.mu.Unlock()
}

// IsIndian reports whether the player is a native nation.
func (p *Player) IsIndian() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playerType == PlayerTypeNative
}

func (p *Player) IsAI() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ai
}

func (p *Player) SetAI(ai bool) {
	p.mu.Lock()
	p.ai = ai
	p.mu.Unlock()
}

func (p *Player) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

func (p *Player) SetReady(ready bool) {
	p.mu.Lock()
	p.ready = ready
	p.mu.Unlock()
}

func (p *Player) IsDead() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dead
}

func (p *Player) SetDead(dead bool) {
	p.mu.Lock()
	p.dead = dead
	p.mu.Unlock()
}

func (p *Player) Gold() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gold
}

func (p *Player) Score() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.score
}

// Stance returns the stance towards another player.
func (p *Player) Stance(other string) Stance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stances[other]
}

// SetStance records the stance towards another player.
func (p *Player) SetStance(other string, s Stance) {
	p.mu.Lock()
	p.stances[other] = s
	p.mu.Unlock()
}

// Owns reports whether the object belongs to this player.
func (p *Player) Owns(o Ownable) bool {
	return o != nil && o.OwnerID() == p.id
}

// AddFather records an elected founding father. Duplicates are ignored.
func (p *Player) AddFather(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.fathers {
		if f == id {
			return
		}
	}
	p.fathers = append(p.fathers, id)
}

// HasFather reports whether the founding father has been elected.
func (p *Player) HasFather(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, f := range p.fathers {
		if f == id {
			return true
		}
	}
	return false
}

func (p *Player) AddHistory(e HistoryEvent) {
	p.mu.Lock()
	p.history = append(p.history, e)
	p.mu.Unlock()
}

func (p *Player) History() []HistoryEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]HistoryEvent(nil), p.history...)
}

// AddLastSale records a sale, replacing an earlier one for the same
// location and goods type.
func (p *Player) AddLastSale(s LastSale) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, old := range p.lastSales {
		if old.Location == s.Location && old.GoodsType == s.GoodsType {
			p.lastSales[i] = s
			return
		}
	}
	p.lastSales = append(p.lastSales, s)
}

func (p *Player) LastSales() []LastSale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]LastSale(nil), p.lastSales...)
}

func (p *Player) AddModelMessage(m ModelMessage) {
	p.mu.Lock()
	p.modelMessages = append(p.modelMessages, m)
	p.mu.Unlock()
}

// DrainModelMessages returns and clears the pending model messages.
func (p *Player) DrainModelMessages() []ModelMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.modelMessages
	p.modelMessages = nil
	return out
}

func (p *Player) AddTradeRoute(tr TradeRoute) {
	p.mu.Lock()
	p.tradeRoutes = append(p.tradeRoutes, tr)
	p.mu.Unlock()
}

func (p *Player) TradeRoutes() []TradeRoute {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]TradeRoute(nil), p.tradeRoutes...)
}

// InvalidateCanSeeTiles marks the player's visibility cache stale.
func (p *Player) InvalidateCanSeeTiles() {
	p.canSeeGen.Add(1)
}

// CanSeeGeneration counts visibility invalidations so far.
func (p *Player) CanSeeGeneration() uint64 {
	return p.canSeeGen.Load()
}
