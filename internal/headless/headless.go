// Package headless implements the Controller and Presentation of a client
// without a GUI. Every event is logged and every question the server asks
// is answered with a fixed policy, which makes it usable as a bot and as a
// protocol smoke test.
package headless

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// Client answers server questions automatically.
type Client struct {
	conn   colonynet.Connection
	game   *model.Game
	logger *slog.Logger

	visibility atomic.Uint64
	started    atomic.Bool
	done       chan struct{}
	ended      atomic.Bool
}

var (
	_ colonynet.Controller   = (*Client)(nil)
	_ colonynet.Presentation = (*Client)(nil)
)

// New creates a headless client sending its decisions on conn.
func New(conn colonynet.Connection, game *model.Game, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		conn:   conn,
		game:   game,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Done is closed once the game is over or the server disconnected us.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Started reports whether startGame has been acted on.
func (c *Client) Started() bool {
	return c.started.Load()
}

// VisibilityChanges counts visibility invalidations.
func (c *Client) VisibilityChanges() uint64 {
	return c.visibility.Load()
}

func (c *Client) finish() {
	if c.ended.CompareAndSwap(false, true) {
		close(c.done)
	}
}

func (c *Client) send(ctx context.Context, msg *message.Message) {
	if err := c.conn.Send(ctx, msg); err != nil {
		c.logger.Error("send decision", "tag", msg.Tag, "error", err)
	}
}

func (c *Client) AnimateAttack(ctx context.Context, attacker, defender *model.Unit, attackerTile, defenderTile *model.Tile, success bool) {
	c.logger.Info("attack", "attacker", attacker.ID(), "defender", defender.ID(),
		"from", attackerTile.ID(), "to", defenderTile.ID(), "success", success)
}

func (c *Client) AnimateMove(ctx context.Context, unit *model.Unit, from, to *model.Tile) {
	c.logger.Debug("move", "unit", unit.ID(), "from", from.ID(), "to", to.ID())
}

func (c *Client) Chat(ctx context.Context, sender *model.Player, text string, private bool) {
	c.DisplayChat(ctx, sender, text, private)
}

// ChooseFoundingFather picks the first offered father.
func (c *Client) ChooseFoundingFather(ctx context.Context, fathers []string) {
	if len(fathers) == 0 {
		return
	}
	c.logger.Info("founding father chosen", "father", fathers[0], "offered", len(fathers))
	c.send(ctx, message.New(colonynet.TagChooseFoundingFather).
		Append(message.New(model.TagFoundingFather, message.AttrID, fathers[0])))
}

func (c *Client) CloseMenus(ctx context.Context) {
	c.logger.Debug("close menus")
}

// Diplomacy accepts every proposal unchanged.
func (c *Client) Diplomacy(ctx context.Context, our, other model.Object, proposal *model.Agreement) *model.Agreement {
	if proposal == nil {
		c.logger.Info("diplomacy without proposal rejected", "other", other.ID())
		return nil
	}
	accepted := *proposal
	accepted.Status = "accept"
	c.logger.Info("diplomacy accepted", "our", our.ID(), "other", other.ID(), "items", len(proposal.Items))
	return &accepted
}

func (c *Client) Disconnect(ctx context.Context, reason string) {
	c.logger.Warn("disconnected by server", "reason", reason)
	c.finish()
}

func (c *Client) Error(ctx context.Context, messageID, text string) {
	c.ShowError(ctx, messageID, text)
}

// FirstContact answers with peace.
func (c *Client) FirstContact(ctx context.Context, player, other *model.Player, tile *model.Tile, settlements int) {
	c.logger.Info("first contact", "other", other.ID(), "settlements", settlements)
	m := message.New(colonynet.TagFirstContact,
		"player", player.ID(), "other", other.ID(), "result", "true")
	if tile != nil {
		m.With("tile", tile.ID())
	}
	c.send(ctx, m)
}

func (c *Client) FountainOfYouth(ctx context.Context, migrants int) {
	c.logger.Info("fountain of youth", "migrants", migrants)
}

// IndianDemand gives in to every demand.
func (c *Client) IndianDemand(ctx context.Context, unit *model.Unit, colony *model.Colony, goodsType string, amount int) bool {
	c.logger.Info("native demand accepted", "unit", unit.ID(), "colony", colony.Name(), "goods", goodsType, "amount", amount)
	return true
}

// Loot takes everything on offer.
func (c *Client) Loot(ctx context.Context, unit *model.Unit, goods []model.Goods, defenderID string) {
	m := message.New(colonynet.TagLootCargo, "unit", unit.ID(), "defender", defenderID)
	for _, g := range goods {
		m.Append(g.ToMessage())
	}
	c.logger.Info("cargo looted", "unit", unit.ID(), "goods", len(goods))
	c.send(ctx, m)
}

// Monarch accepts tax raises and declines paid mercenaries.
func (c *Client) Monarch(ctx context.Context, action model.MonarchAction, template []model.AbstractUnit, monarchKey string) {
	var accepted bool
	switch action {
	case model.MonarchRaiseTaxAct, model.MonarchRaiseTaxWar:
		accepted = true
	case model.MonarchOfferMercenaries, model.MonarchHessianMercenaries, model.MonarchMercenaries:
		accepted = false
	default:
		c.logger.Info("monarch action", "action", action, "key", monarchKey)
		return
	}
	c.logger.Info("monarch action answered", "action", action, "accepted", accepted, "units", len(template))
	c.send(ctx, message.New(colonynet.TagMonarchAction,
		"action", action.String(), "monarchKey", monarchKey, "accepted", strconv.FormatBool(accepted)))
}

// NewLandName keeps the suggested name.
func (c *Client) NewLandName(ctx context.Context, defaultName string, unit *model.Unit) {
	c.send(ctx, message.New(colonynet.TagNewLandName, "unit", unit.ID(), "newLandName", defaultName))
}

// NewRegionName keeps the suggested name.
func (c *Client) NewRegionName(ctx context.Context, region *model.Region, defaultName string, tile *model.Tile, unit *model.Unit) {
	m := message.New(colonynet.TagNewRegionName, "region", region.ID(), "newRegionName", defaultName)
	if tile != nil {
		m.With("tile", tile.ID())
	}
	if unit != nil {
		m.With("unit", unit.ID())
	}
	c.send(ctx, m)
}

func (c *Client) NewTurn(ctx context.Context, turn int) {
	c.logger.Info("new turn", "turn", turn)
}

func (c *Client) Reconnect(ctx context.Context) {
	c.logger.Info("reconnect requested")
}

func (c *Client) Remove(ctx context.Context, objects []model.Object, divert model.Object) {
	attrs := []any{"objects", len(objects)}
	if divert != nil {
		attrs = append(attrs, "divert", divert.ID())
	}
	c.logger.Debug("objects removed", attrs...)
}

func (c *Client) SetCurrentPlayer(ctx context.Context, player *model.Player) {
	c.logger.Debug("current player", "player", player.ID(), "mine", c.game.CurrentPlayerIsMine())
}

func (c *Client) SetDead(ctx context.Context, player *model.Player) {
	c.logger.Info("player dead", "player", player.ID())
	if player.ID() == c.game.MyPlayerID() {
		c.finish()
	}
}

func (c *Client) SetStance(ctx context.Context, stance model.Stance, first, second *model.Player) {
	c.logger.Info("stance changed", "stance", stance, "first", first.ID(), "second", second.ID())
}

// SpyColony has nothing to show, so the tile is restored at once.
func (c *Client) SpyColony(ctx context.Context, tile *model.Tile, restore func()) {
	c.logger.Info("spied on colony", "tile", tile.ID(), "settlement", tile.SettlementID())
	restore()
}

func (c *Client) StartGame(ctx context.Context) {
	c.started.Store(true)
	c.logger.Info("game started", "turn", c.game.Turn())
}

func (c *Client) Victory(ctx context.Context, highScore string) {
	c.logger.Info("victory", "highScore", highScore)
	c.finish()
}

func (c *Client) InvalidateVisibility(ctx context.Context, player *model.Player) {
	c.visibility.Add(1)
	c.logger.Debug("visibility invalidated", "player", player.ID(), "generation", player.CanSeeGeneration())
}

// DrainPendingNotifications logs and discards queued model messages.
func (c *Client) DrainPendingNotifications(ctx context.Context) {
	me, ok := c.game.MyPlayer()
	if !ok {
		return
	}
	for _, m := range me.DrainModelMessages() {
		c.logger.Info("notification", "type", m.MessageType, "source", m.Source, "text", m.Text)
	}
}

func (c *Client) RefreshPlayerList(ctx context.Context) {
	players := c.game.Players()
	ready := 0
	for _, p := range players {
		if p.IsReady() {
			ready++
		}
	}
	c.logger.Debug("players", "count", len(players), "ready", ready)
}

func (c *Client) DisplayChat(ctx context.Context, sender *model.Player, text string, private bool) {
	c.logger.Info("chat", "sender", sender.Name(), "private", private, "text", text)
}

func (c *Client) ShowError(ctx context.Context, messageID, text string) {
	c.logger.Warn("server error", "messageID", messageID, "text", text)
}

func (c *Client) UpdateGameOptions(ctx context.Context) {
	c.logger.Debug("game options updated", "options", c.game.GameOptions().Len())
}

func (c *Client) UpdateMapGeneratorOptions(ctx context.Context) {
	c.logger.Debug("map generator options updated", "options", c.game.MapGeneratorOptions().Len())
}
