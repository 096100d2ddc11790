package dispatch

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// chooseFoundingFather asks the player to pick the next founding father.
// The choice goes back to the server as a new message.
func (d *Dispatcher) chooseFoundingFather(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	var fathers []string
	for _, c := range msg.ChildrenByTag(model.TagFoundingFather) {
		if id := c.ID(); id != "" {
			fathers = append(fathers, id)
		}
	}
	if len(fathers) == 0 {
		return d.errorReply(msg, invalidf("no founding fathers offered")), nil
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.ChooseFoundingFather(ctx, fathers) })
	return message.None(), nil
}

// closeMenus closes popups for offers the server has given up waiting on.
func (d *Dispatcher) closeMenus(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	if err := d.wait(ctx, d.ctrl.CloseMenus); err != nil {
		return message.None(), err
	}
	return message.None(), nil
}

// diplomacy asks the controller to answer a proposal and replies with its
// outcome. A nil outcome is sent as a reply without an agreement.
func (d *Dispatcher) diplomacy(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	dir := d.game.Directory()
	our, ok := dir.Lookup(msg.Attr("our"))
	if !ok {
		return d.dropped(msg, invalidf("our object omitted from diplomacy message")), nil
	}
	other, ok := dir.Lookup(msg.Attr("other"))
	if !ok {
		return d.dropped(msg, invalidf("other object omitted from diplomacy message")), nil
	}
	proposal := model.AgreementFromMessage(msg.FirstChild(model.TagAgreement))

	var outcome *model.Agreement
	err := d.wait(ctx, func(ctx context.Context) {
		outcome = d.ctrl.Diplomacy(ctx, our, other, proposal)
	})
	if err != nil {
		return message.None(), err
	}
	reply := message.New(colonynet.TagDiplomacy, "our", our.ID(), "other", other.ID())
	reply.Append(outcome.ToMessage())
	return message.Domain(reply), nil
}

// firstContact announces a meeting with a native nation. The local player
// must be the one making contact and the other player must be native.
func (d *Dispatcher) firstContact(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	dir := d.game.Directory()
	player, err := require[*model.Player](dir, msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	if player.ID() != d.game.MyPlayerID() {
		return d.errorReply(msg, invalidf("firstContact for player %q, not the local player", player.ID())), nil
	}
	other, err := require[*model.Player](dir, msg, "other")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	if other == player || !other.IsIndian() {
		return d.errorReply(msg, invalidf("firstContact with bad other player %q", other.ID())), nil
	}
	tile, err := optional[*model.Tile](dir, msg, "tile")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	if tile != nil && tile.OwnerID() != other.ID() {
		return d.errorReply(msg, invalidf("firstContact tile %q not owned by %q", tile.ID(), other.ID())), nil
	}
	settlements := msg.IntOr("settlements", 0)

	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.FirstContact(ctx, player, other, tile, settlements) })
	return message.None(), nil
}

// fountainOfYouth lets the player pick migrants. Any count that is not a
// positive integer gets the same error reply.
func (d *Dispatcher) fountainOfYouth(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	n := msg.IntOr("migrants", math.MinInt)
	if n <= 0 {
		return d.errorReply(msg, invalidf("invalid migrants attribute")), nil
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.FountainOfYouth(ctx, n) })
	return message.Success("fountain of youth accepted"), nil
}

func (d *Dispatcher) gameEnded(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	winner, err := require[*model.Player](d.game.Directory(), msg, "winner")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	highScore := msg.Attr("highScore")
	if winner.ID() == d.game.MyPlayerID() {
		d.later(msg.Tag, func(ctx context.Context) { d.ctrl.Victory(ctx, highScore) })
	}
	return message.Success("game ended"), nil
}

// indianDemand asks the player to accept or refuse a native demand on one
// of their colonies. A demand on a colony the local player does not own
// is a protocol violation and rejects the message.
func (d *Dispatcher) indianDemand(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	dir := d.game.Directory()
	unit, err := require[*model.Unit](dir, msg, "unit")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	colony, err := require[*model.Colony](dir, msg, "colony")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	if colony.OwnerID() == "" || colony.OwnerID() != d.game.MyPlayerID() {
		return message.None(), fmt.Errorf("%w: demand to another player's colony %s", ErrProtocolViolation, colony.ID())
	}
	goodsType := msg.Attr("goodsType")
	amount := msg.IntOr("amount", 0)

	var accepted bool
	err = d.wait(ctx, func(ctx context.Context) {
		accepted = d.ctrl.IndianDemand(ctx, unit, colony, goodsType, amount)
	})
	if err != nil {
		return message.None(), err
	}
	return message.Domain(msg.Clone().With("result", strconv.FormatBool(accepted))), nil
}

// lootCargo asks the player which captured goods to keep.
func (d *Dispatcher) lootCargo(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	unit, err := require[*model.Unit](d.game.Directory(), msg, "unit")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	defenderID, err := msg.Required("defender")
	if err != nil {
		return d.errorReply(msg, fmt.Errorf("%w: %v", ErrValidation, err)), nil
	}
	var goods []model.Goods
	for _, c := range msg.ChildrenByTag(model.TagGoods) {
		g, err := model.GoodsFromMessage(c)
		if err != nil {
			return d.errorReply(msg, invalidf("lootCargo goods: %v", err)), nil
		}
		goods = append(goods, g)
	}
	if len(goods) == 0 {
		return d.errorReply(msg, invalidf("lootCargo without goods")), nil
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.Loot(ctx, unit, goods, defenderID) })
	return message.None(), nil
}

func (d *Dispatcher) monarchAction(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	action, err := model.ParseMonarchAction(msg.Attr("action"))
	if err != nil {
		return d.errorReply(msg, invalidf("%v", err)), nil
	}
	var template []model.AbstractUnit
	for _, c := range msg.ChildrenByTag(model.TagAbstractUnit) {
		template = append(template, model.AbstractUnitFromMessage(c))
	}
	key := msg.Attr("monarchKey")
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.Monarch(ctx, action, template, key) })
	return message.None(), nil
}

// newLandName asks the player to name the land a unit has just reached.
func (d *Dispatcher) newLandName(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	unit, err := require[*model.Unit](d.game.Directory(), msg, "unit")
	if err != nil || unit.OwnerID() != d.game.MyPlayerID() {
		return d.errorReply(msg, invalidf("invalid unit for newLandName")), nil
	}
	name := msg.Attr("newLandName")
	if name == "" {
		return d.errorReply(msg, invalidf("invalid name for newLandName")), nil
	}
	if _, ok := d.game.TileOf(unit); !ok {
		return d.errorReply(msg, invalidf("unit %q is not on a tile", unit.ID())), nil
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.NewLandName(ctx, name, unit) })
	return message.None(), nil
}

// newRegionName asks the player to name a newly discovered region.
func (d *Dispatcher) newRegionName(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	dir := d.game.Directory()
	region, err := require[*model.Region](dir, msg, "region")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	name := msg.Attr("newRegionName")
	if name == "" {
		return d.errorReply(msg, invalidf("invalid name for newRegionName")), nil
	}
	tile, err := optional[*model.Tile](dir, msg, "tile")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	unit, err := optional[*model.Unit](dir, msg, "unit")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	if unit != nil && unit.OwnerID() != d.game.MyPlayerID() {
		unit = nil
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.NewRegionName(ctx, region, name, tile, unit) })
	return message.Success("new region name requested"), nil
}

func (d *Dispatcher) newTurn(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	n := msg.IntOr("turn", math.MinInt)
	if n < 0 {
		return d.errorReply(msg, invalidf("invalid turn for newTurn")), nil
	}
	d.later(msg.Tag, func(ctx context.Context) {
		d.game.SetTurn(n)
		d.ctrl.NewTurn(ctx, n)
	})
	return message.Success("new turn"), nil
}

func (d *Dispatcher) reconnect(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	d.later(msg.Tag, d.ctrl.Reconnect)
	return message.None(), nil
}
