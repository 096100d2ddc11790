package dispatch

import (
	"context"
	"errors"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// addObject attaches records to their owning players. A child whose owner
// does not resolve, or whose tag is unknown, is skipped on its own.
func (d *Dispatcher) addObject(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	for i, c := range msg.Children {
		owner := c.Attr("owner")
		p, ok := d.game.Player(owner)
		if !ok {
			d.logger.Warn("addObject with broken owner", "index", i, "owner", owner)
			continue
		}
		switch c.Tag {
		case model.TagFoundingFather:
			if id := c.ID(); id != "" {
				p.AddFather(id)
			}
			// Some fathers extend the player's line of sight.
			p.InvalidateCanSeeTiles()
		case model.TagHistoryEvent:
			p.AddHistory(model.HistoryEventFromMessage(c))
		case model.TagLastSale:
			p.AddLastSale(model.LastSaleFromMessage(c))
		case model.TagModelMessage:
			p.AddModelMessage(model.ModelMessageFromMessage(c))
		case model.TagTradeRoute:
			p.AddTradeRoute(model.TradeRouteFromMessage(c))
		default:
			d.logger.Warn("addObject unrecognized", "index", i, "child", c.Tag)
		}
	}
	return message.None(), nil
}

// update merges each child snapshot into the existing object with the same
// id. Visibility is invalidated at most once, after the whole batch.
func (d *Dispatcher) update(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	visibility := false
	for i, c := range msg.Children {
		changed, err := d.game.Applier().Update(c.ID(), c)
		switch {
		case errors.Is(err, model.ErrNotFound):
			d.logger.Info("update object not present in client", "index", i, "id", c.ID())
			continue
		case err != nil:
			d.logger.Warn("update could not apply snapshot", "index", i, "id", c.ID(), "error", err)
			continue
		}
		if changed {
			visibility = true
		}
	}
	if visibility {
		if me, ok := d.game.MyPlayer(); ok {
			me.InvalidateCanSeeTiles()
			d.pres.InvalidateVisibility(ctx, me)
		}
	}
	return message.None(), nil
}

// remove hands the objects still known locally to the controller, then
// drops them from the directory. Identifiers that no longer resolve are
// skipped: an earlier update may already have dropped them. Visibility is
// invalidated once when any removed object is ours.
func (d *Dispatcher) remove(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	dir := d.game.Directory()
	divert, _ := dir.Lookup(msg.Attr("divert"))
	var objects []model.Object
	visibility := false
	for _, c := range msg.Children {
		o, ok := dir.Lookup(c.ID())
		if !ok {
			d.logger.Debug("remove skipping unknown object", "id", c.ID())
			continue
		}
		objects = append(objects, o)
		if d.game.Applier().AffectsLocal(o) {
			visibility = true
		}
	}
	if len(objects) == 0 {
		return message.None(), nil
	}
	d.later(msg.Tag, func(ctx context.Context) {
		d.ctrl.Remove(ctx, objects, divert)
		for _, o := range objects {
			dir.Remove(o.ID())
		}
		if !visibility {
			return
		}
		if me, ok := d.game.MyPlayer(); ok {
			me.InvalidateCanSeeTiles()
			d.pres.InvalidateVisibility(ctx, me)
		}
	})
	return message.None(), nil
}

// featureChange adds or removes abilities and modifiers on an object. All
// children are validated before any is applied.
func (d *Dispatcher) featureChange(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	o, ok := d.game.Directory().Lookup(msg.ID())
	if !ok {
		return d.errorReply(msg, invalidf("featureChange object %q not found", msg.ID())), nil
	}
	holder, ok := o.(model.FeatureHolder)
	if !ok {
		return d.errorReply(msg, invalidf("featureChange object %q has no features", msg.ID())), nil
	}
	features := make([]model.Feature, 0, msg.Len())
	for _, c := range msg.Children {
		f, err := model.FeatureFromMessage(c)
		if err != nil {
			return d.errorReply(msg, invalidf("unrecognized element in featureChange: %s", c.Tag)), nil
		}
		features = append(features, f)
	}
	add := msg.Bool("add")
	set := holder.Features()
	for _, f := range features {
		if add {
			set.Add(f)
		} else {
			set.Remove(f)
		}
	}
	return message.Success("feature change applied"), nil
}

// spyResult applies the privileged snapshot of a tile now and hands the
// controller a callback restoring the ordinary snapshot when its view
// closes.
func (d *Dispatcher) spyResult(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	if msg.Len() != 2 {
		return d.errorReply(msg, invalidf("spyResult wants 2 children, got %d", msg.Len())), nil
	}
	tile, err := require[*model.Tile](d.game.Directory(), msg, "tile")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	full, normal := msg.Child(0), msg.Child(1)
	if _, err := tile.Apply(full); err != nil {
		return d.errorReply(msg, invalidf("spyResult full snapshot: %v", err)), nil
	}
	restore := func() {
		if _, err := tile.Apply(normal); err != nil {
			d.logger.Warn("spyResult could not restore tile", "tile", tile.ID(), "error", err)
		}
	}
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.SpyColony(ctx, tile, restore) })
	return message.Success("spy result received"), nil
}

// setAI flips a player's AI flag.
func (d *Dispatcher) setAI(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	ai := msg.Bool("ai")
	d.later(msg.Tag, func(context.Context) { p.SetAI(ai) })
	return message.None(), nil
}

// setCurrentPlayer runs inline: it changes no presentation state.
func (d *Dispatcher) setCurrentPlayer(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	d.game.SetCurrentPlayer(p.ID())
	d.ctrl.SetCurrentPlayer(ctx, p)
	return message.None(), nil
}

func (d *Dispatcher) setDead(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	d.later(msg.Tag, func(ctx context.Context) {
		p.SetDead(true)
		d.ctrl.SetDead(ctx, p)
	})
	return message.Success("player set dead"), nil
}

// setStance echoes the message whether or not it validates.
func (d *Dispatcher) setStance(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	stance, first, second, err := d.parseStance(msg)
	if err != nil {
		d.logger.Warn("error in setStance", "error", err)
		return message.Domain(msg), nil
	}
	d.later(msg.Tag, func(ctx context.Context) {
		first.SetStance(second.ID(), stance)
		d.ctrl.SetStance(ctx, stance, first, second)
	})
	return message.Domain(msg), nil
}

func (d *Dispatcher) parseStance(msg *message.Message) (model.Stance, *model.Player, *model.Player, error) {
	stance, err := model.ParseStance(msg.Attr("stance"))
	if err != nil {
		return 0, nil, nil, invalidf("%v", err)
	}
	first, err := require[*model.Player](d.game.Directory(), msg, "first")
	if err != nil {
		return 0, nil, nil, err
	}
	second, err := require[*model.Player](d.game.Directory(), msg, "second")
	if err != nil {
		return 0, nil, nil, err
	}
	return stance, first, second, nil
}
