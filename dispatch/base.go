package dispatch

import (
	"context"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

type chatSink func(ctx context.Context, sender *model.Player, text string, private bool)

type errorSink func(ctx context.Context, messageID, text string)

// disconnect tells the controller the server is closing the session.
func (d *Dispatcher) disconnect(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	reason := msg.Attr("reason")
	d.later(msg.Tag, func(ctx context.Context) { d.ctrl.Disconnect(ctx, reason) })
	return message.None(), nil
}

// logout removes a player that left the game.
func (d *Dispatcher) logout(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	if reason := msg.Attr("reason"); reason != "" {
		d.logger.Info("player logging out", "player", p.ID(), "reason", reason)
	}
	d.game.RemovePlayer(p.ID())
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}

// addPlayer constructs or merges every player snapshot among the children.
func (d *Dispatcher) addPlayer(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	for i, c := range msg.Children {
		if c.Tag != model.TagPlayer {
			d.logger.Warn("addPlayer with non-player child", "index", i, "child", c.Tag)
			continue
		}
		if _, err := d.game.Applier().Merge(c.ID(), c); err != nil {
			d.logger.Warn("addPlayer could not apply snapshot", "index", i, "id", c.ID(), "error", err)
		}
	}
	return message.None(), nil
}

// chat builds a chat handler delivering to sink on the UI context.
func (d *Dispatcher) chat(sink chatSink) handlerFunc {
	return func(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
		sender, err := require[*model.Player](d.game.Directory(), msg, "sender")
		if err != nil {
			return d.dropped(msg, err), nil
		}
		text := msg.Attr(message.AttrMessage)
		private := msg.Bool("private")
		d.later(msg.Tag, func(ctx context.Context) { sink(ctx, sender, text, private) })
		return message.None(), nil
	}
}

// serverError builds an error-notice handler delivering to sink on the UI
// context.
func (d *Dispatcher) serverError(sink errorSink) handlerFunc {
	return func(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
		id := msg.Attr(message.AttrMessageID)
		text := msg.Attr(message.AttrMessage)
		d.later(msg.Tag, func(ctx context.Context) { sink(ctx, id, text) })
		return message.None(), nil
	}
}

// refreshing runs h and, when it succeeds, refreshes the player list.
func (d *Dispatcher) refreshing(h handlerFunc) handlerFunc {
	return func(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
		reply, err := h(ctx, conn, msg)
		if err == nil {
			d.later(msg.Tag, d.pres.RefreshPlayerList)
		}
		return reply, err
	}
}
