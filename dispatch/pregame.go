package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

func (d *Dispatcher) playerReady(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	p.SetReady(msg.Bool("value"))
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}

// removePlayer drops the player described by the embedded snapshot.
func (d *Dispatcher) removePlayer(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	snap := msg.FirstChild(model.TagPlayer)
	if snap == nil || snap.ID() == "" {
		return d.dropped(msg, invalidf("removePlayer without player snapshot")), nil
	}
	if !d.game.RemovePlayer(snap.ID()) {
		d.logger.Debug("removePlayer for unknown player", "id", snap.ID())
	}
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}

func (d *Dispatcher) setAvailable(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	nation, ok := d.game.Nation(msg.Attr("nation"))
	if !ok {
		return d.errorReply(msg, invalidf("invalid nation: %s", msg.Attr("nation"))), nil
	}
	state, err := model.ParseNationState(msg.Attr("state"))
	if err != nil {
		return d.errorReply(msg, invalidf("%v", err)), nil
	}
	nation.SetState(state)
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}

// startGame moves the dispatcher to the in-session table, then waits in
// the background for the map before starting the game on the UI context.
// The wait ends early if ctx is cancelled.
func (d *Dispatcher) startGame(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	if !d.phase.CompareAndSwap(int32(PreSession), int32(InSession)) {
		d.logger.Warn("startGame outside pre-session", "phase", d.Phase().String())
		return message.None(), nil
	}
	d.logger.Info("session started")
	go d.startWhenMapReady(ctx)
	return message.None(), nil
}

func (d *Dispatcher) startWhenMapReady(ctx context.Context) {
	if !d.game.HasMap() {
		ticker := time.NewTicker(d.mapPoll)
		defer ticker.Stop()
		for !d.game.HasMap() {
			select {
			case <-ctx.Done():
				d.logger.Warn("gave up waiting for map", "error", ctx.Err())
				return
			case <-ticker.C:
			}
		}
	}
	if ctx.Err() != nil {
		d.logger.Warn("session ended before the game started", "error", ctx.Err())
		return
	}
	d.later(colonynet.TagStartGame, d.ctrl.StartGame)
}

func (d *Dispatcher) updateColor(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	id := msg.Attr("nation")
	nation, ok := d.game.Nation(id)
	if !ok {
		return d.errorReply(msg, invalidf("invalid nation: %s", id)), nil
	}
	rgb, err := msg.Int("color")
	if err != nil {
		return d.errorReply(msg, invalidf("invalid color: %s", msg.Attr("color"))), nil
	}
	nation.SetColor(rgb)
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.Success(fmt.Sprintf("color updated for %s", id)), nil
}

// updateGame replaces the lobby's view of the game with a full snapshot.
func (d *Dispatcher) updateGame(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	if msg.Len() != 1 {
		return d.dropped(msg, invalidf("child node expected")), nil
	}
	if err := d.game.ReadSnapshot(msg.Child(0)); err != nil {
		return d.errorReply(msg, fmt.Errorf("%w: %v", ErrValidation, err)), nil
	}
	return message.None(), nil
}

func (d *Dispatcher) updateGameOptions(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	snap := msg.FirstChild(model.TagGameOptions)
	if snap == nil {
		return d.dropped(msg, invalidf("missing %s", model.TagGameOptions)), nil
	}
	if err := d.game.GameOptions().Read(snap); err != nil {
		return d.dropped(msg, err), nil
	}
	d.later(msg.Tag, d.pres.UpdateGameOptions)
	return message.None(), nil
}

func (d *Dispatcher) updateMapGeneratorOptions(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	snap := msg.FirstChild(model.TagMapGeneratorOptions)
	if snap == nil {
		return d.dropped(msg, invalidf("missing %s", model.TagMapGeneratorOptions)), nil
	}
	if err := d.game.MapGeneratorOptions().Read(snap); err != nil {
		return d.dropped(msg, err), nil
	}
	d.later(msg.Tag, d.pres.UpdateMapGeneratorOptions)
	return message.None(), nil
}

func (d *Dispatcher) updateNation(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	nation, ok := d.game.Nation(msg.Attr("value"))
	if !ok {
		return d.errorReply(msg, invalidf("invalid nation: %s", msg.Attr("value"))), nil
	}
	p.SetNation(nation.ID())
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}

func (d *Dispatcher) updateNationType(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	p, err := require[*model.Player](d.game.Directory(), msg, "player")
	if err != nil {
		return d.errorReply(msg, err), nil
	}
	id := msg.Attr("value")
	if !d.game.HasNationType(id) {
		return d.errorReply(msg, invalidf("invalid nation type: %s", id)), nil
	}
	p.ChangeNationType(id)
	d.later(msg.Tag, d.pres.RefreshPlayerList)
	return message.None(), nil
}
