package dispatch

import (
	"context"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// Animations wait for the UI context: moves and attacks from different
// sources must play one after another.

func (d *Dispatcher) animateAttack(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	attacker, freshAttacker, err := d.unitOrSnapshot(msg, "attacker")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	defender, freshDefender, err := d.unitOrSnapshot(msg, "defender")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	attackerTile, err := require[*model.Tile](d.game.Directory(), msg, "attackerTile")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	defenderTile, err := require[*model.Tile](d.game.Directory(), msg, "defenderTile")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	success := msg.Bool("success")

	if freshAttacker {
		d.registerFresh(attacker)
	}
	if freshDefender {
		d.registerFresh(defender)
	}
	err = d.wait(ctx, func(ctx context.Context) {
		d.ctrl.AnimateAttack(ctx, attacker, defender, attackerTile, defenderTile, success)
	})
	if err != nil {
		return message.None(), err
	}
	return message.None(), nil
}

// animateMove only animates; the unit's position changes through update.
// The message is echoed once the animation has played.
func (d *Dispatcher) animateMove(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	unit, fresh, err := d.unitOrSnapshot(msg, "unit")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	oldTile, err := require[*model.Tile](d.game.Directory(), msg, "oldTile")
	if err != nil {
		return d.dropped(msg, err), nil
	}
	newTile, err := require[*model.Tile](d.game.Directory(), msg, "newTile")
	if err != nil {
		return d.dropped(msg, err), nil
	}

	if fresh {
		d.registerFresh(unit)
	}
	err = d.wait(ctx, func(ctx context.Context) {
		d.ctrl.AnimateMove(ctx, unit, oldTile, newTile)
	})
	if err != nil {
		return message.None(), err
	}
	return message.Domain(msg), nil
}
