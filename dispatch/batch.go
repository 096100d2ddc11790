package dispatch

import (
	"context"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
)

// multiple dispatches each child of an envelope in order. A child that
// fails is logged with its index and left out; it never affects its
// siblings. The surviving replies are collapsed into one, in order.
func (d *Dispatcher) multiple(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error) {
	replies := make([]message.Reply, 0, msg.Len())
	for i, child := range msg.Children {
		reply, err := d.Handle(ctx, conn, child)
		if err != nil {
			d.logger.Warn("caught failure in multiple item, continuing", "index", i, "error", err)
			continue
		}
		replies = append(replies, reply)
	}
	return message.Collapse(replies), nil
}
