package colonynet

import (
	"context"

	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// Connection is the transport session a message arrived on.
//
// Handlers pass it through to nested dispatch but never inspect it.
// Controllers use Send to deliver decisions that are answered later
// rather than as the reply to the message that asked for them.
type Connection interface {
	// ID returns the unique identifier of the connection.
	ID() string

	// Send queues a message for delivery to the server.
	Send(ctx context.Context, msg *message.Message) error
}

// Handler turns one inbound message into at most one reply.
//
// A non-nil error means the message was rejected: no reply is sent and the
// transport logs the error. The connection stays open either way.
type Handler interface {
	Handle(ctx context.Context, conn Connection, msg *message.Message) (message.Reply, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, conn Connection, msg *message.Message) (message.Reply, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, conn Connection, msg *message.Message) (message.Reply, error) {
	return f(ctx, conn, msg)
}

// Controller owns the game-rule side of the client.
//
// Every method except SetCurrentPlayer is called on the UI context.
// Methods that return a value are called through a blocking hand-off and
// their result becomes part of the reply; the rest are queued and answer,
// if at all, by sending a new message on the connection.
type Controller interface {
	AnimateAttack(ctx context.Context, attacker, defender *model.Unit, attackerTile, defenderTile *model.Tile, success bool)
	AnimateMove(ctx context.Context, unit *model.Unit, from, to *model.Tile)
	Chat(ctx context.Context, sender *model.Player, text string, private bool)
	ChooseFoundingFather(ctx context.Context, fathers []string)
	CloseMenus(ctx context.Context)
	// Diplomacy returns the counter-proposal, or nil to reject.
	Diplomacy(ctx context.Context, our, other model.Object, proposal *model.Agreement) *model.Agreement
	Disconnect(ctx context.Context, reason string)
	Error(ctx context.Context, messageID, text string)
	FirstContact(ctx context.Context, player, other *model.Player, tile *model.Tile, settlements int)
	FountainOfYouth(ctx context.Context, migrants int)
	// IndianDemand reports whether the demand is accepted.
	IndianDemand(ctx context.Context, unit *model.Unit, colony *model.Colony, goodsType string, amount int) bool
	Loot(ctx context.Context, unit *model.Unit, goods []model.Goods, defenderID string)
	Monarch(ctx context.Context, action model.MonarchAction, template []model.AbstractUnit, monarchKey string)
	NewLandName(ctx context.Context, defaultName string, unit *model.Unit)
	NewRegionName(ctx context.Context, region *model.Region, defaultName string, tile *model.Tile, unit *model.Unit)
	NewTurn(ctx context.Context, turn int)
	Reconnect(ctx context.Context)
	Remove(ctx context.Context, objects []model.Object, divert model.Object)
	// SetCurrentPlayer is called inline on the dispatching goroutine so the
	// turn owner is settled before the next message is handled.
	SetCurrentPlayer(ctx context.Context, player *model.Player)
	SetDead(ctx context.Context, player *model.Player)
	SetStance(ctx context.Context, stance model.Stance, first, second *model.Player)
	// SpyColony shows the privileged view of a tile. restore must be
	// called when the view closes.
	SpyColony(ctx context.Context, tile *model.Tile, restore func())
	StartGame(ctx context.Context)
	Victory(ctx context.Context, highScore string)
}

// Presentation is the view side of the client.
//
// InvalidateVisibility may be called from any goroutine; the other methods
// are only called on the UI context.
type Presentation interface {
	InvalidateVisibility(ctx context.Context, player *model.Player)
	DrainPendingNotifications(ctx context.Context)
	RefreshPlayerList(ctx context.Context)
	DisplayChat(ctx context.Context, sender *model.Player, text string, private bool)
	ShowError(ctx context.Context, messageID, text string)
	UpdateGameOptions(ctx context.Context)
	UpdateMapGeneratorOptions(ctx context.Context)
}
