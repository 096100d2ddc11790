// Package dispatch maps inbound server messages to handlers, applies them
// to the client's replica of the game and builds the reply, if any.
//
// A Dispatcher holds one handler table per protocol phase. The lobby
// (pre-session) table is active until a startGame message moves the
// dispatcher to the in-session table; the move happens once and is never
// undone. Both tables share the disconnect, logout and multiple handlers,
// and build chat, error and addPlayer from the same functions bound to
// different sinks.
//
// Handlers that touch presentation state hand their work to the UI
// context through a Scheduler. Handlers whose reply depends on the
// controller's answer, and animations, wait for the UI context; the rest
// queue their work and return. Dispatch order is never affected: the
// hand-off defers effects, not the handling of the next message.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/gateway"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

var (
	// ErrValidation marks a missing or malformed attribute, or a required
	// reference that did not resolve.
	ErrValidation = errors.New("validation failed")
	// ErrProtocolViolation marks a message the server must never send.
	// The message is rejected as a whole.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrHandlerPanic marks a handler that panicked.
	ErrHandlerPanic = errors.New("handler panicked")
)

// Phase selects the active handler table.
type Phase int32

const (
	PreSession Phase = iota
	InSession
)

func (p Phase) String() string {
	switch p {
	case PreSession:
		return "pre-session"
	case InSession:
		return "in-session"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Scheduler hands tasks to the UI context. *gateway.Gateway implements it.
type Scheduler interface {
	RunAndWait(ctx context.Context, task gateway.Task) error
	RunLater(task gateway.Task) error
}

type handlerFunc func(ctx context.Context, conn colonynet.Connection, msg *message.Message) (message.Reply, error)

// Config configures a Dispatcher.
type Config struct {
	Game         *model.Game
	Scheduler    Scheduler
	Controller   colonynet.Controller
	Presentation colonynet.Presentation
	Logger       *slog.Logger

	// Phase is the starting phase, PreSession unless the client joins a
	// game already in progress.
	Phase Phase

	// MapPollInterval is how often startGame checks for the map before
	// starting the game. Defaults to 200ms.
	MapPollInterval time.Duration
}

// Dispatcher implements colonynet.Handler.
type Dispatcher struct {
	game   *model.Game
	sched  Scheduler
	ctrl   colonynet.Controller
	pres   colonynet.Presentation
	logger *slog.Logger

	phase   atomic.Int32
	tables  map[Phase]map[string]handlerFunc
	mapPoll time.Duration
}

var _ colonynet.Handler = (*Dispatcher)(nil)

// New builds a dispatcher and its handler tables.
func New(cfg Config) (*Dispatcher, error) {
	switch {
	case cfg.Game == nil:
		return nil, errors.New("dispatch: nil game")
	case cfg.Scheduler == nil:
		return nil, errors.New("dispatch: nil scheduler")
	case cfg.Controller == nil:
		return nil, errors.New("dispatch: nil controller")
	case cfg.Presentation == nil:
		return nil, errors.New("dispatch: nil presentation")
	case cfg.Phase != PreSession && cfg.Phase != InSession:
		return nil, fmt.Errorf("dispatch: invalid phase %v", cfg.Phase)
	}
	d := &Dispatcher{
		game:    cfg.Game,
		sched:   cfg.Scheduler,
		ctrl:    cfg.Controller,
		pres:    cfg.Presentation,
		logger:  cfg.Logger,
		mapPoll: cfg.MapPollInterval,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.mapPoll <= 0 {
		d.mapPoll = 200 * time.Millisecond
	}
	d.phase.Store(int32(cfg.Phase))
	d.tables = map[Phase]map[string]handlerFunc{
		PreSession: d.preSessionTable(),
		InSession:  d.inSessionTable(),
	}
	return d, nil
}

// Phase returns the active phase.
func (d *Dispatcher) Phase() Phase {
	return Phase(d.phase.Load())
}

// Tags returns the sorted tags handled in a phase.
func (d *Dispatcher) Tags(p Phase) []string {
	tags := make([]string, 0, len(d.tables[p]))
	for t := range d.tables[p] {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Handle dispatches msg to the handler bound to its tag in the active
// phase. Unknown tags are logged and produce no reply. A returned error
// rejects the message; panics in handlers are recovered into
// ErrHandlerPanic.
func (d *Dispatcher) Handle(ctx context.Context, conn colonynet.Connection, msg *message.Message) (reply message.Reply, err error) {
	if msg == nil {
		return message.None(), fmt.Errorf("%w: nil message", ErrValidation)
	}
	phase := d.Phase()
	h, ok := d.tables[phase][msg.Tag]
	if !ok {
		d.logger.Warn("unsupported message type", "tag", msg.Tag, "phase", phase.String())
		return message.None(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			reply = message.None()
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, msg.Tag, r)
		}
	}()

	d.logger.Debug("received message", "tag", msg.Tag, "phase", phase.String())
	reply, err = h(ctx, conn, msg)
	if err != nil {
		return message.None(), fmt.Errorf("%s: %w", msg.Tag, err)
	}
	d.logger.Debug("handled message", "tag", msg.Tag, "reply", reply.Tag())

	if msg.Bool(colonynet.AttrFlush) && d.game.CurrentPlayerIsMine() {
		d.later(msg.Tag, d.pres.DrainPendingNotifications)
	}
	return reply, nil
}

// later queues a task on the UI context. A closed gateway only loses the
// effect, so the failure is logged rather than returned.
func (d *Dispatcher) later(tag string, task gateway.Task) {
	if err := d.sched.RunLater(task); err != nil {
		d.logger.Warn("could not schedule ui task", "tag", tag, "error", err)
	}
}

// wait runs a task on the UI context and blocks until it completes.
func (d *Dispatcher) wait(ctx context.Context, task gateway.Task) error {
	if err := d.sched.RunAndWait(ctx, task); err != nil {
		return fmt.Errorf("ui hand-off: %w", err)
	}
	return nil
}

// errorReply logs a validation failure and turns it into an error reply.
func (d *Dispatcher) errorReply(msg *message.Message, err error) message.Reply {
	d.logger.Warn("invalid message", "tag", msg.Tag, "error", err)
	return message.Error("", err.Error())
}

// dropped logs a validation failure for a handler that answers with no
// reply.
func (d *Dispatcher) dropped(msg *message.Message, err error) message.Reply {
	d.logger.Warn("ignoring invalid message", "tag", msg.Tag, "error", err)
	return message.None()
}
