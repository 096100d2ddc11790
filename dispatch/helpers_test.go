package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/luciancaetano/colonynet/gateway"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

// recorder is a Controller and Presentation that logs each call as a
// short string.
type recorder struct {
	mu    sync.Mutex
	calls []string

	onUI       []bool
	diplomacy  func(proposal *model.Agreement) *model.Agreement
	demand     bool
	restore    func()
	visibility int
	panicOn    string
}

func (r *recorder) record(ctx context.Context, format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.onUI = append(r.onUI, gateway.OnUI(ctx))
	panicOn := r.panicOn
	r.mu.Unlock()
	if panicOn != "" && panicOn == call {
		panic("boom: " + call)
	}
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) AllOnUI() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ok := range r.onUI {
		if !ok {
			return false
		}
	}
	return true
}

func (r *recorder) AnimateAttack(ctx context.Context, attacker, defender *model.Unit, at, dt *model.Tile, success bool) {
	r.record(ctx, "animateAttack %s %s %s %s %t", attacker.ID(), defender.ID(), at.ID(), dt.ID(), success)
}

func (r *recorder) AnimateMove(ctx context.Context, unit *model.Unit, from, to *model.Tile) {
	r.record(ctx, "animateMove %s %s %s", unit.ID(), from.ID(), to.ID())
}

func (r *recorder) Chat(ctx context.Context, sender *model.Player, text string, private bool) {
	r.record(ctx, "chat %s %s %t", sender.ID(), text, private)
}

func (r *recorder) ChooseFoundingFather(ctx context.Context, fathers []string) {
	r.record(ctx, "chooseFoundingFather %v", fathers)
}

func (r *recorder) CloseMenus(ctx context.Context) { r.record(ctx, "closeMenus") }

func (r *recorder) Diplomacy(ctx context.Context, our, other model.Object, proposal *model.Agreement) *model.Agreement {
	r.record(ctx, "diplomacy %s %s", our.ID(), other.ID())
	if r.diplomacy == nil {
		return nil
	}
	return r.diplomacy(proposal)
}

func (r *recorder) Disconnect(ctx context.Context, reason string) {
	r.record(ctx, "disconnect %s", reason)
}

func (r *recorder) Error(ctx context.Context, messageID, text string) {
	r.record(ctx, "error %s %s", messageID, text)
}

func (r *recorder) FirstContact(ctx context.Context, player, other *model.Player, tile *model.Tile, settlements int) {
	tileID := "-"
	if tile != nil {
		tileID = tile.ID()
	}
	r.record(ctx, "firstContact %s %s %s %d", player.ID(), other.ID(), tileID, settlements)
}

func (r *recorder) FountainOfYouth(ctx context.Context, migrants int) {
	r.record(ctx, "fountainOfYouth %d", migrants)
}

func (r *recorder) IndianDemand(ctx context.Context, unit *model.Unit, colony *model.Colony, goodsType string, amount int) bool {
	r.record(ctx, "indianDemand %s %s %s %d", unit.ID(), colony.ID(), goodsType, amount)
	return r.demand
}

func (r *recorder) Loot(ctx context.Context, unit *model.Unit, goods []model.Goods, defenderID string) {
	r.record(ctx, "loot %s %d %s", unit.ID(), len(goods), defenderID)
}

func (r *recorder) Monarch(ctx context.Context, action model.MonarchAction, template []model.AbstractUnit, key string) {
	r.record(ctx, "monarch %s %d %s", action, len(template), key)
}

func (r *recorder) NewLandName(ctx context.Context, name string, unit *model.Unit) {
	r.record(ctx, "newLandName %s %s", name, unit.ID())
}

func (r *recorder) NewRegionName(ctx context.Context, region *model.Region, name string, tile *model.Tile, unit *model.Unit) {
	unitID := "-"
	if unit != nil {
		unitID = unit.ID()
	}
	r.record(ctx, "newRegionName %s %s %s", region.ID(), name, unitID)
}

func (r *recorder) NewTurn(ctx context.Context, turn int) { r.record(ctx, "newTurn %d", turn) }

func (r *recorder) Reconnect(ctx context.Context) { r.record(ctx, "reconnect") }

func (r *recorder) Remove(ctx context.Context, objects []model.Object, divert model.Object) {
	ids := make([]string, len(objects))
	for i, o := range objects {
		ids[i] = o.ID()
	}
	divertID := "-"
	if divert != nil {
		divertID = divert.ID()
	}
	r.record(ctx, "remove %v %s", ids, divertID)
}

func (r *recorder) SetCurrentPlayer(ctx context.Context, player *model.Player) {
	call := "setCurrentPlayer " + player.ID()
	r.mu.Lock()
	r.calls = append(r.calls, call)
	panicOn := r.panicOn
	r.mu.Unlock()
	if panicOn == call {
		panic("boom: " + call)
	}
}

func (r *recorder) SetDead(ctx context.Context, player *model.Player) {
	r.record(ctx, "setDead %s", player.ID())
}

func (r *recorder) SetStance(ctx context.Context, stance model.Stance, first, second *model.Player) {
	r.record(ctx, "setStance %s %s %s", stance, first.ID(), second.ID())
}

func (r *recorder) SpyColony(ctx context.Context, tile *model.Tile, restore func()) {
	r.mu.Lock()
	r.restore = restore
	r.mu.Unlock()
	r.record(ctx, "spyColony %s", tile.ID())
}

func (r *recorder) StartGame(ctx context.Context) { r.record(ctx, "startGame") }

func (r *recorder) Victory(ctx context.Context, highScore string) {
	r.record(ctx, "victory %s", highScore)
}

func (r *recorder) InvalidateVisibility(ctx context.Context, player *model.Player) {
	r.mu.Lock()
	r.visibility++
	r.mu.Unlock()
}

func (r *recorder) Visibility() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visibility
}

func (r *recorder) DrainPendingNotifications(ctx context.Context) { r.record(ctx, "drain") }

func (r *recorder) RefreshPlayerList(ctx context.Context) { r.record(ctx, "refresh") }

func (r *recorder) DisplayChat(ctx context.Context, sender *model.Player, text string, private bool) {
	r.record(ctx, "displayChat %s %s %t", sender.ID(), text, private)
}

func (r *recorder) ShowError(ctx context.Context, messageID, text string) {
	r.record(ctx, "showError %s %s", messageID, text)
}

func (r *recorder) UpdateGameOptions(ctx context.Context) { r.record(ctx, "updateGameOptions") }

func (r *recorder) UpdateMapGeneratorOptions(ctx context.Context) {
	r.record(ctx, "updateMapGeneratorOptions")
}

type fakeConn struct{}

func (fakeConn) ID() string { return "conn-1" }

func (fakeConn) Send(context.Context, *message.Message) error { return nil }

type harness struct {
	t    *testing.T
	d    *Dispatcher
	game *model.Game
	rec  *recorder
	ui   *gateway.Gateway
	ctx  context.Context
	logs *logBuffer
}

// newHarness builds a dispatcher over a small world: the local player p1
// with unit u1 and colony c1 on t1, a native player p2 with unit u2 on t2,
// and a European rival p3 with colony c2 on t3.
func newHarness(t *testing.T, phase Phase) *harness {
	t.Helper()

	game := model.NewGame("p1")
	snaps := []*message.Message{
		message.New("player", "id", "p1", "name", "Dutch", "playerType", "colonial"),
		message.New("player", "id", "p2", "name", "Arawak", "playerType", "native"),
		message.New("player", "id", "p3", "name", "French", "playerType", "colonial"),
		message.New("tile", "id", "t1", "x", "1", "y", "1", "owner", "p1"),
		message.New("tile", "id", "t2", "x", "2", "y", "1", "owner", "p2"),
		message.New("tile", "id", "t3", "x", "3", "y", "1"),
		message.New("unit", "id", "u1", "owner", "p1", "location", "t1", "unitType", "freeColonist"),
		message.New("unit", "id", "u2", "owner", "p2", "location", "t2", "unitType", "brave"),
		message.New("colony", "id", "c1", "owner", "p1", "tile", "t1", "name", "Jamestown"),
		message.New("colony", "id", "c2", "owner", "p3", "tile", "t3", "name", "Quebec"),
		message.New("region", "id", "r1", "name", "Atlantic"),
	}
	for _, s := range snaps {
		if _, err := game.Applier().Merge(s.ID(), s); err != nil {
			t.Fatalf("seed %s: %v", s.ID(), err)
		}
	}

	logs := &logBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	ui := gateway.New(gateway.WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ui.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	rec := &recorder{}
	d, err := New(Config{
		Game:            game,
		Scheduler:       ui,
		Controller:      rec,
		Presentation:    rec,
		Logger:          logger,
		Phase:           phase,
		MapPollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{t: t, d: d, game: game, rec: rec, ui: ui, ctx: ctx, logs: logs}
}

// logBuffer collects log output written from several goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Lines returns the logged lines containing substr.
func (b *logBuffer) Lines(substr string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, line := range strings.Split(b.buf.String(), "\n") {
		if strings.Contains(line, substr) {
			out = append(out, line)
		}
	}
	return out
}

// handle dispatches msg and fails the test on a rejected message.
func (h *harness) handle(msg *message.Message) message.Reply {
	h.t.Helper()
	reply, err := h.d.Handle(h.ctx, fakeConn{}, msg)
	if err != nil {
		h.t.Fatalf("Handle(%s): %v", msg.Tag, err)
	}
	return reply
}

// settle waits until every task queued so far has run.
func (h *harness) settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(h.ctx, 2*time.Second)
	defer cancel()
	if err := h.ui.RunAndWait(ctx, func(context.Context) {}); err != nil {
		h.t.Fatalf("settle: %v", err)
	}
}

// calls settles the UI queue and returns the recorded calls.
func (h *harness) calls() []string {
	h.t.Helper()
	h.settle()
	return h.rec.Calls()
}

func wantCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %q, want %q", got, want)
		}
	}
}

func wantKind(t *testing.T, r message.Reply, kind message.ReplyKind) {
	t.Helper()
	if r.Kind() != kind {
		t.Fatalf("reply kind = %s (%s), want %s", r.Kind(), r.Tag(), kind)
	}
}
