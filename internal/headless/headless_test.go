package headless

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

type sentLog struct {
	mu   sync.Mutex
	msgs []*message.Message
}

func (s *sentLog) ID() string { return "test" }

func (s *sentLog) Send(_ context.Context, msg *message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *sentLog) last(t *testing.T) *message.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		t.Fatal("nothing sent")
	}
	return s.msgs[len(s.msgs)-1]
}

func (s *sentLog) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func newClient(t *testing.T) (*Client, *sentLog, *model.Game) {
	t.Helper()
	conn := &sentLog{}
	game := model.NewGame("p1")
	if err := game.AddPlayer(model.NewPlayer("p1")); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	return New(conn, game, slog.New(slog.DiscardHandler)), conn, game
}

func TestDecisionsAreSent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	unit := model.NewUnit("u1")
	region := model.NewRegion("r1")

	tests := []struct {
		name    string
		act     func(c *Client)
		wantTag string
		check   func(t *testing.T, m *message.Message)
	}{
		{
			name:    "founding father",
			act:     func(c *Client) { c.ChooseFoundingFather(ctx, []string{"f1", "f2"}) },
			wantTag: colonynet.TagChooseFoundingFather,
			check: func(t *testing.T, m *message.Message) {
				if m.Len() != 1 || m.Child(0).ID() != "f1" {
					t.Errorf("chose %+v, want f1", m.Children)
				}
			},
		},
		{
			name:    "loot",
			act:     func(c *Client) { c.Loot(ctx, unit, []model.Goods{{GoodsType: "furs", Amount: 50}}, "u9") },
			wantTag: colonynet.TagLootCargo,
			check: func(t *testing.T, m *message.Message) {
				if m.Attr("defender") != "u9" || m.Len() != 1 || m.Child(0).Attr("amount") != "50" {
					t.Errorf("loot = %+v", m)
				}
			},
		},
		{
			name:    "tax raise accepted",
			act:     func(c *Client) { c.Monarch(ctx, model.MonarchRaiseTaxAct, nil, "k1") },
			wantTag: colonynet.TagMonarchAction,
			check: func(t *testing.T, m *message.Message) {
				if m.Attr("accepted") != "true" || m.Attr("action") != "raiseTaxAct" {
					t.Errorf("monarch = %v", m.Attrs)
				}
			},
		},
		{
			name:    "mercenaries declined",
			act:     func(c *Client) { c.Monarch(ctx, model.MonarchHessianMercenaries, nil, "k2") },
			wantTag: colonynet.TagMonarchAction,
			check: func(t *testing.T, m *message.Message) {
				if m.Attr("accepted") != "false" {
					t.Errorf("monarch = %v", m.Attrs)
				}
			},
		},
		{
			name:    "land name",
			act:     func(c *Client) { c.NewLandName(ctx, "New Holland", unit) },
			wantTag: colonynet.TagNewLandName,
			check: func(t *testing.T, m *message.Message) {
				if m.Attr("newLandName") != "New Holland" || m.Attr("unit") != "u1" {
					t.Errorf("land name = %v", m.Attrs)
				}
			},
		},
		{
			name:    "region name",
			act:     func(c *Client) { c.NewRegionName(ctx, region, "Great Lakes", nil, nil) },
			wantTag: colonynet.TagNewRegionName,
			check: func(t *testing.T, m *message.Message) {
				if m.HasAttr("tile") || m.HasAttr("unit") || m.Attr("region") != "r1" {
					t.Errorf("region name = %v", m.Attrs)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, conn, _ := newClient(t)
			tt.act(c)
			m := conn.last(t)
			if m.Tag != tt.wantTag {
				t.Fatalf("sent %q, want %q", m.Tag, tt.wantTag)
			}
			tt.check(t, m)
		})
	}
}

func TestMonarchInformationalSendsNothing(t *testing.T) {
	t.Parallel()

	c, conn, _ := newClient(t)
	c.Monarch(context.Background(), model.MonarchDeclareWar, nil, "")
	if conn.count() != 0 {
		t.Errorf("sent %d messages, want 0", conn.count())
	}
}

func TestDiplomacyAcceptsCopy(t *testing.T) {
	t.Parallel()

	c, _, _ := newClient(t)
	proposal := &model.Agreement{Context: "trade", Status: "proposed"}

	got := c.Diplomacy(context.Background(), model.NewUnit("u1"), model.NewColony("c2"), proposal)
	if got == nil || got.Status != "accept" {
		t.Fatalf("Diplomacy() = %+v, want accepted", got)
	}
	if proposal.Status != "proposed" {
		t.Error("proposal mutated")
	}
	if c.Diplomacy(context.Background(), model.NewUnit("u1"), model.NewColony("c2"), nil) != nil {
		t.Error("nil proposal should be rejected")
	}
}

func TestDoneAfterVictoryOrDeath(t *testing.T) {
	t.Parallel()

	c, _, game := newClient(t)
	me, _ := game.MyPlayer()

	c.SetDead(context.Background(), model.NewPlayer("p2"))
	select {
	case <-c.Done():
		t.Fatal("done after another player's death")
	default:
	}

	c.SetDead(context.Background(), me)
	c.Victory(context.Background(), "true")
	select {
	case <-c.Done():
	default:
		t.Fatal("not done after own death")
	}
}

func TestSpyColonyRestores(t *testing.T) {
	t.Parallel()

	c, _, _ := newClient(t)
	restored := false
	c.SpyColony(context.Background(), model.NewTile("t1"), func() { restored = true })
	if !restored {
		t.Error("restore not called")
	}
}

func TestPresentationCounters(t *testing.T) {
	t.Parallel()

	c, _, game := newClient(t)
	me, _ := game.MyPlayer()
	me.AddModelMessage(model.ModelMessage{ID: "m1", Text: "hello"})

	c.InvalidateVisibility(context.Background(), me)
	c.InvalidateVisibility(context.Background(), me)
	if got := c.VisibilityChanges(); got != 2 {
		t.Errorf("VisibilityChanges() = %d, want 2", got)
	}

	c.DrainPendingNotifications(context.Background())
	if left := me.DrainModelMessages(); len(left) != 0 {
		t.Errorf("%d notifications left after drain", len(left))
	}

	c.StartGame(context.Background())
	if !c.Started() {
		t.Error("Started() = false after StartGame")
	}
}
