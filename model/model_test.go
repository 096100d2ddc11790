package model

import (
	"errors"
	"sync"
	"testing"

	"github.com/luciancaetano/colonynet/message"
)

func newTestGame(t *testing.T, snaps ...*message.Message) *Game {
	t.Helper()
	g := NewGame("p1")
	for _, s := range snaps {
		if _, err := g.Applier().Merge(s.ID(), s); err != nil {
			t.Fatalf("merge %s: %v", s.ID(), err)
		}
	}
	return g
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		"player":           KindPlayer,
		"unit":             KindUnit,
		"colony":           KindColony,
		"indianSettlement": KindIndianSettlement,
		"tile":             KindTile,
		"region":           KindRegion,
		"goods":            KindUnknown,
	}
	for tag, want := range tests {
		if got := KindOf(tag); got != want {
			t.Errorf("KindOf(%q) = %s, want %s", tag, got, want)
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	g := NewGame("p1")
	snap := message.New("unit", "id", "u1", "owner", "p1", "location", "t1", "unitType", "scout")

	affects, err := g.Applier().Merge("u1", snap)
	if err != nil || !affects {
		t.Fatalf("first Merge() = %t, %v; want true, nil", affects, err)
	}
	affects, err = g.Applier().Merge("u1", snap)
	if err != nil || affects {
		t.Fatalf("second Merge() = %t, %v; want false, nil", affects, err)
	}
	if g.Directory().Len() != 1 {
		t.Errorf("directory has %d objects, want 1", g.Directory().Len())
	}
}

func TestMergeReplacesFields(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, message.New("unit", "id", "u1", "owner", "p1", "location", "t1", "role", "soldier"))
	if _, err := g.Applier().Merge("u1", message.New("unit", "id", "u1", "owner", "p1", "location", "t2")); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	u, _ := LookupAs[*Unit](g.Directory(), "u1")
	if u.Location() != "t2" || u.Role() != "" {
		t.Errorf("unit = %s/%s, want t2 with no role", u.Location(), u.Role())
	}
}

func TestMergeErrors(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, message.New("unit", "id", "u1", "owner", "p1"))

	tests := []struct {
		name string
		id   string
		snap *message.Message
		want error
	}{
		{"nil snapshot", "u1", nil, ErrInvalidSnapshot},
		{"kind mismatch", "u1", message.New("colony", "id", "u1"), ErrKindMismatch},
		{"id mismatch", "u1", message.New("unit", "id", "u2"), ErrInvalidSnapshot},
		{"unknown tag", "x1", message.New("goods", "id", "x1"), ErrInvalidSnapshot},
		{"bad stance", "p9", message.New("player", "id", "p9").Append(
			message.New("stance", "player", "p1", "value", "grumpy")), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := g.Applier().Merge(tt.id, tt.snap)
			if err == nil {
				t.Fatal("Merge() succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Merge() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateRequiresExisting(t *testing.T) {
	t.Parallel()

	g := NewGame("p1")
	if _, err := g.Applier().Update("u1", message.New("unit", "id", "u1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if g.Directory().Len() != 0 {
		t.Error("Update() created an object")
	}
}

func TestAffectsLocal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap *message.Message
		want bool
	}{
		{"local player", message.New("player", "id", "p1", "gold", "100"), true},
		{"other player", message.New("player", "id", "p2", "gold", "100"), false},
		{"own unit", message.New("unit", "id", "u1", "owner", "p1"), true},
		{"foreign unit", message.New("unit", "id", "u2", "owner", "p2"), false},
		{"own colony", message.New("colony", "id", "c1", "owner", "p1"), true},
		{"own settlement", message.New("indianSettlement", "id", "s1", "owner", "p1"), true},
		{"tile", message.New("tile", "id", "t1", "owner", "p1"), false},
		{"region", message.New("region", "id", "r1", "discoveredBy", "p1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewGame("p1")
			got, err := g.Applier().Merge(tt.snap.ID(), tt.snap)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if got != tt.want {
				t.Errorf("Merge() affects local = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestDirectory(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	if err := d.Register(NewUnit("")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("Register(empty id) error = %v", err)
	}
	if err := d.Register(NewUnit("u1")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := d.Lookup(""); ok {
		t.Error("Lookup(\"\") hit")
	}
	if _, err := d.LookupKind("u1", KindColony); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("LookupKind() error = %v, want ErrKindMismatch", err)
	}
	if _, err := d.LookupKind("u9", KindUnit); !errors.Is(err, ErrNotFound) {
		t.Errorf("LookupKind() error = %v, want ErrNotFound", err)
	}
	if _, ok := LookupAs[*Colony](d, "u1"); ok {
		t.Error("LookupAs[*Colony] matched a unit")
	}
	if !d.Remove("u1") || d.Remove("u1") {
		t.Error("Remove() should succeed once")
	}
}

func TestDirectoryConcurrentMerge(t *testing.T) {
	t.Parallel()

	g := NewGame("p1")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				loc := "t1"
				if (i+j)%2 == 0 {
					loc = "t2"
				}
				_, _ = g.Applier().Merge("u1", message.New("unit", "id", "u1", "owner", "p1", "location", loc))
				_, _ = g.Directory().Lookup("u1")
			}
		}(i)
	}
	wg.Wait()

	u, ok := LookupAs[*Unit](g.Directory(), "u1")
	if !ok || (u.Location() != "t1" && u.Location() != "t2") {
		t.Errorf("unit after concurrent merges = %v", u)
	}
}

func TestTileOf(t *testing.T) {
	t.Parallel()

	g := newTestGame(t,
		message.New("tile", "id", "t1"),
		message.New("tile", "id", "t2"),
		message.New("unit", "id", "ship", "location", "t1"),
		message.New("unit", "id", "cargo", "location", "ship"),
		message.New("colony", "id", "c1", "tile", "t2"),
		message.New("unit", "id", "worker", "location", "c1"),
		message.New("unit", "id", "lost", "location", "europe"),
		message.New("unit", "id", "loopA", "location", "loopB"),
		message.New("unit", "id", "loopB", "location", "loopA"),
	)

	tests := []struct {
		unit string
		want string
	}{
		{"ship", "t1"},
		{"cargo", "t1"},
		{"worker", "t2"},
		{"lost", ""},
		{"loopA", ""},
	}

	for _, tt := range tests {
		u, _ := LookupAs[*Unit](g.Directory(), tt.unit)
		tile, ok := g.TileOf(u)
		got := ""
		if ok {
			got = tile.ID()
		}
		if got != tt.want {
			t.Errorf("TileOf(%s) = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

func TestReadSnapshotRejectsWrongRoot(t *testing.T) {
	t.Parallel()

	g := NewGame("p1")
	if err := g.ReadSnapshot(message.New("map")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("ReadSnapshot(map) error = %v", err)
	}
	if err := g.ReadSnapshot(message.New("game").Append(message.New("nation", "id", "n", "state", "x"))); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("ReadSnapshot(bad nation) error = %v", err)
	}
	if g.HasMap() {
		t.Error("map flagged without a map child")
	}
}

func TestPlayerRecords(t *testing.T) {
	t.Parallel()

	p := NewPlayer("p1")
	p.AddFather("f1")
	p.AddFather("f1")
	if !p.HasFather("f1") || p.HasFather("f2") {
		t.Error("founding fathers not tracked")
	}

	p.AddLastSale(LastSale{Location: "europe", GoodsType: "furs", Price: 1})
	p.AddLastSale(LastSale{Location: "europe", GoodsType: "sugar", Price: 2})
	p.AddLastSale(LastSale{Location: "europe", GoodsType: "furs", Price: 3})
	sales := p.LastSales()
	if len(sales) != 2 {
		t.Fatalf("last sales = %+v, want 2", sales)
	}
	for _, s := range sales {
		if s.GoodsType == "furs" && s.Price != 3 {
			t.Errorf("furs price = %d, want 3", s.Price)
		}
	}

	gen := p.CanSeeGeneration()
	p.InvalidateCanSeeTiles()
	if p.CanSeeGeneration() != gen+1 {
		t.Error("InvalidateCanSeeTiles did not advance the generation")
	}
}

func TestGoodsFromMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     *message.Message
		wantErr bool
	}{
		{"valid", message.New("goods", "type", "furs", "amount", "100"), false},
		{"no type", message.New("goods", "amount", "100"), true},
		{"zero", message.New("goods", "type", "furs", "amount", "0"), true},
		{"not a number", message.New("goods", "type", "furs", "amount", "lots"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := GoodsFromMessage(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GoodsFromMessage() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err == nil && g.ToMessage().Attr("amount") != tt.msg.Attr("amount") {
				t.Errorf("ToMessage() = %v", g.ToMessage().Attrs)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	if s, err := ParseStance("ceaseFire"); err != nil || s != StanceCeaseFire {
		t.Errorf("ParseStance(ceaseFire) = %s, %v", s, err)
	}
	if _, err := ParseStance("War"); err == nil {
		t.Error("ParseStance should be case-sensitive")
	}
	if a, err := ParseMonarchAction("hessianMercenaries"); err != nil || a != MonarchHessianMercenaries {
		t.Errorf("ParseMonarchAction() = %s, %v", a, err)
	}
	if s, err := ParseNationState("notAvailable"); err != nil || s != NationNotAvailable {
		t.Errorf("ParseNationState() = %s, %v", s, err)
	}
}

func TestAgreementRoundTrip(t *testing.T) {
	t.Parallel()

	var nilAgreement *Agreement
	if nilAgreement.ToMessage() != nil {
		t.Error("nil agreement should render as nil")
	}
	if AgreementFromMessage(nil) != nil {
		t.Error("AgreementFromMessage(nil) should be nil")
	}

	src := message.New(TagAgreement, "context", "peace", "status", "proposed").Append(
		message.New("stanceTradeItem", "stance", "peace"),
	)
	a := AgreementFromMessage(src)
	out := a.ToMessage()
	if out.Attr("context") != "peace" || out.Len() != 1 || out.Child(0) == src.Child(0) {
		t.Errorf("ToMessage() = %+v", out)
	}
}

func TestTileDetailsReplaced(t *testing.T) {
	t.Parallel()

	tile := NewTile("t1")
	if _, err := tile.Apply(message.New("tile", "id", "t1", "type", "plains", "learnableSkill", "farmer")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v, ok := tile.Detail("learnableSkill"); !ok || v != "farmer" {
		t.Fatalf("Detail(learnableSkill) = %q, %t", v, ok)
	}

	changed, err := tile.Apply(message.New("tile", "id", "t1", "type", "plains", "mostHated", "p2"))
	if err != nil || !changed {
		t.Fatalf("Apply() = %t, %v", changed, err)
	}
	if _, ok := tile.Detail("learnableSkill"); ok {
		t.Error("stale detail survived a new snapshot")
	}
	if _, ok := tile.Detail("type"); ok {
		t.Error("typed field leaked into details")
	}
}

func TestFeatureSet(t *testing.T) {
	t.Parallel()

	if _, err := FeatureFromMessage(message.New("goods", "id", "x")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("FeatureFromMessage(goods) error = %v", err)
	}

	f, err := FeatureFromMessage(message.New(TagModifier, "id", "model.modifier.offence", "value", "50"))
	if err != nil {
		t.Fatalf("FeatureFromMessage: %v", err)
	}
	var s FeatureSet
	s.Add(f)
	if !s.Has(TagModifier, "model.modifier.offence") || s.Has(TagAbility, "model.modifier.offence") {
		t.Error("Has() mismatch")
	}
	if s.Remove(Feature{Tag: TagModifier, ID: "model.modifier.offence"}) {
		t.Error("Remove() matched a feature with a different value")
	}
	if !s.Remove(f) || s.Len() != 0 {
		t.Error("Remove() did not drop the feature")
	}
}
