package model

import "github.com/luciancaetano/colonynet/message"

// Tags of the records a player accumulates through addObject.
const (
	TagFoundingFather = "foundingFather"
	TagHistoryEvent   = "historyEvent"
	TagLastSale       = "lastSale"
	TagModelMessage   = "modelMessage"
	TagTradeRoute     = "tradeRoute"
	TagGoods          = "goods"
	TagAbstractUnit   = "abstractUnit"
)

// HistoryEvent is an entry in a player's history.
type HistoryEvent struct {
	Turn      int
	EventType string
	Text      string
}

// HistoryEventFromMessage reads a historyEvent node.
func HistoryEventFromMessage(m *message.Message) HistoryEvent {
	return HistoryEvent{
		Turn:      m.IntOr("turn", 0),
		EventType: m.Attr("eventType"),
		Text:      m.Attr(message.AttrMessage),
	}
}

// LastSale records the last price obtained for a goods type at a location.
type LastSale struct {
	Location  string
	GoodsType string
	Price     int
	Turn      int
}

// LastSaleFromMessage reads a lastSale node.
func LastSaleFromMessage(m *message.Message) LastSale {
	return LastSale{
		Location:  m.Attr("location"),
		GoodsType: m.Attr("goodsType"),
		Price:     m.IntOr("price", 0),
		Turn:      m.IntOr("when", 0),
	}
}

// ModelMessage is a notification queued for display to the player.
type ModelMessage struct {
	ID          string
	MessageType string
	Source      string
	Text        string
}

// ModelMessageFromMessage reads a modelMessage node.
func ModelMessageFromMessage(m *message.Message) ModelMessage {
	return ModelMessage{
		ID:          m.ID(),
		MessageType: m.Attr("messageType"),
		Source:      m.Attr("source"),
		Text:        m.Attr(message.AttrMessage),
	}
}

// TradeRoute is a named sequence of stops.
type TradeRoute struct {
	ID    string
	Name  string
	Stops []string
}

// TradeRouteFromMessage reads a tradeRoute node with "stop" children.
func TradeRouteFromMessage(m *message.Message) TradeRoute {
	tr := TradeRoute{ID: m.ID(), Name: m.Attr("name")}
	for _, s := range m.ChildrenByTag("stop") {
		tr.Stops = append(tr.Stops, s.Attr("location"))
	}
	return tr
}

// Goods is an amount of a goods type.
type Goods struct {
	GoodsType string
	Amount    int
}

// GoodsFromMessage reads a goods node. The amount must be positive.
func GoodsFromMessage(m *message.Message) (Goods, error) {
	t, err := m.Required("type")
	if err != nil {
		return Goods{}, err
	}
	n, err := m.Int("amount")
	if err != nil {
		return Goods{}, err
	}
	if n <= 0 {
		return Goods{}, message.ErrInvalidAttribute
	}
	return Goods{GoodsType: t, Amount: n}, nil
}

// ToMessage renders the goods as a node.
func (g Goods) ToMessage() *message.Message {
	return message.New(TagGoods, "type", g.GoodsType, "amount", itoa(g.Amount))
}

// AbstractUnit describes units by type and role without instantiating them.
type AbstractUnit struct {
	UnitType string
	Role     string
	Number   int
}

// AbstractUnitFromMessage reads an abstractUnit node.
func AbstractUnitFromMessage(m *message.Message) AbstractUnit {
	return AbstractUnit{
		UnitType: m.Attr("unitType"),
		Role:     m.Attr("role"),
		Number:   m.IntOr("number", 1),
	}
}

// Agreement is a diplomatic trade under negotiation.
type Agreement struct {
	Context string
	Status  string
	Items   []*message.Message
}

// TagAgreement is the tag of a diplomatic trade node.
const TagAgreement = "diplomaticTrade"

// AgreementFromMessage reads a diplomaticTrade node. Items are kept opaque.
func AgreementFromMessage(m *message.Message) *Agreement {
	if m == nil {
		return nil
	}
	a := &Agreement{Context: m.Attr("context"), Status: m.Attr("status")}
	for _, c := range m.Children {
		a.Items = append(a.Items, c.Clone())
	}
	return a
}

// ToMessage renders the agreement as a diplomaticTrade node.
func (a *Agreement) ToMessage() *message.Message {
	if a == nil {
		return nil
	}
	m := message.New(TagAgreement, "context", a.Context, "status", a.Status)
	for _, it := range a.Items {
		m.Append(it.Clone())
	}
	return m
}
