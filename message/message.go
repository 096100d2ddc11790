// Package message defines the tagged node exchanged with the game server
// and the reply values produced by message handlers.
//
// A Message is either a protocol message or an object snapshot embedded in
// one. Attribute values are always strings; numeric and boolean values are
// parsed on demand through the typed accessors in attrs.go.
package message

// Message is a tagged, attributed node with ordered children.
//
// Messages received from a connection must be treated as immutable. The
// builder helpers (New, With, Append) are meant for messages under
// construction, before they are handed to a connection.
type Message struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Message        `json:"children,omitempty"`
}

// New creates a message with the given tag. The optional kv arguments are
// read as key/value pairs; a trailing key without a value is ignored.
func New(tag string, kv ...string) *Message {
	m := &Message{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		m.With(kv[i], kv[i+1])
	}
	return m
}

// With sets an attribute and returns the message for chaining.
func (m *Message) With(key, value string) *Message {
	if m.Attrs == nil {
		m.Attrs = make(map[string]string)
	}
	m.Attrs[key] = value
	return m
}

// Append adds children in order and returns the message for chaining.
// Nil children are skipped.
func (m *Message) Append(children ...*Message) *Message {
	for _, c := range children {
		if c != nil {
			m.Children = append(m.Children, c)
		}
	}
	return m
}

// Attr returns the attribute value, or "" when absent.
func (m *Message) Attr(key string) string {
	if m == nil {
		return ""
	}
	return m.Attrs[key]
}

// HasAttr reports whether the attribute is present, even if empty.
func (m *Message) HasAttr(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Attrs[key]
	return ok
}

// ID returns the object identifier carried in the "id" attribute.
func (m *Message) ID() string {
	return m.Attr(AttrID)
}

// Len returns the number of children.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Children)
}

// Child returns the i-th child or nil when out of range.
func (m *Message) Child(i int) *Message {
	if m == nil || i < 0 || i >= len(m.Children) {
		return nil
	}
	return m.Children[i]
}

// FirstChild returns the first child with the given tag.
func (m *Message) FirstChild(tag string) *Message {
	if m == nil {
		return nil
	}
	for _, c := range m.Children {
		if c != nil && c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns all children with the given tag, in order.
func (m *Message) ChildrenByTag(tag string) []*Message {
	if m == nil {
		return nil
	}
	var out []*Message
	for _, c := range m.Children {
		if c != nil && c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// SelectByID returns the direct child whose "id" attribute equals id.
func (m *Message) SelectByID(id string) *Message {
	if m == nil || id == "" {
		return nil
	}
	for _, c := range m.Children {
		if c != nil && c.ID() == id {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := &Message{Tag: m.Tag}
	if m.Attrs != nil {
		out.Attrs = make(map[string]string, len(m.Attrs))
		for k, v := range m.Attrs {
			out.Attrs[k] = v
		}
	}
	if m.Children != nil {
		out.Children = make([]*Message, 0, len(m.Children))
		for _, c := range m.Children {
			out.Children = append(out.Children, c.Clone())
		}
	}
	return out
}
