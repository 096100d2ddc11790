package message

// Tags of the generic reply shapes.
const (
	TagSuccess  = "success"
	TagError    = "error"
	TagMultiple = "multiple"
)

// ReplyKind distinguishes the reply variants a handler can produce.
type ReplyKind int

const (
	// ReplyNone means no reply is due.
	ReplyNone ReplyKind = iota
	// ReplySuccess is the terminal success reply.
	ReplySuccess
	// ReplyError is the terminal error reply.
	ReplyError
	// ReplyDomain carries a typed domain message, or an echo of the input.
	ReplyDomain
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyNone:
		return "none"
	case ReplySuccess:
		return "success"
	case ReplyError:
		return "error"
	case ReplyDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Reply is the value returned by a message handler. The zero value is
// "no reply".
type Reply struct {
	kind ReplyKind
	msg  *Message
}

// None returns the empty reply.
func None() Reply { return Reply{} }

// Success builds a terminal success reply.
func Success(text string) Reply {
	return Reply{kind: ReplySuccess, msg: New(TagSuccess, AttrMessage, text)}
}

// Error builds a terminal error reply. messageID is optional.
func Error(messageID, text string) Reply {
	m := New(TagError, AttrMessage, text)
	if messageID != "" {
		m.With(AttrMessageID, messageID)
	}
	return Reply{kind: ReplyError, msg: m}
}

// Domain wraps a domain message. A nil message yields None.
func Domain(m *Message) Reply {
	if m == nil {
		return None()
	}
	return Reply{kind: ReplyDomain, msg: m}
}

// Kind returns the reply variant.
func (r Reply) Kind() ReplyKind { return r.kind }

// IsNone reports whether no reply is due.
func (r Reply) IsNone() bool { return r.kind == ReplyNone || r.msg == nil }

// Message returns the message to send, or nil for None.
func (r Reply) Message() *Message {
	if r.IsNone() {
		return nil
	}
	return r.msg
}

// Tag returns the tag of the reply message, or "" for None.
func (r Reply) Tag() string {
	if r.IsNone() {
		return ""
	}
	return r.msg.Tag
}

// Collapse folds replies into one. Empty replies are dropped; a single
// remaining reply is returned unchanged; several are wrapped, in order, in
// a "multiple" envelope.
func Collapse(replies []Reply) Reply {
	var kept []Reply
	for _, r := range replies {
		if !r.IsNone() {
			kept = append(kept, r)
		}
	}
	switch len(kept) {
	case 0:
		return None()
	case 1:
		return kept[0]
	}
	env := New(TagMultiple)
	for _, r := range kept {
		env.Append(r.msg)
	}
	return Domain(env)
}
