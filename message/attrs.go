package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Attribute names shared by every message kind.
const (
	AttrID        = "id"
	AttrMessage   = "message"
	AttrMessageID = "messageID"
)

var (
	// ErrMissingAttribute is returned when a required attribute is absent or empty.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrInvalidAttribute is returned when an attribute cannot be parsed.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// Required returns a non-empty attribute value.
func (m *Message) Required(key string) (string, error) {
	v := m.Attr(key)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingAttribute, key)
	}
	return v, nil
}

// Int parses an integer attribute.
func (m *Message) Int(key string) (int, error) {
	v, err := m.Required(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, key, v)
	}
	return n, nil
}

// IntOr parses an integer attribute, returning sentinel when the attribute
// is missing or malformed.
func (m *Message) IntOr(key string, sentinel int) int {
	n, err := m.Int(key)
	if err != nil {
		return sentinel
	}
	return n
}

// Bool reports whether the attribute equals "true", ignoring case. Any
// other value, including a missing attribute, is false.
func (m *Message) Bool(key string) bool {
	return strings.EqualFold(m.Attr(key), "true")
}
