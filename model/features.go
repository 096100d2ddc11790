package model

import (
	"sync"

	"github.com/luciancaetano/colonynet/message"
)

// Feature tags.
const (
	TagAbility  = "ability"
	TagModifier = "modifier"
)

// Feature is an ability or modifier attached to an object.
type Feature struct {
	Tag    string
	ID     string
	Value  string
	Source string
}

// FeatureFromMessage reads a feature from an ability or modifier node.
func FeatureFromMessage(m *message.Message) (Feature, error) {
	if m == nil || (m.Tag != TagAbility && m.Tag != TagModifier) {
		return Feature{}, ErrInvalidSnapshot
	}
	id, err := m.Required(message.AttrID)
	if err != nil {
		return Feature{}, err
	}
	return Feature{
		Tag:    m.Tag,
		ID:     id,
		Value:  m.Attr("value"),
		Source: m.Attr("source"),
	}, nil
}

// FeatureSet is a concurrency-safe list of features.
type FeatureSet struct {
	mu    sync.RWMutex
	items []Feature
}

// Add appends a feature.
func (s *FeatureSet) Add(f Feature) {
	s.mu.Lock()
	s.items = append(s.items, f)
	s.mu.Unlock()
}

// Remove drops the first feature equal to f and reports whether one was found.
func (s *FeatureSet) Remove(f Feature) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it == f {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether a feature with the tag and id is present.
func (s *FeatureSet) Has(tag, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.Tag == tag && it.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of features.
func (s *FeatureSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
