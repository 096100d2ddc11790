package model

import (
	"sync"

	"github.com/luciancaetano/colonynet/message"
)

// Object is a live, mutable game entity addressed by a stable identifier.
type Object interface {
	ID() string
	Kind() Kind
	// Apply overwrites the object's fields from a snapshot and reports
	// whether any field changed. Fields absent from the snapshot are reset.
	Apply(snap *message.Message) (bool, error)
}

// Ownable is implemented by objects that belong to a player.
type Ownable interface {
	Object
	OwnerID() string
}

// FeatureHolder is implemented by objects that carry abilities and modifiers.
type FeatureHolder interface {
	Object
	Features() *FeatureSet
}

// base carries the identity, lock and features shared by every entity.
type base struct {
	mu       sync.RWMutex
	id       string
	features FeatureSet
}

func (b *base) ID() string { return b.id }

// Features returns the object's feature set.
func (b *base) Features() *FeatureSet { return &b.features }

// checkID rejects snapshots addressed to a different object.
func (b *base) checkID(snap *message.Message) error {
	if snap == nil {
		return ErrInvalidSnapshot
	}
	if id := snap.ID(); id != "" && id != b.id {
		return ErrInvalidSnapshot
	}
	return nil
}

func setString(dst *string, v string, changed *bool) {
	if *dst != v {
		*dst = v
		*changed = true
	}
}

func setInt(dst *int, v int, changed *bool) {
	if *dst != v {
		*dst = v
		*changed = true
	}
}

func setBool(dst *bool, v bool, changed *bool) {
	if *dst != v {
		*dst = v
		*changed = true
	}
}
