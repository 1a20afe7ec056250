// Package entity holds the document-scoped entity store
package entity

import (
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// NoName is the canonical name of an entity without NAME mentions
const NoName = "NO_NAME"

// Entity is a cluster of mentions believed to co-refer
type Entity struct {
	ID       int
	GlobalID string
	Type     model.EntityType
	Subtype  model.EntitySubtype
	Generic  bool

	mentions    []mention.ID
	confidences map[mention.ID]model.ConfidenceLevel

	name      string
	nameValid bool
}

func newEntity(id int, t model.EntityType) *Entity {
	return &Entity{
		ID:          id,
		Type:        t,
		confidences: make(map[mention.ID]model.ConfidenceLevel),
	}
}

// Mentions returns the member mention ids in insertion order
func (e *Entity) Mentions() []mention.ID {
	return e.mentions
}

// Len returns the number of member mentions
func (e *Entity) Len() int {
	return len(e.mentions)
}

// Contains reports whether the mention is a member
func (e *Entity) Contains(id mention.ID) bool {
	for _, m := range e.mentions {
		if m == id {
			return true
		}
	}
	return false
}

// Confidence returns the classified confidence of a member mention
func (e *Entity) Confidence(id mention.ID) model.ConfidenceLevel {
	if c, ok := e.confidences[id]; ok {
		return c
	}
	return model.UnknownConfidence
}

func (e *Entity) clone() *Entity {
	c := *e
	c.mentions = append([]mention.ID(nil), e.mentions...)
	c.confidences = make(map[mention.ID]model.ConfidenceLevel, len(e.confidences))
	for k, v := range e.confidences {
		c.confidences[k] = v
	}
	return &c
}
