package link

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/model"
)

type decisionKind int

const (
	kindCreate decisionKind = iota
	kindLink
)

// Decision is the outcome of linking one mention: either LinkTo an
// existing entity or CreateNew of a given type. Confidence only breaks
// ties inside the engine and is never persisted.
type Decision struct {
	kind       decisionKind
	entityID   int
	entityType model.EntityType

	Confidence float64
	Step       string
}

// LinkTo links the mention to entity id
func LinkTo(id int, confidence float64) Decision {
	return Decision{kind: kindLink, entityID: id, Confidence: confidence}
}

// CreateNew starts a new entity of type t
func CreateNew(t model.EntityType, confidence float64) Decision {
	return Decision{kind: kindCreate, entityType: t, Confidence: confidence}
}

// IsLink reports whether the decision links to an existing entity
func (d Decision) IsLink() bool {
	return d.kind == kindLink
}

// EntityID returns the target entity of a LinkTo decision
func (d Decision) EntityID() (int, bool) {
	return d.entityID, d.kind == kindLink
}

// NewType returns the entity type of a CreateNew decision
func (d Decision) NewType() (model.EntityType, bool) {
	return d.entityType, d.kind == kindCreate
}

// Outcome is "link" or "new"
func (d Decision) Outcome() string {
	if d.kind == kindLink {
		return "link"
	}
	return "new"
}

func (d Decision) String() string {
	if d.kind == kindLink {
		return fmt.Sprintf("LinkTo(%d) by %s", d.entityID, d.Step)
	}
	return fmt.Sprintf("CreateNew(%s) by %s", d.entityType, d.Step)
}

func (d Decision) by(step string) Decision {
	d.Step = step
	return d
}
