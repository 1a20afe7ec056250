// Package mention holds per-sentence mention records and the operations that
// build compound (appositive, list, nested-name) structure over them.
package mention

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/model"
)

// ID identifies a mention by sentence and position within the sentence
type ID struct {
	Sentence int `json:"sentence"`
	Index    int `json:"index"`
}

// String renders the id as "sentence:index"
func (id ID) String() string {
	return fmt.Sprintf("%d:%d", id.Sentence, id.Index)
}

// Before reports whether id precedes other in document order
func (id ID) Before(other ID) bool {
	if id.Sentence != other.Sentence {
		return id.Sentence < other.Sentence
	}
	return id.Index < other.Index
}

// Ref is an optional index into the sentence's mention arena
type Ref struct {
	index int
	ok    bool
}

// To returns a Ref pointing at index i
func To(i int) Ref {
	return Ref{index: i, ok: true}
}

// Get returns the index and whether the reference is set
func (r Ref) Get() (int, bool) {
	return r.index, r.ok
}

// Mention is a candidate reference to a real-world entity
type Mention struct {
	ID         ID
	Type       model.MentionType
	EntityType model.EntityType
	Role       model.EntityType

	// Token span and syntactic head within the sentence. Owned upstream.
	Start  int
	End    int
	Head   int
	Number model.Number
	Quoted bool

	subtype    model.EntitySubtype
	subtypeSet bool

	parent Ref
	child  Ref
	next   Ref
}

// Parent returns the enclosing compound mention, if any
func (m *Mention) Parent() Ref { return m.parent }

// Child returns the first child of a compound mention, if any
func (m *Mention) Child() Ref { return m.child }

// Next returns the following sibling under the same parent, if any
func (m *Mention) Next() Ref { return m.next }

// Subtype returns the entity subtype guess
func (m *Mention) Subtype() model.EntitySubtype { return m.subtype }

// SetSubtype records the subtype guess. It may be called once; a subtype
// that does not belong to the mention's entity type is stored as
// undetermined.
func (m *Mention) SetSubtype(s model.EntitySubtype) error {
	if m.subtypeSet {
		return fmt.Errorf("%w: subtype of mention %s already set", model.ErrInconsistent, m.ID)
	}
	if !s.BelongsTo(m.EntityType) {
		s = model.SubtypeUndetermined
	}
	m.subtype = s
	m.subtypeSet = true
	return nil
}

// Linkable reports whether the mention can take part in coreference
func (m *Mention) Linkable() bool {
	if !m.EntityType.Recognized() {
		return false
	}
	switch m.Type {
	case model.MentionName, model.MentionDescriptor, model.MentionPronoun, model.MentionAppositive:
		return true
	}
	return false
}
