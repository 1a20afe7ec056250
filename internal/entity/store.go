package entity

import (
	"errors"
	"fmt"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

var (
	ErrUnknownMention = errors.New("unknown mention")
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrAlreadyLinked  = errors.New("mention already belongs to an entity of this type")
	ErrTypeMismatch   = errors.New("entity types differ")
	ErrEmptyEntity    = errors.New("entity has no mentions")
	ErrConfidenceSet  = errors.New("confidence already set")
	ErrNotMember      = errors.New("mention is not a member of any entity")
)

// Store owns all entities of one document and a mention-to-entity index.
// The index is a cache: every membership change drops it and the next
// lookup rebuilds it. A Store must not be shared between goroutines.
type Store struct {
	doc      *document.Document
	entities []*Entity
	index    map[model.EntityType]map[mention.ID]int
}

// NewStore creates an empty store for doc
func NewStore(doc *document.Document) *Store {
	return &Store{doc: doc}
}

// Document returns the document the store belongs to
func (s *Store) Document() *document.Document {
	return s.doc
}

// Len returns the number of entities ever created
func (s *Store) Len() int {
	return len(s.entities)
}

// Entities returns all entities in id order, drained ones included
func (s *Store) Entities() []*Entity {
	return s.entities
}

// Active returns the entities that still have member mentions
func (s *Store) Active() []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Len() > 0 {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns the entities of type t in id order
func (s *Store) ByType(t model.EntityType) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Entity returns the entity with the given id
func (s *Store) Entity(id int) (*Entity, bool) {
	if id < 0 || id >= len(s.entities) {
		return nil, false
	}
	return s.entities[id], true
}

// AddNew creates an entity of type t holding the mention
func (s *Store) AddNew(id mention.ID, t model.EntityType) (*Entity, error) {
	if err := s.checkFree(id, t); err != nil {
		return nil, err
	}
	e := newEntity(len(s.entities), t)
	e.mentions = append(e.mentions, id)
	s.entities = append(s.entities, e)
	s.invalidate()
	return e, nil
}

// Add appends the mention to an existing entity
func (s *Store) Add(id mention.ID, entityID int) error {
	e, ok := s.Entity(entityID)
	if !ok {
		return fmt.Errorf("%w: %w: %d", model.ErrInconsistent, ErrUnknownEntity, entityID)
	}
	if err := s.checkFree(id, e.Type); err != nil {
		return err
	}
	e.mentions = append(e.mentions, id)
	e.nameValid = false
	s.invalidate()
	return nil
}

// Move transfers the most recently added mention of entity from into
// entity to. The drained entity keeps its id.
func (s *Store) Move(from, to int) error {
	src, ok := s.Entity(from)
	if !ok {
		return fmt.Errorf("%w: %w: %d", model.ErrInconsistent, ErrUnknownEntity, from)
	}
	dst, ok := s.Entity(to)
	if !ok {
		return fmt.Errorf("%w: %w: %d", model.ErrInconsistent, ErrUnknownEntity, to)
	}
	if src.Type != dst.Type {
		return fmt.Errorf("%w: move %d into %d: %w", model.ErrInconsistent, from, to, ErrTypeMismatch)
	}
	if src.Len() == 0 {
		return fmt.Errorf("%w: move from %d: %w", model.ErrInconsistent, from, ErrEmptyEntity)
	}
	last := src.mentions[len(src.mentions)-1]
	src.mentions = src.mentions[:len(src.mentions)-1]
	delete(src.confidences, last)
	src.nameValid = false
	dst.mentions = append(dst.mentions, last)
	dst.nameValid = false
	s.invalidate()
	return nil
}

func (s *Store) checkFree(id mention.ID, t model.EntityType) error {
	if s.doc.Mention(id) == nil {
		return fmt.Errorf("%w: %w: %s", model.ErrInconsistent, ErrUnknownMention, id)
	}
	if e, ok := s.EntityByMention(id, t); ok {
		return fmt.Errorf("%w: %s in entity %d: %w", model.ErrInconsistent, id, e.ID, ErrAlreadyLinked)
	}
	return nil
}

// EntityByMention returns the entity of type t containing the mention
func (s *Store) EntityByMention(id mention.ID, t model.EntityType) (*Entity, bool) {
	if s.index == nil {
		s.rebuild()
	}
	eid, ok := s.index[t][id]
	if !ok {
		return nil, false
	}
	return s.entities[eid], true
}

// EntityOf returns the entity containing the mention, preferring the
// mention's own entity type
func (s *Store) EntityOf(id mention.ID) (*Entity, bool) {
	if m := s.doc.Mention(id); m != nil {
		if e, ok := s.EntityByMention(id, m.EntityType); ok {
			return e, true
		}
	}
	for _, e := range s.entities {
		if e.Contains(id) {
			return e, true
		}
	}
	return nil, false
}

func (s *Store) invalidate() {
	s.index = nil
}

func (s *Store) rebuild() {
	s.index = make(map[model.EntityType]map[mention.ID]int)
	for _, e := range s.entities {
		byID := s.index[e.Type]
		if byID == nil {
			byID = make(map[mention.ID]int)
			s.index[e.Type] = byID
		}
		for _, id := range e.mentions {
			byID[id] = e.ID
		}
	}
}

// SetConfidence records the classified confidence of a member mention once
func (s *Store) SetConfidence(id mention.ID, level model.ConfidenceLevel) error {
	e, ok := s.EntityOf(id)
	if !ok {
		return fmt.Errorf("%w: %s: %w", model.ErrInconsistent, id, ErrNotMember)
	}
	if _, set := e.confidences[id]; set {
		return fmt.Errorf("%w: %s: %w", model.ErrInconsistent, id, ErrConfidenceSet)
	}
	e.confidences[id] = level
	return nil
}

// Fork returns an independent copy for speculative changes. Mentions and
// the document are shared read-only.
func (s *Store) Fork() *Store {
	f := &Store{doc: s.doc, entities: make([]*Entity, len(s.entities))}
	for i, e := range s.entities {
		f.entities[i] = e.clone()
	}
	return f
}

// CanonicalName returns the longest NAME mention text of the entity
func (s *Store) CanonicalName(e *Entity) string {
	if e.nameValid {
		return e.name
	}
	best := ""
	for _, id := range e.mentions {
		m := s.doc.Mention(id)
		if m == nil || m.Type != model.MentionName {
			continue
		}
		if text := s.doc.Sentence(id.Sentence).Text(m); len(text) > len(best) {
			best = text
		}
	}
	if best == "" {
		best = NoName
	}
	e.name, e.nameValid = best, true
	return best
}

// HasMentionType reports whether the entity has a member of kind t
func (s *Store) HasMentionType(e *Entity, t model.MentionType) bool {
	for _, id := range e.mentions {
		if m := s.doc.Mention(id); m != nil && m.Type == t {
			return true
		}
	}
	return false
}

// GuessSubtype derives an entity subtype from its members: a NAME subtype
// first, then a descriptor subtype, then person individual/group from
// pronoun number.
func (s *Store) GuessSubtype(e *Entity) model.EntitySubtype {
	for _, kind := range []model.MentionType{model.MentionName, model.MentionDescriptor} {
		for _, id := range e.mentions {
			m := s.doc.Mention(id)
			if m != nil && m.Type == kind && m.Subtype() != model.SubtypeUndetermined {
				return m.Subtype()
			}
		}
	}
	if e.Type != model.EntityPerson {
		return model.SubtypeUndetermined
	}
	for _, id := range e.mentions {
		m := s.doc.Mention(id)
		if m == nil || m.Type != model.MentionPronoun {
			continue
		}
		switch m.Number {
		case model.NumberPlural:
			return model.SubtypeGroup
		case model.NumberSingular:
			return model.SubtypeIndividual
		}
	}
	return model.SubtypeUndetermined
}
