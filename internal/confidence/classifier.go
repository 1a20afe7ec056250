// Package confidence labels every resolved mention with an advisory
// confidence level describing the structural evidence behind its link.
// Classification is read-only over the document and the entity store.
package confidence

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// Classifier assigns confidence levels for one document
type Classifier struct {
	store     *entity.Store
	doc       *document.Document
	ambiguous map[string]struct{}
}

// New creates a classifier over store. ambiguous is the set of lower-cased
// surnames a bare PER name is not trusted with.
func New(store *entity.Store, ambiguous map[string]struct{}) *Classifier {
	return &Classifier{store: store, doc: store.Document(), ambiguous: ambiguous}
}

// Classify returns the confidence level of m. It is total: every mention
// gets a level.
func (c *Classifier) Classify(m *mention.Mention) model.ConfidenceLevel {
	e, ok := c.store.EntityOf(m.ID)
	if !ok {
		return model.NoEntity
	}
	return c.ClassifyIn(m, e)
}

// ClassifyIn returns the confidence level of m as a member of e
func (c *Classifier) ClassifyIn(m *mention.Mention, e *entity.Entity) model.ConfidenceLevel {
	if e == nil {
		return model.NoEntity
	}
	s := c.doc.Sentence(m.ID.Sentence)
	if s == nil {
		return model.UnknownConfidence
	}

	switch m.Type {
	case model.MentionName:
		if c.ambiguousName(s, m, e) {
			return model.AmbiguousName
		}
		return model.AnyName
	case model.MentionAppositive:
		return model.ApposDesc
	case model.MentionDescriptor:
		return c.descriptor(s, m, e)
	case model.MentionPronoun:
		return c.pronoun(s, m, e)
	}
	return model.UnknownConfidence
}

func (c *Classifier) descriptor(s *document.Sentence, m *mention.Mention, e *entity.Entity) model.ConfidenceLevel {
	switch {
	case c.titleDescriptor(s, m, e):
		return model.TitleDesc
	case c.copulaDescriptor(s, m, e):
		return model.CopulaDesc
	case c.apposDescriptor(s, m, e):
		return model.ApposDesc
	case c.onlyPrecedingTypeMatch(m, e) && c.namePrecedes(s, m, e):
		return model.OnlyOneCandidateDesc
	case c.prevSentDoubleSubject(s, m, e):
		return model.PrevSentDoubleSubjectDesc
	}
	return model.OtherDesc
}

func (c *Classifier) pronoun(s *document.Sentence, m *mention.Mention, e *entity.Entity) model.ConfidenceLevel {
	switch {
	case c.whqLink(s, m, e):
		return model.WHQLinkPron
	case c.nameAndPossessive(s, m, e):
		return model.NameAndPossPron
	case c.doubleSubjectPerson(s, m, e):
		return model.DoubleSubjectPersonPron
	case c.onlyPrecedingTypeMatch(m, e):
		return model.OnlyOneCandidatePron
	case c.prevSentDoubleSubject(s, m, e):
		return model.PrevSentDoubleSubjectPron
	}
	return model.OtherPron
}

// ClassifyAll labels every member of every entity and records the levels
// in the store. It returns how many mentions got each level.
func ClassifyAll(store *entity.Store, ambiguous map[string]struct{}) (map[model.ConfidenceLevel]int, error) {
	c := New(store, ambiguous)
	counts := make(map[model.ConfidenceLevel]int)
	for _, e := range store.Entities() {
		for _, id := range e.Mentions() {
			m := c.doc.Mention(id)
			if m == nil {
				return nil, fmt.Errorf("%w: entity %d holds unknown mention %s", model.ErrInconsistent, e.ID, id)
			}
			level := c.ClassifyIn(m, e)
			if err := store.SetConfidence(id, level); err != nil {
				return nil, fmt.Errorf("classify %s: %w", id, err)
			}
			counts[level]++
		}
	}
	return counts, nil
}
