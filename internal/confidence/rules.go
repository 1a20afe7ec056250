package confidence

import (
	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// whTags are the part-of-speech tags of relative and interrogative pronouns
var whTags = map[string]bool{"WP": true, "WP$": true, "WDT": true, "WRB": true}

var whWords = map[string]bool{"who": true, "whom": true, "whose": true, "which": true, "that": true}

var possessives = map[string]bool{"his": true, "her": true, "its": true}

func (c *Classifier) ambiguousName(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if e.Type != model.EntityPerson || len(c.ambiguous) == 0 || m.Start != m.End {
		return false
	}
	_, ok := c.ambiguous[s.Word(m.Start)]
	return ok
}

// titleDescriptor matches "President Bush": a one-word descriptor
// directly before the head of a same-entity name
func (c *Classifier) titleDescriptor(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if m.Start != m.End {
		return false
	}
	for _, n := range s.Mentions.All() {
		if n.Type != model.MentionName || !e.Contains(n.ID) {
			continue
		}
		if n.Start == m.End+1 {
			return true
		}
		if n.Start <= m.Start && n.Head == m.End+1 {
			return true
		}
	}
	return false
}

// copulaDescriptor matches "Smith is the chairman"
func (c *Classifier) copulaDescriptor(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	for _, p := range s.Propositions {
		if p.Type != document.PredicateCopula || len(p.Args) < 2 {
			continue
		}
		lhs, rhs := p.Args[0].Mention, p.Args[1].Mention
		var other int
		switch m.ID.Index {
		case lhs:
			other = rhs
		case rhs:
			other = lhs
		default:
			continue
		}
		if n := s.Mentions.At(other); n != nil && n.Type == model.MentionName && e.Contains(n.ID) {
			return true
		}
	}
	return false
}

// apposDescriptor matches either element of a two-part appositive whose
// other element is a same-entity name
func (c *Classifier) apposDescriptor(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if !s.Mentions.IsPartOfAppositive(m.ID.Index) {
		return false
	}
	parent, _ := m.Parent().Get()
	children := s.Mentions.Children(parent)
	if len(children) < 2 {
		return false
	}
	first, second := children[0], children[1]
	switch m {
	case first:
		return second.Type == model.MentionName && e.Contains(second.ID)
	case second:
		return first.Type == model.MentionName && e.Contains(first.ID)
	}
	return false
}

// onlyPrecedingTypeMatch reports whether e is the only entity of its type
// mentioned in the mention's sentence or earlier
func (c *Classifier) onlyPrecedingTypeMatch(m *mention.Mention, e *entity.Entity) bool {
	if m.EntityType != e.Type {
		return false
	}
	for _, other := range c.store.ByType(e.Type) {
		if other.ID == e.ID {
			continue
		}
		for _, id := range other.Mentions() {
			if id.Sentence <= m.ID.Sentence {
				return false
			}
		}
	}
	return true
}

// namePrecedes reports whether a same-entity name occurs in an earlier
// sentence or earlier in the mention's own sentence
func (c *Classifier) namePrecedes(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if m.Type == model.MentionName {
		return true
	}
	for _, id := range e.Mentions() {
		n := c.doc.Mention(id)
		if n == nil || n.Type != model.MentionName {
			continue
		}
		if id.Sentence < m.ID.Sentence {
			return true
		}
		if id.Sentence == m.ID.Sentence && n.End < m.Start {
			return true
		}
	}
	return false
}

// whqLink matches a relative pronoun inside a same-entity noun phrase, as
// in "the man who left"
func (c *Classifier) whqLink(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	pos := ""
	if m.Head >= 0 && m.Head < len(s.Tokens) {
		pos = s.Tokens[m.Head].POS
	}
	if !whTags[pos] && !(pos == "" && whWords[s.Word(m.Head)]) {
		return false
	}

	var np *mention.Mention
	for _, n := range s.Mentions.All() {
		if n == m || n.Start >= m.Start || n.End < m.End {
			continue
		}
		if np == nil || n.Start > np.Start {
			np = n
		}
	}
	return np != nil && e.Contains(np.ID)
}

// nameAndPossessive matches "Smith and his wife"
func (c *Classifier) nameAndPossessive(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if !possessives[s.Word(m.Head)] || m.Start < 2 || s.Word(m.Start-1) != "and" {
		return false
	}
	for _, n := range s.Mentions.All() {
		if n.Type == model.MentionName && n.End+2 == m.Start && e.Contains(n.ID) {
			return true
		}
	}
	return false
}

// doubleSubjectPerson matches a person pronoun subject whose sentence has
// exactly one earlier person name, also a subject, of the same entity
func (c *Classifier) doubleSubjectPerson(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if m.EntityType != model.EntityPerson {
		return false
	}
	var name *mention.Mention
	for _, n := range s.Mentions.All() {
		if n.Type != model.MentionName || n.EntityType != model.EntityPerson || n.End >= m.Start {
			continue
		}
		if name != nil {
			return false
		}
		name = n
	}
	if name == nil || !e.Contains(name.ID) {
		return false
	}
	return s.IsSubject(m) && s.IsSubject(name)
}

// typeMatches treats ORG and GPE as interchangeable
func typeMatches(a, b model.EntityType) bool {
	if a == b {
		return true
	}
	orgOrGPE := func(t model.EntityType) bool {
		return t == model.EntityOrganization || t == model.EntityGPE
	}
	return orgOrGPE(a) && orgOrGPE(b)
}

// subjectNames returns the subject NAME mentions of s whose type matches t
func subjectNames(s *document.Sentence, t model.EntityType) []*mention.Mention {
	var out []*mention.Mention
	for _, n := range s.Mentions.All() {
		if n.Type == model.MentionName && typeMatches(t, n.EntityType) && s.IsSubject(n) {
			out = append(out, n)
		}
	}
	return out
}

// prevSentDoubleSubject matches a subject pronoun or descriptor whose
// entity is named as a subject of the previous sentence, with no competing
// subject name around it
func (c *Classifier) prevSentDoubleSubject(s *document.Sentence, m *mention.Mention, e *entity.Entity) bool {
	if m.ID.Sentence < 1 || (m.Type != model.MentionPronoun && m.Type != model.MentionDescriptor) {
		return false
	}
	if m.Start == m.End {
		if word := s.Word(m.Start); word == "who" || word == "which" {
			return false
		}
	}
	if !s.IsSubject(m) {
		return false
	}
	prev := c.doc.Sentence(m.ID.Sentence - 1)

	early, late := -1, -1
	var others []*mention.Mention
	for _, n := range subjectNames(prev, e.Type) {
		if !e.Contains(n.ID) {
			others = append(others, n)
			continue
		}
		if early < 0 || n.Start < early {
			early = n.Start
		}
		if n.Start > late {
			late = n.Start
		}
	}
	if early < 0 {
		return false
	}
	for _, n := range others {
		if n.Start < early || n.Start > late {
			return false
		}
	}

	for _, n := range subjectNames(s, e.Type) {
		if n.Start < m.Start && !e.Contains(n.ID) {
			return false
		}
	}
	return true
}
