package link

import (
	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// nonTitleWords never act as a title before a name
var nonTitleWords = map[string]bool{"aka": true}

// preLink finds an entity the mention is bound to by sentence structure
// alone, before any cascade step runs
func (l *Linker) preLink(in *Input) (Decision, bool) {
	if l.appositives {
		if e, ok := apposPartner(in); ok {
			return LinkTo(e.ID, 1).by(StepAppositive), true
		}
	}
	if !l.preLinks {
		return Decision{}, false
	}
	if e, ok := copulaPartner(in); ok {
		return LinkTo(e.ID, 1).by(StepCopula), true
	}
	if e, ok := titlePartner(in); ok {
		return LinkTo(e.ID, 1).by(StepTitle), true
	}
	return Decision{}, false
}

// copulaPartner returns the entity of the subject of a copula whose object
// is the mention, or a list the mention belongs to: "Smith is the chairman"
func copulaPartner(in *Input) (*entity.Entity, bool) {
	s := in.Sentence
	idx := in.Mention.ID.Index
	list := -1
	if parent, ok := in.Mention.Parent().Get(); ok {
		if p := s.Mentions.At(parent); p != nil && p.Type == model.MentionList {
			list = parent
		}
	}

	for _, p := range s.Propositions {
		if p.Type != document.PredicateCopula || len(p.Args) < 2 {
			continue
		}
		rhs := p.Args[1].Mention
		if rhs != idx && rhs != list {
			continue
		}
		lhs := s.Mentions.At(p.Args[0].Mention)
		if lhs == nil || lhs == in.Mention {
			continue
		}
		if e, ok := in.State.Store.EntityByMention(lhs.ID, in.Target); ok {
			return e, true
		}
	}
	return nil, false
}

// titlePartner returns the entity of the name a one-word descriptor is the
// title of: "President Bush"
func titlePartner(in *Input) (*entity.Entity, bool) {
	m := in.Mention
	if m.Type != model.MentionDescriptor || m.Start != m.End {
		return nil, false
	}
	if nonTitleWords[in.Sentence.Word(m.Head)] {
		return nil, false
	}
	for _, n := range in.Sentence.Mentions.All() {
		if !titleOf(m, n) {
			continue
		}
		if e, ok := in.State.Store.EntityByMention(n.ID, in.Target); ok {
			return e, true
		}
	}
	return nil, false
}

// titleOf reports whether the one-word descriptor m sits directly before
// the head of name n, either as its own phrase or inside the name's
func titleOf(m, n *mention.Mention) bool {
	if n.Type != model.MentionName && n.Type != model.MentionNestedName {
		return false
	}
	return n.Start == m.End+1 || (n.Start <= m.Start && n.Head == m.End+1)
}
