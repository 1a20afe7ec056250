package link

import "github.com/ppiankov/corefer/internal/entity"

// apposPartner returns the entity of another element of the appositive the
// mention belongs to, so "Bob Smith, the CEO" resolves as one entity
func apposPartner(in *Input) (*entity.Entity, bool) {
	set := in.Sentence.Mentions
	if !set.IsPartOfAppositive(in.Mention.ID.Index) {
		return nil, false
	}
	parent, _ := in.Mention.Parent().Get()
	for _, sibling := range set.Children(parent) {
		if sibling == in.Mention {
			continue
		}
		if e, ok := in.State.Store.EntityByMention(sibling.ID, in.Target); ok {
			return e, true
		}
	}
	return nil, false
}

// apposDecision resolves an APPO mention to the entity of its first
// element, falling back to any element that has one
func apposDecision(in *Input) Decision {
	children := in.Sentence.Mentions.Children(in.Mention.ID.Index)
	for _, child := range children {
		if e, ok := in.State.Store.EntityByMention(child.ID, in.Target); ok {
			return LinkTo(e.ID, 1).by(StepAppositive)
		}
	}
	return CreateNew(in.Target, 0).by(StepAppositive)
}

