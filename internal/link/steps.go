package link

import (
	"fmt"
	"strings"

	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/model"
)

// Step is one strategy of the linking cascade. Decide returns ok=false when
// the step does not apply and the cascade should move on.
type Step interface {
	Name() string
	Decide(in *Input) (d Decision, ok bool, err error)
}

// Step names, also used as metric labels
const (
	StepBypass     = "bypass"
	StepAntiLink   = "anti-link"
	StepHeadMatch  = "head-match"
	StepSubtype    = "subtype"
	StepPremodName = "premod-name"
	StepCreateNew  = "create-new"

	StepName       = "name"
	StepPronoun    = "pronoun"
	StepAppositive = "appositive"
	StepCopula     = "copula"
	StepTitle      = "title"
)

// bypassStep sends configured entity types to the simple coreference track
type bypassStep struct {
	types map[model.EntityType]bool
}

func (s *bypassStep) Name() string { return StepBypass }

func (s *bypassStep) Decide(in *Input) (Decision, bool, error) {
	if s.types[in.Target] {
		return CreateNew(in.Target, 1), true, nil
	}
	return Decision{}, false, nil
}

// antiLinkStep vetoes linking when a premodifier marks non-identity
type antiLinkStep struct {
	words map[string]bool
}

func (s *antiLinkStep) Name() string { return StepAntiLink }

func (s *antiLinkStep) Decide(in *Input) (Decision, bool, error) {
	for _, i := range in.Sentence.Premods(in.Mention) {
		if s.words[in.Sentence.Word(i)] {
			return CreateNew(in.Target, 1), true, nil
		}
	}
	return Decision{}, false, nil
}

// headMatchStep links to the most recent NAME or DESC mention of the
// target type with a matching head word that no clash rule rejects
type headMatchStep struct {
	synonyms          map[string]int
	requireCloseMatch bool
}

func (s *headMatchStep) Name() string { return StepHeadMatch }

func (s *headMatchStep) Decide(in *Input) (Decision, bool, error) {
	head := in.Sentence.HeadWord(in.Mention)
	if head == "" {
		return Decision{}, false, nil
	}

	var found *entity.Entity
	in.preceding(func(c candidate) bool {
		if c.mention.Type != model.MentionName && c.mention.Type != model.MentionDescriptor {
			return true
		}
		e, ok := in.State.Store.EntityByMention(c.mention.ID, in.Target)
		if !ok || !s.headsMatch(in, head, c) || s.rejected(in, c, e) {
			return true
		}
		found = e
		return false
	})
	if found == nil {
		return Decision{}, false, nil
	}
	return LinkTo(found.ID, 0.9), true, nil
}

func (s *headMatchStep) headsMatch(in *Input, head string, c candidate) bool {
	other := c.sentence.HeadWord(c.mention)
	if other == head {
		return true
	}
	if c.mention.Type == model.MentionName {
		h := c.sentence.Mentions.EffectiveHead(c.mention.ID.Index)
		if h.Head-1 >= c.mention.Start && c.sentence.Word(h.Head-1) == head {
			return true
		}
	}
	set1, ok1 := s.synonyms[head]
	set2, ok2 := s.synonyms[other]
	if ok1 && ok2 && set1 == set2 {
		return len(in.Sentence.PremodNames(in.Mention)) > 0 && len(c.sentence.PremodNames(c.mention)) > 0
	}
	return false
}

func (s *headMatchStep) rejected(in *Input, c candidate, e *entity.Entity) bool {
	switch {
	case premodNameClash(in, c):
		return true
	case numericClash(in, e):
		return true
	case in.State.ExcludeSpeakers && speakerEntity(in.State, e):
		return true
	case s.requireCloseMatch && in.State.Knowledge.HasStopWords() && closeMatchClash(in, c):
		return true
	}
	return false
}

// subtypeStep links to the most recent NAME mention of the target type
// whose subtype and number are compatible
type subtypeStep struct{}

func (s *subtypeStep) Name() string { return StepSubtype }

func (s *subtypeStep) Decide(in *Input) (Decision, bool, error) {
	var found *entity.Entity
	in.preceding(func(c candidate) bool {
		if c.mention.Type != model.MentionName {
			return true
		}
		e, ok := in.State.Store.EntityByMention(c.mention.ID, in.Target)
		if !ok {
			return true
		}
		mine, theirs := in.Mention.Subtype(), c.mention.Subtype()
		if mine != theirs && mine != model.SubtypeUndetermined && theirs != model.SubtypeUndetermined {
			return true
		}
		if !in.Mention.Number.Compatible(c.mention.Number) {
			return true
		}
		found = e
		return false
	})
	if found == nil {
		return Decision{}, false, nil
	}
	return LinkTo(found.ID, 0.5), true, nil
}

// premodNameStep links "the Acme company" to a lone prior "Acme" when the
// premodifier name has the target type
type premodNameStep struct{}

func (s *premodNameStep) Name() string { return StepPremodName }

func (s *premodNameStep) Decide(in *Input) (Decision, bool, error) {
	if in.Target == model.EntityPerson {
		return Decision{}, false, nil
	}
	for _, name := range in.Sentence.PremodNames(in.Mention) {
		if name.EntityType != in.Target {
			continue
		}
		e, ok := in.State.Store.EntityByMention(name.ID, name.EntityType)
		if !ok {
			return Decision{}, false, fmt.Errorf("%w: premodifier name %s of %s has no entity",
				model.ErrInconsistent, name.ID, in.Mention.ID)
		}
		if e.Len() == 1 {
			return LinkTo(e.ID, 0.4), true, nil
		}
	}
	return Decision{}, false, nil
}

// createNewStep always applies
type createNewStep struct{}

func (s *createNewStep) Name() string { return StepCreateNew }

func (s *createNewStep) Decide(in *Input) (Decision, bool, error) {
	return CreateNew(in.Target, 0), true, nil
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

// synonymIndex maps each word to the index of its equivalence set
func synonymIndex(sets [][]string) map[string]int {
	idx := make(map[string]int)
	for i, set := range sets {
		for _, w := range set {
			idx[strings.ToLower(strings.TrimSpace(w))] = i
		}
	}
	return idx
}
