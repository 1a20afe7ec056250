package link

import (
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// Gender of a pronoun or of the entity it resolves to
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderNeutral
	GenderPlural
)

// pronounWindow is how many sentences back a pronoun looks for antecedents
const pronounWindow = 3

type pronounClass int

const (
	pronounThirdPerson pronounClass = iota
	pronounSpeaker
	pronounRelative
)

type pronounInfo struct {
	class  pronounClass
	gender Gender
}

var pronouns = map[string]pronounInfo{
	"he":         {pronounThirdPerson, GenderMale},
	"him":        {pronounThirdPerson, GenderMale},
	"his":        {pronounThirdPerson, GenderMale},
	"himself":    {pronounThirdPerson, GenderMale},
	"she":        {pronounThirdPerson, GenderFemale},
	"her":        {pronounThirdPerson, GenderFemale},
	"hers":       {pronounThirdPerson, GenderFemale},
	"herself":    {pronounThirdPerson, GenderFemale},
	"it":         {pronounThirdPerson, GenderNeutral},
	"its":        {pronounThirdPerson, GenderNeutral},
	"itself":     {pronounThirdPerson, GenderNeutral},
	"they":       {pronounThirdPerson, GenderPlural},
	"them":       {pronounThirdPerson, GenderPlural},
	"their":      {pronounThirdPerson, GenderPlural},
	"theirs":     {pronounThirdPerson, GenderPlural},
	"themselves": {pronounThirdPerson, GenderPlural},
	"i":          {pronounSpeaker, GenderUnknown},
	"me":         {pronounSpeaker, GenderUnknown},
	"my":         {pronounSpeaker, GenderUnknown},
	"mine":       {pronounSpeaker, GenderUnknown},
	"myself":     {pronounSpeaker, GenderUnknown},
	"we":         {pronounSpeaker, GenderPlural},
	"us":         {pronounSpeaker, GenderPlural},
	"our":        {pronounSpeaker, GenderPlural},
	"ours":       {pronounSpeaker, GenderPlural},
	"you":        {pronounSpeaker, GenderUnknown},
	"your":       {pronounSpeaker, GenderUnknown},
	"yours":      {pronounSpeaker, GenderUnknown},
	"who":        {pronounRelative, GenderUnknown},
	"whom":       {pronounRelative, GenderUnknown},
	"whose":      {pronounRelative, GenderUnknown},
	"which":      {pronounRelative, GenderUnknown},
	"that":       {pronounRelative, GenderUnknown},
}

// PronounGender returns the gender a pronoun word carries
func PronounGender(word string) Gender {
	return pronouns[word].gender
}

func gendersCompatible(entityGender, pronounGender Gender) bool {
	if entityGender == pronounGender {
		return true
	}
	if pronounGender == GenderUnknown || entityGender == GenderUnknown {
		return true
	}
	if pronounGender == GenderPlural {
		return entityGender == GenderNeutral
	}
	return false
}

// pronounLinker resolves PRON mentions to the most recent compatible entity
type pronounLinker struct {
	enabled bool
}

func (p *pronounLinker) decide(in *Input) Decision {
	if !p.enabled {
		return CreateNew(in.Target, 0).by(StepPronoun)
	}

	word := in.Sentence.HeadWord(in.Mention)
	info, known := pronouns[word]
	switch {
	case !known:
		return CreateNew(in.Target, 0).by(StepPronoun)
	case info.class == pronounSpeaker:
		return CreateNew(in.Target, 1).by(StepPronoun)
	case info.class == pronounRelative:
		if e, ok := p.enclosing(in); ok {
			return LinkTo(e.ID, 0.9).by(StepPronoun)
		}
		return CreateNew(in.Target, 0).by(StepPronoun)
	}

	// he and she refer to people, it never does
	switch info.gender {
	case GenderMale, GenderFemale:
		if in.Target != model.EntityPerson {
			return CreateNew(in.Target, 0).by(StepPronoun)
		}
	case GenderNeutral:
		if in.Target == model.EntityPerson {
			return CreateNew(in.Target, 0).by(StepPronoun)
		}
	}

	var found *entity.Entity
	in.preceding(func(c candidate) bool {
		if in.Mention.ID.Sentence-c.mention.ID.Sentence > pronounWindow {
			return false
		}
		if !c.mention.Linkable() || c.mention.Type == model.MentionAppositive {
			return true
		}
		e, ok := in.State.Store.EntityByMention(c.mention.ID, in.Target)
		if !ok {
			return true
		}
		if !in.Mention.Number.Compatible(c.mention.Number) {
			return true
		}
		if !gendersCompatible(p.entityGender(in, e), info.gender) {
			return true
		}
		found = e
		return false
	})
	if found == nil {
		return CreateNew(in.Target, 0).by(StepPronoun)
	}
	return LinkTo(found.ID, 0.5).by(StepPronoun)
}

// enclosing returns the entity of the innermost earlier-starting mention
// that contains a relative pronoun, as in "the man who left"
func (p *pronounLinker) enclosing(in *Input) (*entity.Entity, bool) {
	var best *mention.Mention
	for _, m := range in.Sentence.Mentions.All() {
		if m == in.Mention || m.Start >= in.Mention.Start || m.End < in.Mention.End {
			continue
		}
		if best == nil || m.Start > best.Start {
			best = m
		}
	}
	if best == nil {
		return nil, false
	}
	return in.State.Store.EntityByMention(best.ID, in.Target)
}

// entityGender is the gender of the first gendered pronoun already in e
func (p *pronounLinker) entityGender(in *Input, e *entity.Entity) Gender {
	for _, id := range e.Mentions() {
		m := in.State.Doc.Mention(id)
		if m == nil || m.Type != model.MentionPronoun {
			continue
		}
		info := pronouns[in.State.Doc.Sentence(id.Sentence).HeadWord(m)]
		if info.class == pronounThirdPerson && info.gender != GenderUnknown {
			return info.gender
		}
	}
	return GenderUnknown
}
