package link

import (
	"strings"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// minFuzzyNameLength is the shortest normalized PER name compared by edit
// distance
const minFuzzyNameLength = 6

// nameLinker resolves NAME mentions against earlier names of the same type
type nameLinker struct {
	enabled      bool
	editDistance int
}

func (n *nameLinker) decide(in *Input) Decision {
	if !n.enabled {
		return CreateNew(in.Target, 0).by(StepName)
	}

	mine := newNameForm(in.Sentence, in.Mention)
	me := surface(in.Sentence, in.Mention)
	k := in.State.Knowledge

	var found Decision
	ok := false
	in.preceding(func(c candidate) bool {
		if c.mention.Type != model.MentionName {
			return true
		}
		e, linked := in.State.Store.EntityByMention(c.mention.ID, in.Target)
		if !linked {
			return true
		}
		theirs := newNameForm(c.sentence, c.mention)
		conf, match := n.match(k, in.Target, mine, theirs)
		if !match {
			return true
		}

		members := make([]knowledge.Surface, 0, e.Len())
		for _, id := range e.Mentions() {
			s := in.State.Doc.Sentence(id.Sentence)
			members = append(members, surface(s, s.Mentions.At(id.Index)))
		}
		if k.TeamClash(me, members) {
			return true
		}
		found, ok = LinkTo(e.ID, conf), true
		return false
	})
	if ok {
		return found.by(StepName)
	}
	return CreateNew(in.Target, 0).by(StepName)
}

// match compares two NAME word lists and returns the strength of the match
func (n *nameLinker) match(k *knowledge.Knowledge, t model.EntityType, mine, theirs nameForm) (float64, bool) {
	a, b := knowledge.NormalizeTokens(mine.words), knowledge.NormalizeTokens(theirs.words)
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return 1, true
	}

	if k.HasGazetteer(t) && k.LookupName(a, t).SameCluster(k.LookupName(b, t)) {
		return 0.9, true
	}

	if t == model.EntityPerson {
		// a bare surname matches the last token of a full name
		if len(mine.words) == 1 && len(theirs.words) > 1 && knowledge.Normalize(theirs.last()) == a {
			return 0.8, true
		}
		if len(theirs.words) == 1 && len(mine.words) > 1 && knowledge.Normalize(mine.last()) == b {
			return 0.8, true
		}
		if n.editDistance > 0 && len(a) >= minFuzzyNameLength && len(b) >= minFuzzyNameLength &&
			knowledge.EditDistance(a, b) <= n.editDistance {
			return 0.6, true
		}
		return 0, false
	}

	if acronymOf(mine, theirs) || acronymOf(theirs, mine) {
		return 0.7, true
	}
	return 0, false
}

// nameForm is a NAME mention's words plus whether it is written as an
// acronym
type nameForm struct {
	words   []string
	acronym bool
}

func newNameForm(s *document.Sentence, m *mention.Mention) nameForm {
	f := nameForm{words: s.Words(m.Start, m.End)}
	if len(f.words) == 1 {
		f.acronym = knowledge.IsAcronym(s.Tokens[m.Start].Word)
	}
	return f
}

func (f nameForm) last() string {
	return f.words[len(f.words)-1]
}

// acronymOf reports whether short is an acronym of long
func acronymOf(short, long nameForm) bool {
	if !short.acronym || len(long.words) < 2 {
		return false
	}
	word := strings.ToLower(short.words[0])
	for _, a := range knowledge.PossibleAcronyms(long.words) {
		if a == word {
			return true
		}
	}
	return false
}
