package link

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// State is everything a linking decision may read: the document, the
// entities committed so far and the shared world knowledge
type State struct {
	Doc       *document.Document
	Store     *entity.Store
	Knowledge *knowledge.Knowledge

	// ExcludeSpeakers rejects head-match candidates whose entity is made
	// only of quoted-speech mentions
	ExcludeSpeakers bool
}

// NewState builds the state for one document
func NewState(doc *document.Document, store *entity.Store, k *knowledge.Knowledge) *State {
	if k == nil {
		k = knowledge.New()
	}
	return &State{Doc: doc, Store: store, Knowledge: k}
}

// Input is one linking request as seen by a cascade step
type Input struct {
	State    *State
	Mention  *mention.Mention
	Sentence *document.Sentence
	Target   model.EntityType
}

func newInput(state *State, m *mention.Mention, target model.EntityType) (*Input, error) {
	s := state.Doc.Sentence(m.ID.Sentence)
	if s == nil || s.Mentions.At(m.ID.Index) != m {
		return nil, fmt.Errorf("%w: mention %s is not part of the document", model.ErrInconsistent, m.ID)
	}
	return &Input{State: state, Mention: m, Sentence: s, Target: target}, nil
}

// candidate is an earlier mention together with its sentence
type candidate struct {
	mention  *mention.Mention
	sentence *document.Sentence
}

// preceding visits earlier mentions most recent first: the current
// sentence from the mention backwards, then each earlier sentence from its
// last mention. visit returns false to stop.
func (in *Input) preceding(visit func(c candidate) bool) {
	for si := in.Mention.ID.Sentence; si >= 0; si-- {
		s := in.State.Doc.Sentence(si)
		all := s.Mentions.All()
		last := len(all) - 1
		if si == in.Mention.ID.Sentence {
			last = in.Mention.ID.Index - 1
		}
		for i := last; i >= 0; i-- {
			if !visit(candidate{mention: all[i], sentence: s}) {
				return
			}
		}
	}
}

// surface returns the world-knowledge view of a mention
func surface(s *document.Sentence, m *mention.Mention) knowledge.Surface {
	return knowledge.Surface{
		Type:       m.Type,
		EntityType: m.EntityType,
		Words:      s.Words(m.Start, m.End),
	}
}
