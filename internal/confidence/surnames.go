package confidence

import (
	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// AmbiguousSurnames returns the configured ambiguous surnames plus the last
// word of every multi-word PER head that occurs in more than one PER
// entity of the document. Any mention kind counts.
func AmbiguousSurnames(store *entity.Store, k *knowledge.Knowledge) map[string]struct{} {
	out := make(map[string]struct{})
	if k != nil {
		out = k.AmbiguousSurnames()
	}

	doc := store.Document()
	seen := make(map[string]bool)
	for _, e := range store.ByType(model.EntityPerson) {
		names := make(map[string]bool)
		for _, id := range e.Mentions() {
			s := doc.Sentence(id.Sentence)
			if s == nil {
				continue
			}
			start, end, ok := headSpan(s, doc.Mention(id))
			if !ok || end == start {
				continue
			}
			last := s.Word(end)
			if seen[last] {
				out[last] = struct{}{}
			}
			names[last] = true
		}
		for name := range names {
			seen[name] = true
		}
	}
	return out
}

// headSpan returns the token span of the mention's head phrase. A name is
// its own head phrase; appositives and lists take their first element's.
func headSpan(s *document.Sentence, m *mention.Mention) (int, int, bool) {
	if m == nil {
		return 0, 0, false
	}
	if m.Type == model.MentionAppositive || m.Type == model.MentionList {
		m = s.Mentions.EffectiveHead(m.ID.Index)
		if m == nil {
			return 0, 0, false
		}
	}
	switch m.Type {
	case model.MentionName, model.MentionNestedName:
		return m.Start, m.End, true
	}
	return m.Head, m.Head, true
}
