package link

import (
	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
)

// premodNameClash reports whether both mentions carry premodifier names
// and those names resolve to different entities
func premodNameClash(in *Input, c candidate) bool {
	mine := premodNameEntities(in.State.Store, in.Sentence, in.Mention)
	theirs := premodNameEntities(in.State.Store, c.sentence, c.mention)
	if len(mine) == 0 || len(theirs) == 0 {
		return false
	}
	for id := range mine {
		if theirs[id] {
			return false
		}
	}
	return true
}

func premodNameEntities(store *entity.Store, s *document.Sentence, m *mention.Mention) map[int]bool {
	ids := make(map[int]bool)
	for _, name := range s.PremodNames(m) {
		if e, ok := store.EntityOf(name.ID); ok {
			ids[e.ID] = true
		}
	}
	return ids
}

// numericWord returns the last numeric token among idx
func numericWord(s *document.Sentence, idx []int) (string, bool) {
	for i := len(idx) - 1; i >= 0; i-- {
		if s.IsNumeric(idx[i]) {
			return s.Word(idx[i]), true
		}
	}
	return "", false
}

// numericClash compares the mention's numeric premodifier and postmodifier
// with those of every member of the candidate entity. "Flight 93" never
// joins an entity holding "Flight 77".
func numericClash(in *Input, e *entity.Entity) bool {
	myPre, hasPre := numericWord(in.Sentence, in.Sentence.Premods(in.Mention))
	myPost, hasPost := numericWord(in.Sentence, in.Sentence.Postmods(in.Mention))
	if !hasPre && !hasPost {
		return false
	}

	// every member is rescanned for every candidate; quadratic in entity size
	for _, id := range e.Mentions() {
		s := in.State.Doc.Sentence(id.Sentence)
		other := s.Mentions.At(id.Index)
		if hasPre {
			if w, ok := numericWord(s, s.Premods(other)); ok && w != myPre {
				return true
			}
		}
		if hasPost {
			if w, ok := numericWord(s, s.Postmods(other)); ok && w != myPost {
				return true
			}
		}
	}
	return false
}

// speakerEntity reports whether every member of e lies in quoted speech
func speakerEntity(state *State, e *entity.Entity) bool {
	if e.Len() == 0 {
		return false
	}
	for _, id := range e.Mentions() {
		if m := state.Doc.Mention(id); m == nil || !m.Quoted {
			return false
		}
	}
	return true
}

// closeMatchClash checks the current mention against the candidate: a
// numeric premodifier must be matched, and every non-stop word of the
// shorter of the two, up to its head, must occur in the longer one. On
// equal lengths the current mention is checked against the candidate. The
// head is extended over an "of"/"for" postmodifier.
func closeMatchClash(in *Input, c candidate) bool {
	if w, ok := numericWord(in.Sentence, in.Sentence.Premods(in.Mention)); ok {
		other, has := numericWord(c.sentence, c.sentence.Premods(c.mention))
		if !has || other != w {
			return true
		}
	}

	shorter := in.Sentence.Words(in.Mention.Start, matchEnd(in.Sentence, in.Mention))
	longer := c.sentence.Words(c.mention.Start, matchEnd(c.sentence, c.mention))
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	k := in.State.Knowledge
	for _, w := range shorter {
		if k.IsStopWord(w) {
			continue
		}
		if !containsWord(longer, w) {
			return true
		}
	}
	return false
}

func matchEnd(s *document.Sentence, m *mention.Mention) int {
	next := s.Word(m.Head + 1)
	if m.Head < m.End && (next == "of" || next == "for") {
		return m.End
	}
	return m.Head
}

func containsWord(words []string, w string) bool {
	wd := digits(w)
	for _, other := range words {
		if other == w {
			return true
		}
		if wd != "" && wd == digits(other) {
			return true
		}
	}
	return false
}

// digits returns the numeric portion of a word, "" when it has none
func digits(w string) string {
	var out []byte
	for i := 0; i < len(w); i++ {
		if w[i] >= '0' && w[i] <= '9' {
			out = append(out, w[i])
		}
	}
	return string(out)
}
