package document

import (
	"strings"

	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// Builder assembles documents in code, mainly for tests and tools
type Builder struct {
	doc *Document
}

// SentenceBuilder adds mentions and propositions to one sentence
type SentenceBuilder struct {
	s *Sentence
}

// NewBuilder starts an empty document
func NewBuilder(id string) *Builder {
	return &Builder{doc: &Document{ID: id}}
}

// SourceType sets the document source type
func (b *Builder) SourceType(t string) *Builder {
	b.doc.SourceType = t
	return b
}

// Sentence appends a sentence made of the whitespace-separated words of text
func (b *Builder) Sentence(text string) *SentenceBuilder {
	idx := len(b.doc.Sentences)
	s := &Sentence{Index: idx, Mentions: mention.NewSet(idx)}
	for _, w := range strings.Fields(text) {
		s.Tokens = append(s.Tokens, Token{Word: w})
	}
	b.doc.Sentences = append(b.doc.Sentences, s)
	return &SentenceBuilder{s: s}
}

// Seed pre-registers an upstream entity
func (b *Builder) Seed(t model.EntityType, ids ...mention.ID) *Builder {
	b.doc.Seeds = append(b.doc.Seeds, Seed{Type: t, Mentions: ids})
	return b
}

// Build returns the document
func (b *Builder) Build() *Document {
	return b.doc
}

// Sentence returns the sentence being built
func (sb *SentenceBuilder) Sentence() *Sentence {
	return sb.s
}

// Tag sets the part-of-speech tag of token i
func (sb *SentenceBuilder) Tag(i int, pos string) *SentenceBuilder {
	sb.s.Tokens[i].POS = pos
	return sb
}

// Mention adds a mention spanning start..end with its head on the last token
func (sb *SentenceBuilder) Mention(t model.MentionType, et model.EntityType, start, end int) *mention.Mention {
	return sb.MentionWithHead(t, et, start, end, end)
}

// MentionWithHead adds a mention with an explicit head token
func (sb *SentenceBuilder) MentionWithHead(t model.MentionType, et model.EntityType, start, end, head int) *mention.Mention {
	return sb.s.Mentions.Add(mention.Mention{
		Type:       t,
		EntityType: et,
		Start:      start,
		End:        end,
		Head:       head,
	})
}

// Proposition adds a predicate with a subject and an optional object.
// A negative object index leaves the object out.
func (sb *SentenceBuilder) Proposition(predicate string, subject, object int) *SentenceBuilder {
	p := Proposition{Type: predicate, Args: []Argument{{Role: RoleSubject, Mention: subject}}}
	if object >= 0 {
		p.Args = append(p.Args, Argument{Role: RoleObject, Mention: object})
	}
	sb.s.Propositions = append(sb.s.Propositions, p)
	return sb
}
