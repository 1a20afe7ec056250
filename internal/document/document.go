// Package document holds the per-document input consumed by the resolver:
// sentences with tokens, mention arenas and propositions.
package document

import (
	"strings"

	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// Token is one word of a sentence with its part-of-speech tag
type Token struct {
	Word string `json:"word"`
	POS  string `json:"pos,omitempty"`
}

// Predicate types of propositions
const (
	PredicateVerb     = "verb"
	PredicateCopula   = "copula"
	PredicateModifier = "modifier"
	PredicateNoun     = "noun"
	PredicateSet      = "set"
)

// Argument roles of propositions
const (
	RoleSubject = "<sub>"
	RoleObject  = "<obj>"
)

// Argument is a proposition argument filled by a mention of the same sentence
type Argument struct {
	Role    string `json:"role"`
	Mention int    `json:"mention"`
}

// Proposition is a predicate-argument structure produced upstream
type Proposition struct {
	Type string     `json:"type"`
	Args []Argument `json:"args"`
}

// Sentence is one sentence of a document
type Sentence struct {
	Index        int
	Tokens       []Token
	Mentions     *mention.Set
	Propositions []Proposition
}

// Seed is an entity recognized upstream before linking
type Seed struct {
	Type     model.EntityType
	Mentions []mention.ID
}

// Document is the resolver input
type Document struct {
	ID         string
	SourceType string
	Sentences  []*Sentence
	Seeds      []Seed
}

// Sentence returns sentence i, or nil when out of range
func (d *Document) Sentence(i int) *Sentence {
	if i < 0 || i >= len(d.Sentences) {
		return nil
	}
	return d.Sentences[i]
}

// Mention resolves a mention id, or nil when it does not exist
func (d *Document) Mention(id mention.ID) *mention.Mention {
	s := d.Sentence(id.Sentence)
	if s == nil {
		return nil
	}
	return s.Mentions.At(id.Index)
}

// MentionCount returns the number of mentions in the document
func (d *Document) MentionCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += s.Mentions.Len()
	}
	return n
}

// Word returns the lower-cased word at token i
func (s *Sentence) Word(i int) string {
	if i < 0 || i >= len(s.Tokens) {
		return ""
	}
	return strings.ToLower(s.Tokens[i].Word)
}

// Words returns the lower-cased words of the span start..end inclusive
func (s *Sentence) Words(start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end >= len(s.Tokens) {
		end = len(s.Tokens) - 1
	}
	var out []string
	for i := start; i <= end; i++ {
		out = append(out, s.Word(i))
	}
	return out
}

// Text returns the surface text of a mention
func (s *Sentence) Text(m *mention.Mention) string {
	if m == nil || m.Start < 0 || m.End >= len(s.Tokens) || m.Start > m.End {
		return ""
	}
	parts := make([]string, 0, m.End-m.Start+1)
	for _, t := range s.Tokens[m.Start : m.End+1] {
		parts = append(parts, t.Word)
	}
	return strings.Join(parts, " ")
}

// HeadWord returns the lower-cased word of the mention's effective head
func (s *Sentence) HeadWord(m *mention.Mention) string {
	h := s.Mentions.EffectiveHead(m.ID.Index)
	if h == nil {
		return ""
	}
	return s.Word(h.Head)
}

// Premods returns the token indexes before the mention's head
func (s *Sentence) Premods(m *mention.Mention) []int {
	var out []int
	for i := m.Start; i < m.Head && i < len(s.Tokens); i++ {
		out = append(out, i)
	}
	return out
}

// Postmods returns the token indexes after the mention's head
func (s *Sentence) Postmods(m *mention.Mention) []int {
	var out []int
	for i := m.Head + 1; i <= m.End && i < len(s.Tokens); i++ {
		out = append(out, i)
	}
	return out
}

// PremodNames returns the NAME mentions lying inside m's premodifier span
func (s *Sentence) PremodNames(m *mention.Mention) []*mention.Mention {
	var out []*mention.Mention
	for _, other := range s.Mentions.All() {
		if other == m || other.Type != model.MentionName {
			continue
		}
		if other.Start >= m.Start && other.End < m.Head {
			out = append(out, other)
		}
	}
	return out
}

// IsSubject reports whether the mention fills a subject role
func (s *Sentence) IsSubject(m *mention.Mention) bool {
	for _, p := range s.Propositions {
		for _, a := range p.Args {
			if a.Role == RoleSubject && a.Mention == m.ID.Index {
				return true
			}
		}
	}
	return false
}

// IsNumeric reports whether token i is a cardinal number
func (s *Sentence) IsNumeric(i int) bool {
	if i < 0 || i >= len(s.Tokens) {
		return false
	}
	if s.Tokens[i].POS == "CD" {
		return true
	}
	word := s.Tokens[i].Word
	digits := 0
	for _, r := range word {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r != ',' && r != '.':
			return false
		}
	}
	return digits > 0
}
