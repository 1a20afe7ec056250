// Package knowledge provides the read-only world-knowledge tables used by
// the linker: gazetteers, stop words, ambiguous surnames and team names.
// A Knowledge value is immutable once built and safe for concurrent use.
package knowledge

import (
	"strings"

	"github.com/ppiankov/corefer/internal/model"
)

// Knowledge is the immutable world-knowledge context
type Knowledge struct {
	gazetteers     map[model.EntityType]*Gazetteer
	stopWords      map[string]struct{}
	surnames       map[string]struct{}
	teams          map[string]struct{}
	speakerSources map[string]struct{}
}

// Option configures a Knowledge value under construction
type Option func(*Knowledge)

// WithGazetteer sets the gazetteer for an entity type
func WithGazetteer(t model.EntityType, g *Gazetteer) Option {
	return func(k *Knowledge) {
		if g != nil {
			k.gazetteers[t] = g
		}
	}
}

// WithStopWords enables close-match checking with the given noise words
func WithStopWords(words []string) Option {
	return func(k *Knowledge) {
		k.stopWords = toSet(words)
	}
}

// WithAmbiguousSurnames sets the external ambiguous-surname list
func WithAmbiguousSurnames(words []string) Option {
	return func(k *Knowledge) {
		k.surnames = toSet(words)
	}
}

// WithTeams replaces the built-in team list
func WithTeams(words []string) Option {
	return func(k *Knowledge) {
		k.teams = toSet(words)
	}
}

// New builds a Knowledge value. Without options it carries the built-in
// team and speaker-source lists and nothing else.
func New(opts ...Option) *Knowledge {
	k := &Knowledge{
		gazetteers: make(map[model.EntityType]*Gazetteer),
		teams:      toSet(DefaultTeams()),
		speakerSources: toSet([]string{
			"telephone", "broadcast conversation", "usenet", "weblog", "email", "discussion_forum",
		}),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// LookupName looks a normalized name up in the gazetteer of type t. Only
// GPE, ORG and PER names are covered.
func (k *Knowledge) LookupName(normalized string, t model.EntityType) Match {
	switch t {
	case model.EntityGPE, model.EntityOrganization, model.EntityPerson:
		return k.gazetteers[t].Lookup(normalized)
	}
	return Match{}
}

// HasGazetteer reports whether a gazetteer was loaded for t
func (k *Knowledge) HasGazetteer(t model.EntityType) bool {
	return k.gazetteers[t].Len() > 0
}

// HasStopWords reports whether a stop-word list is available. Without one
// close-match checking is disabled.
func (k *Knowledge) HasStopWords() bool {
	return k.stopWords != nil
}

// IsStopWord reports whether word is a noise word for close matching
func (k *Knowledge) IsStopWord(word string) bool {
	_, ok := k.stopWords[strings.ToLower(word)]
	return ok
}

// IsAmbiguousSurname reports whether word is on the external list
func (k *Knowledge) IsAmbiguousSurname(word string) bool {
	_, ok := k.surnames[strings.ToLower(word)]
	return ok
}

// AmbiguousSurnames returns a copy of the external list
func (k *Knowledge) AmbiguousSurnames() map[string]struct{} {
	out := make(map[string]struct{}, len(k.surnames))
	for w := range k.surnames {
		out[w] = struct{}{}
	}
	return out
}

// IsSpeakerSource reports whether documents of this source type carry
// speaker turns
func (k *Knowledge) IsSpeakerSource(sourceType string) bool {
	_, ok := k.speakerSources[strings.ToLower(strings.TrimSpace(sourceType))]
	return ok
}
