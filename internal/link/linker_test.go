package link

import (
	"strings"
	"testing"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/logging"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLinker(t *testing.T, mutate func(*model.LinkerConfig)) *Linker {
	t.Helper()
	cfg := model.DefaultConfig().Linker
	if mutate != nil {
		mutate(&cfg)
	}
	l, err := NewLinker(cfg, logging.Discard())
	require.NoError(t, err)
	return l
}

func newTestState(doc *document.Document, k *knowledge.Knowledge) *State {
	return NewState(doc, entity.NewStore(doc), k)
}

// resolve links the given mentions in order and returns the decisions
func resolve(t *testing.T, l *Linker, state *State, ms ...*mention.Mention) []Decision {
	t.Helper()
	out := make([]Decision, 0, len(ms))
	for _, m := range ms {
		d, err := l.Resolve(state, m)
		require.NoError(t, err, "resolve %s", m.ID)
		out = append(out, d)
	}
	return out
}

func entityOf(t *testing.T, state *State, m *mention.Mention) *entity.Entity {
	t.Helper()
	e, ok := state.Store.EntityOf(m.ID)
	require.True(t, ok, "mention %s has no entity", m.ID)
	return e
}

func TestLinker_HeadMatchAcrossSentences(t *testing.T) {
	b := document.NewBuilder("a")
	first := b.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	second := b.Sentence("the senator left").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(b.Build(), nil)

	ds := resolve(t, newTestLinker(t, nil), state, first, second)

	assert.Equal(t, StepCreateNew, ds[0].Step)
	assert.Equal(t, StepHeadMatch, ds[1].Step)
	assert.True(t, ds[1].IsLink())
	assert.Equal(t, entityOf(t, state, first).ID, entityOf(t, state, second).ID)
}

func TestLinker_NoPremodNameCreatesNew(t *testing.T) {
	b := document.NewBuilder("b")
	acme := b.Sentence("Acme announced results").Mention(model.MentionName, model.EntityOrganization, 0, 0)
	ceo := b.Sentence("the new CEO resigned").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 2)
	state := newTestState(b.Build(), nil)

	l := newTestLinker(t, func(c *model.LinkerConfig) { c.Steps.Subtype = false })
	ds := resolve(t, l, state, acme, ceo)

	assert.Equal(t, StepCreateNew, ds[1].Step)
	assert.NotEqual(t, entityOf(t, state, acme).ID, entityOf(t, state, ceo).ID)
}

func TestLinker_AntiLink(t *testing.T) {
	b := document.NewBuilder("anti")
	first := b.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	second := b.Sentence("another senator left").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(b.Build(), nil)

	ds := resolve(t, newTestLinker(t, nil), state, first, second)

	assert.Equal(t, StepAntiLink, ds[1].Step)
	assert.False(t, ds[1].IsLink())
	assert.Equal(t, 2, state.Store.Len())
}

func TestLinker_Bypass(t *testing.T) {
	b := document.NewBuilder("bypass")
	first := b.Sentence("the truck stopped").Mention(model.MentionDescriptor, model.EntityVehicle, 0, 1)
	second := b.Sentence("the truck left").Mention(model.MentionDescriptor, model.EntityVehicle, 0, 1)
	state := newTestState(b.Build(), nil)

	l := newTestLinker(t, func(c *model.LinkerConfig) { c.BypassTypes = []string{"VEH"} })
	assert.Equal(t, StepBypass, l.Steps()[0])

	ds := resolve(t, l, state, first, second)
	assert.Equal(t, StepBypass, ds[1].Step)
	assert.Equal(t, 2, state.Store.Len())
}

func TestLinker_HeadMatchNeverCrossesTypes(t *testing.T) {
	b := document.NewBuilder("types")
	org := b.Sentence("the company grew").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
	gpe := b.Sentence("the company voted").Mention(model.MentionDescriptor, model.EntityGPE, 0, 1)
	state := newTestState(b.Build(), nil)

	resolve(t, newTestLinker(t, nil), state, org, gpe)

	assert.Equal(t, model.EntityOrganization, entityOf(t, state, org).Type)
	assert.Equal(t, model.EntityGPE, entityOf(t, state, gpe).Type)
	assert.NotEqual(t, entityOf(t, state, org).ID, entityOf(t, state, gpe).ID)
}

func TestLinker_LinkWithExplicitTarget(t *testing.T) {
	b := document.NewBuilder("target")
	first := b.Sentence("the office opened").Mention(model.MentionDescriptor, model.EntityFacility, 0, 1)
	second := b.Sentence("the office closed").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
	state := newTestState(b.Build(), nil)
	l := newTestLinker(t, nil)

	_, err := l.Link(state, first, model.EntityFacility)
	require.NoError(t, err)
	d, err := l.Link(state, second, model.EntityFacility)
	require.NoError(t, err)

	assert.True(t, d.IsLink())
	e, ok := state.Store.EntityByMention(second.ID, model.EntityFacility)
	require.True(t, ok)
	assert.Equal(t, model.EntityFacility, e.Type)
}

func TestLinker_NumericClash(t *testing.T) {
	build := func(a, b string) (*State, *mention.Mention, *mention.Mention) {
		db := document.NewBuilder("num")
		m1 := db.Sentence(a).MentionWithHead(model.MentionDescriptor, model.EntityVehicle, 0, 1, 0)
		m2 := db.Sentence(b).MentionWithHead(model.MentionDescriptor, model.EntityVehicle, 0, 1, 0)
		return newTestState(db.Build(), nil), m1, m2
	}
	l := newTestLinker(t, nil)

	state, m1, m2 := build("flight 77 landed", "flight 93 crashed")
	resolve(t, l, state, m1, m2)
	assert.NotEqual(t, entityOf(t, state, m1).ID, entityOf(t, state, m2).ID)

	state, m1, m2 = build("flight 93 landed", "flight 93 crashed")
	resolve(t, l, state, m1, m2)
	assert.Equal(t, entityOf(t, state, m1).ID, entityOf(t, state, m2).ID)
}

func TestLinker_PremodNameClash(t *testing.T) {
	build := func(city1, city2 string) (*State, []*mention.Mention) {
		db := document.NewBuilder("premod")
		s0 := db.Sentence("the " + city1 + " office opened")
		n1 := s0.Mention(model.MentionName, model.EntityGPE, 1, 1)
		d1 := s0.Mention(model.MentionDescriptor, model.EntityFacility, 0, 2)
		s1 := db.Sentence("the " + city2 + " office closed")
		n2 := s1.Mention(model.MentionName, model.EntityGPE, 1, 1)
		d2 := s1.Mention(model.MentionDescriptor, model.EntityFacility, 0, 2)
		return newTestState(db.Build(), nil), []*mention.Mention{n1, d1, n2, d2}
	}
	l := newTestLinker(t, nil)

	state, ms := build("Boston", "Chicago")
	resolve(t, l, state, ms...)
	assert.NotEqual(t, entityOf(t, state, ms[1]).ID, entityOf(t, state, ms[3]).ID)

	state, ms = build("Boston", "Boston")
	resolve(t, l, state, ms...)
	assert.Equal(t, entityOf(t, state, ms[0]).ID, entityOf(t, state, ms[2]).ID)
	assert.Equal(t, entityOf(t, state, ms[1]).ID, entityOf(t, state, ms[3]).ID)
}

func TestLinker_CloseMatch(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		linked bool
	}{
		{"longer mention after shorter", "the senator", "the state senator", true},
		{"shorter mention after longer", "the state senator", "the senator", true},
		{"equal length, different words", "the state senator", "the senior senator", false},
		{"extra word on both sides", "the state senator", "the senior state senator", true},
		{"missing word in longer", "the junior senator", "the senior state senator", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := document.NewBuilder("close")
			s0 := db.Sentence(tt.first + " spoke")
			m1 := s0.Mention(model.MentionDescriptor, model.EntityPerson, 0, len(strings.Fields(tt.first))-1)
			s1 := db.Sentence(tt.second + " left")
			m2 := s1.Mention(model.MentionDescriptor, model.EntityPerson, 0, len(strings.Fields(tt.second))-1)
			state := newTestState(db.Build(), knowledge.New(knowledge.WithStopWords([]string{"the"})))

			resolve(t, newTestLinker(t, nil), state, m1, m2)
			assert.Equal(t, tt.linked, entityOf(t, state, m1).ID == entityOf(t, state, m2).ID)
		})
	}
}

func TestLinker_CloseMatchDisabled(t *testing.T) {
	db := document.NewBuilder("close")
	m1 := db.Sentence("the state senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 2)
	m2 := db.Sentence("the senior senator left").Mention(model.MentionDescriptor, model.EntityPerson, 0, 2)
	state := newTestState(db.Build(), knowledge.New(knowledge.WithStopWords([]string{"the"})))

	l := newTestLinker(t, func(c *model.LinkerConfig) { c.RequireCloseMatch = false })
	resolve(t, l, state, m1, m2)
	assert.Equal(t, entityOf(t, state, m1).ID, entityOf(t, state, m2).ID)
}

func TestLinker_ExcludeSpeakerEntities(t *testing.T) {
	db := document.NewBuilder("speaker")
	quoted := db.Sentence("the reporter said").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	quoted.Quoted = true
	later := db.Sentence("the reporter left").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(db.Build(), nil)
	state.ExcludeSpeakers = true

	resolve(t, newTestLinker(t, nil), state, quoted, later)
	assert.NotEqual(t, entityOf(t, state, quoted).ID, entityOf(t, state, later).ID)
}

func TestLinker_SynonymHeads(t *testing.T) {
	db := document.NewBuilder("syn")
	s0 := db.Sentence("the Gambino mafia grew")
	n1 := s0.Mention(model.MentionName, model.EntityPerson, 1, 1)
	d1 := s0.Mention(model.MentionDescriptor, model.EntityOrganization, 0, 2)
	s1 := db.Sentence("the Gambino mob fell")
	n2 := s1.Mention(model.MentionName, model.EntityPerson, 1, 1)
	d2 := s1.Mention(model.MentionDescriptor, model.EntityOrganization, 0, 2)
	state := newTestState(db.Build(), nil)

	ds := resolve(t, newTestLinker(t, nil), state, n1, d1, n2, d2)

	assert.Equal(t, StepHeadMatch, ds[3].Step)
	assert.Equal(t, entityOf(t, state, d1).ID, entityOf(t, state, d2).ID)
}

func TestLinker_SubtypeFallback(t *testing.T) {
	db := document.NewBuilder("subtype")
	acme := db.Sentence("Acme announced results").Mention(model.MentionName, model.EntityOrganization, 0, 0)
	firm := db.Sentence("the firm grew").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
	state := newTestState(db.Build(), nil)

	ds := resolve(t, newTestLinker(t, nil), state, acme, firm)

	assert.Equal(t, StepSubtype, ds[1].Step)
	assert.Equal(t, entityOf(t, state, acme).ID, entityOf(t, state, firm).ID)
}

func TestLinker_SubtypeConflict(t *testing.T) {
	db := document.NewBuilder("subtype")
	acme := db.Sentence("Acme announced results").Mention(model.MentionName, model.EntityOrganization, 0, 0)
	require.NoError(t, acme.SetSubtype("Commercial"))
	school := db.Sentence("the school grew").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
	require.NoError(t, school.SetSubtype("Educational"))
	state := newTestState(db.Build(), nil)

	ds := resolve(t, newTestLinker(t, nil), state, acme, school)
	assert.Equal(t, StepCreateNew, ds[1].Step)
}

func TestLinker_PremodNameFallback(t *testing.T) {
	db := document.NewBuilder("premod")
	s := db.Sentence("the Acme spokesman said")
	acme := s.Mention(model.MentionName, model.EntityOrganization, 1, 1)
	spokesman := s.Mention(model.MentionDescriptor, model.EntityOrganization, 0, 2)
	state := newTestState(db.Build(), nil)

	l := newTestLinker(t, func(c *model.LinkerConfig) { c.Steps.Subtype = false })
	ds := resolve(t, l, state, acme, spokesman)

	assert.Equal(t, StepPremodName, ds[1].Step)
	assert.Equal(t, entityOf(t, state, acme).ID, entityOf(t, state, spokesman).ID)
}

func TestLinker_PremodNameWithoutEntityIsFatal(t *testing.T) {
	db := document.NewBuilder("fatal")
	s := db.Sentence("the Acme spokesman said")
	s.Mention(model.MentionName, model.EntityOrganization, 1, 1)
	spokesman := s.Mention(model.MentionDescriptor, model.EntityOrganization, 0, 2)
	state := newTestState(db.Build(), nil)

	l := newTestLinker(t, func(c *model.LinkerConfig) { c.Steps.Subtype = false })
	before := testutil.ToFloat64(linkErrors)

	_, err := l.Resolve(state, spokesman)
	require.Error(t, err)
	assert.True(t, model.IsInconsistent(err))
	assert.Equal(t, before+1, testutil.ToFloat64(linkErrors))
	assert.Equal(t, 0, state.Store.Len(), "nothing applied")
}

func TestLinker_AlreadyLinkedIsFatal(t *testing.T) {
	db := document.NewBuilder("twice")
	m := db.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(db.Build(), nil)
	l := newTestLinker(t, nil)

	resolve(t, l, state, m)
	_, err := l.Resolve(state, m)
	assert.ErrorIs(t, err, entity.ErrAlreadyLinked)
	assert.True(t, model.IsInconsistent(err))
}

func TestLinker_ForeignMentionIsFatal(t *testing.T) {
	db := document.NewBuilder("foreign")
	db.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(db.Build(), nil)

	stranger := &mention.Mention{ID: mention.ID{Sentence: 0, Index: 0}, Type: model.MentionDescriptor, EntityType: model.EntityPerson}
	_, err := newTestLinker(t, nil).Resolve(state, stranger)
	assert.True(t, model.IsInconsistent(err))
}

func TestLinker_RecordsDecisions(t *testing.T) {
	b := document.NewBuilder("metrics")
	first := b.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	second := b.Sentence("the senator left").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	state := newTestState(b.Build(), nil)

	counter := decisionsTotal.WithLabelValues(StepHeadMatch, "link")
	before := testutil.ToFloat64(counter)

	resolve(t, newTestLinker(t, nil), state, first, second)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNewLinker_Profiles(t *testing.T) {
	l := newTestLinker(t, nil)
	assert.Equal(t, []string{StepAntiLink, StepHeadMatch, StepSubtype, StepPremodName, StepCreateNew}, l.Steps())

	l = newTestLinker(t, func(c *model.LinkerConfig) { c.Language = "generic" })
	assert.Equal(t, []string{StepAntiLink, StepHeadMatch, StepCreateNew}, l.Steps())

	l = newTestLinker(t, func(c *model.LinkerConfig) {
		c.Steps.AntiLink = false
		c.Steps.HeadMatch = false
	})
	assert.Equal(t, []string{StepSubtype, StepPremodName, StepCreateNew}, l.Steps())

	_, err := NewLinker(model.LinkerConfig{Language: "fr"}, nil)
	assert.Error(t, err)

	cfg := model.DefaultConfig().Linker
	cfg.BypassTypes = []string{"ANIMAL"}
	_, err = NewLinker(cfg, nil)
	assert.Error(t, err)
}

func TestLinker_Deterministic(t *testing.T) {
	run := func() []string {
		db := document.NewBuilder("det")
		s0 := db.Sentence("John Smith , the senator , spoke")
		appo := s0.MentionWithHead(model.MentionAppositive, model.EntityPerson, 0, 4, 1)
		name := s0.Mention(model.MentionName, model.EntityPerson, 0, 1)
		desc := s0.Mention(model.MentionDescriptor, model.EntityPerson, 3, 4)
		require.NoError(t, s0.Sentence().Mentions.Attach(name.ID.Index, appo.ID.Index))
		require.NoError(t, s0.Sentence().Mentions.Chain(name.ID.Index, desc.ID.Index))
		he := db.Sentence("he left the senate").Mention(model.MentionPronoun, model.EntityPerson, 0, 0)
		state := newTestState(db.Build(), nil)

		var out []string
		for _, d := range resolve(t, newTestLinker(t, nil), state, name, desc, appo, he) {
			out = append(out, d.String())
		}
		return out
	}

	assert.Equal(t, run(), run())
}
