package confidence

import (
	"testing"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// group puts the mentions into one new entity of type t
func group(t *testing.T, store *entity.Store, et model.EntityType, ms ...*mention.Mention) *entity.Entity {
	t.Helper()
	e, err := store.AddNew(ms[0].ID, et)
	require.NoError(t, err)
	for _, m := range ms[1:] {
		require.NoError(t, store.Add(m.ID, e.ID))
	}
	return e
}

func classify(store *entity.Store, m *mention.Mention) model.ConfidenceLevel {
	return New(store, nil).Classify(m)
}

func TestClassify_OnlyOneCandidatePronoun(t *testing.T) {
	db := document.NewBuilder("c")
	bob := db.Sentence("Bob Smith arrived").Mention(model.MentionName, model.EntityPerson, 0, 1)
	crowd := db.Sentence("the crowd cheered").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
	he := db.Sentence("he spoke").Mention(model.MentionPronoun, model.EntityPerson, 0, 0)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, bob, he)
	group(t, store, model.EntityOrganization, crowd)

	assert.Equal(t, model.OnlyOneCandidatePron, classify(store, he))
}

func TestClassify_PrevSentDoubleSubject(t *testing.T) {
	db := document.NewBuilder("prev")
	s0 := db.Sentence("Bob Smith met Jim Jones")
	bob := s0.Mention(model.MentionName, model.EntityPerson, 0, 1)
	jim := s0.Mention(model.MentionName, model.EntityPerson, 3, 4)
	s0.Proposition(document.PredicateVerb, 0, 1)
	s1 := db.Sentence("he spoke")
	he := s1.Mention(model.MentionPronoun, model.EntityPerson, 0, 0)
	s1.Proposition(document.PredicateVerb, 0, -1)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, bob, he)
	group(t, store, model.EntityPerson, jim)

	assert.Equal(t, model.PrevSentDoubleSubjectPron, classify(store, he))
}

func TestClassify_PrevSentCompetingSubject(t *testing.T) {
	db := document.NewBuilder("prev")
	s0 := db.Sentence("Bob Smith and Jim Jones met")
	bob := s0.Mention(model.MentionName, model.EntityPerson, 0, 1)
	jim := s0.Mention(model.MentionName, model.EntityPerson, 3, 4)
	s0.Proposition(document.PredicateVerb, 0, -1)
	s0.Proposition(document.PredicateVerb, 1, -1)
	s1 := db.Sentence("he spoke")
	he := s1.Mention(model.MentionPronoun, model.EntityPerson, 0, 0)
	s1.Proposition(document.PredicateVerb, 0, -1)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, bob, he)
	group(t, store, model.EntityPerson, jim)

	assert.Equal(t, model.OtherPron, classify(store, he))
}

func TestClassify_Names(t *testing.T) {
	db := document.NewBuilder("names")
	s := db.Sentence("Smith met John Smith")
	smith := s.Mention(model.MentionName, model.EntityPerson, 0, 0)
	john := s.Mention(model.MentionName, model.EntityPerson, 2, 3)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, smith, john)

	c := New(store, map[string]struct{}{"smith": {}})
	assert.Equal(t, model.AmbiguousName, c.Classify(smith))
	assert.Equal(t, model.AnyName, c.Classify(john), "multi-word names are never ambiguous")
	assert.Equal(t, model.AnyName, classify(store, smith), "no ambiguous set")
}

func TestClassify_Descriptors(t *testing.T) {
	t.Run("title", func(t *testing.T) {
		db := document.NewBuilder("title")
		s := db.Sentence("President Bush spoke")
		title := s.Mention(model.MentionDescriptor, model.EntityPerson, 0, 0)
		bush := s.Mention(model.MentionName, model.EntityPerson, 1, 1)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, bush, title)

		assert.Equal(t, model.TitleDesc, classify(store, title))
	})

	t.Run("copula", func(t *testing.T) {
		db := document.NewBuilder("copula")
		s := db.Sentence("Smith is the chairman")
		smith := s.Mention(model.MentionName, model.EntityPerson, 0, 0)
		chairman := s.Mention(model.MentionDescriptor, model.EntityPerson, 2, 3)
		s.Proposition(document.PredicateCopula, 0, 1)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, smith, chairman)

		assert.Equal(t, model.CopulaDesc, classify(store, chairman))
	})

	t.Run("appositive", func(t *testing.T) {
		db := document.NewBuilder("appo")
		s := db.Sentence("Smith , the chairman , resigned")
		appo := s.MentionWithHead(model.MentionAppositive, model.EntityPerson, 0, 3, 0)
		smith := s.Mention(model.MentionName, model.EntityPerson, 0, 0)
		chairman := s.Mention(model.MentionDescriptor, model.EntityPerson, 2, 3)
		set := s.Sentence().Mentions
		require.NoError(t, set.Attach(smith.ID.Index, appo.ID.Index))
		require.NoError(t, set.Chain(smith.ID.Index, chairman.ID.Index))
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, smith, chairman, appo)

		assert.Equal(t, model.ApposDesc, classify(store, chairman))
		assert.Equal(t, model.ApposDesc, classify(store, appo))
	})

	t.Run("only candidate", func(t *testing.T) {
		db := document.NewBuilder("only")
		acme := db.Sentence("Acme grew").Mention(model.MentionName, model.EntityOrganization, 0, 0)
		company := db.Sentence("the company hired").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityOrganization, acme, company)

		assert.Equal(t, model.OnlyOneCandidateDesc, classify(store, company))
	})

	t.Run("name after descriptor", func(t *testing.T) {
		db := document.NewBuilder("after")
		company := db.Sentence("the company grew").Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
		acme := db.Sentence("Acme hired").Mention(model.MentionName, model.EntityOrganization, 0, 0)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityOrganization, company, acme)

		assert.Equal(t, model.OtherDesc, classify(store, company))
	})

	t.Run("previous sentence subject", func(t *testing.T) {
		db := document.NewBuilder("prev")
		s0 := db.Sentence("Acme met IBM")
		acme := s0.Mention(model.MentionName, model.EntityOrganization, 0, 0)
		ibm := s0.Mention(model.MentionName, model.EntityOrganization, 2, 2)
		s0.Proposition(document.PredicateVerb, 0, 1)
		s1 := db.Sentence("the company agreed")
		company := s1.Mention(model.MentionDescriptor, model.EntityOrganization, 0, 1)
		s1.Proposition(document.PredicateVerb, 0, -1)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityOrganization, acme, company)
		group(t, store, model.EntityOrganization, ibm)

		assert.Equal(t, model.PrevSentDoubleSubjectDesc, classify(store, company))
	})
}

func TestClassify_Pronouns(t *testing.T) {
	t.Run("relative", func(t *testing.T) {
		db := document.NewBuilder("whq")
		s := db.Sentence("the man who left").Tag(2, "WP")
		man := s.MentionWithHead(model.MentionDescriptor, model.EntityPerson, 0, 3, 1)
		who := s.Mention(model.MentionPronoun, model.EntityPerson, 2, 2)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, man, who)

		assert.Equal(t, model.WHQLinkPron, classify(store, who))
	})

	t.Run("name and possessive", func(t *testing.T) {
		db := document.NewBuilder("poss")
		s := db.Sentence("Smith and his wife")
		smith := s.Mention(model.MentionName, model.EntityPerson, 0, 0)
		his := s.Mention(model.MentionPronoun, model.EntityPerson, 2, 2)
		s.Mention(model.MentionDescriptor, model.EntityPerson, 2, 3)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, smith, his)

		assert.Equal(t, model.NameAndPossPron, classify(store, his))
	})

	t.Run("double subject", func(t *testing.T) {
		db := document.NewBuilder("double")
		s := db.Sentence("Smith said he would go")
		smith := s.Mention(model.MentionName, model.EntityPerson, 0, 0)
		he := s.Mention(model.MentionPronoun, model.EntityPerson, 2, 2)
		s.Proposition(document.PredicateVerb, 0, -1)
		s.Proposition(document.PredicateVerb, 1, -1)
		rival := db.Sentence("Jones agreed").Mention(model.MentionName, model.EntityPerson, 0, 0)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, smith, he)
		group(t, store, model.EntityPerson, rival)

		assert.Equal(t, model.DoubleSubjectPersonPron, classify(store, he))
	})

	t.Run("other", func(t *testing.T) {
		db := document.NewBuilder("other")
		s0 := db.Sentence("Smith met Jones")
		smith := s0.Mention(model.MentionName, model.EntityPerson, 0, 0)
		jones := s0.Mention(model.MentionName, model.EntityPerson, 2, 2)
		him := db.Sentence("she thanked him").Mention(model.MentionPronoun, model.EntityPerson, 2, 2)
		store := entity.NewStore(db.Build())
		group(t, store, model.EntityPerson, smith, him)
		group(t, store, model.EntityPerson, jones)

		assert.Equal(t, model.OtherPron, classify(store, him))
	})
}

func TestClassify_NoEntity(t *testing.T) {
	db := document.NewBuilder("none")
	m := db.Sentence("the senator spoke").Mention(model.MentionDescriptor, model.EntityPerson, 0, 1)
	store := entity.NewStore(db.Build())

	assert.Equal(t, model.NoEntity, classify(store, m))
	assert.Equal(t, model.NoEntity, New(store, nil).ClassifyIn(m, nil))
}

func TestClassify_TotalAndKindSpecific(t *testing.T) {
	descLevels := map[model.ConfidenceLevel]bool{
		model.TitleDesc: true, model.CopulaDesc: true, model.ApposDesc: true,
		model.OnlyOneCandidateDesc: true, model.PrevSentDoubleSubjectDesc: true, model.OtherDesc: true,
	}
	pronLevels := map[model.ConfidenceLevel]bool{
		model.WHQLinkPron: true, model.NameAndPossPron: true, model.DoubleSubjectPersonPron: true,
		model.OnlyOneCandidatePron: true, model.PrevSentDoubleSubjectPron: true, model.OtherPron: true,
	}
	kinds := []model.MentionType{
		model.MentionNone, model.MentionName, model.MentionPronoun, model.MentionDescriptor,
		model.MentionPartitive, model.MentionAppositive, model.MentionList, model.MentionInfl, model.MentionNestedName,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			db := document.NewBuilder("total")
			s := db.Sentence("who said the words")
			m := s.Mention(kind, model.EntityPerson, 0, 0)
			s.Proposition(document.PredicateCopula, 0, 0)
			store := entity.NewStore(db.Build())
			e := group(t, store, model.EntityPerson, m)

			level := New(store, map[string]struct{}{"who": {}}).ClassifyIn(m, e)
			assert.Contains(t, model.ConfidenceLevels(), level)

			switch kind {
			case model.MentionName:
				assert.Contains(t, []model.ConfidenceLevel{model.AnyName, model.AmbiguousName}, level)
			case model.MentionDescriptor:
				assert.True(t, descLevels[level], "descriptor got %s", level)
			case model.MentionPronoun:
				assert.True(t, pronLevels[level], "pronoun got %s", level)
			case model.MentionAppositive:
				assert.Equal(t, model.ApposDesc, level)
			default:
				assert.Equal(t, model.UnknownConfidence, level)
			}
		})
	}
}

func TestClassifyAll(t *testing.T) {
	db := document.NewBuilder("all")
	bob := db.Sentence("Bob Smith arrived").Mention(model.MentionName, model.EntityPerson, 0, 1)
	he := db.Sentence("he spoke").Mention(model.MentionPronoun, model.EntityPerson, 0, 0)
	store := entity.NewStore(db.Build())
	e := group(t, store, model.EntityPerson, bob, he)

	counts, err := ClassifyAll(store, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.AnyName])
	assert.Equal(t, 1, counts[model.OnlyOneCandidatePron])
	assert.Equal(t, model.OnlyOneCandidatePron, e.Confidence(he.ID))

	_, err = ClassifyAll(store, nil)
	assert.True(t, model.IsInconsistent(err), "confidence is set once")
}

func TestAmbiguousSurnames(t *testing.T) {
	db := document.NewBuilder("surnames")
	s := db.Sentence("John Smith met Mary Smith and Ann Lee")
	john := s.Mention(model.MentionName, model.EntityPerson, 0, 1)
	mary := s.Mention(model.MentionName, model.EntityPerson, 3, 4)
	ann := s.Mention(model.MentionName, model.EntityPerson, 6, 7)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, john)
	group(t, store, model.EntityPerson, mary)
	group(t, store, model.EntityPerson, ann)

	got := AmbiguousSurnames(store, knowledge.New(knowledge.WithAmbiguousSurnames([]string{"Brown"})))

	assert.Contains(t, got, "smith")
	assert.Contains(t, got, "brown")
	assert.NotContains(t, got, "lee")
}

func TestAmbiguousSurnames_SameEntityDoesNotCount(t *testing.T) {
	db := document.NewBuilder("surnames")
	s := db.Sentence("John Smith , also John Smith")
	first := s.Mention(model.MentionName, model.EntityPerson, 0, 1)
	second := s.Mention(model.MentionName, model.EntityPerson, 4, 5)
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, first, second)

	assert.Empty(t, AmbiguousSurnames(store, nil))
}

func TestAmbiguousSurnames_AppositiveUsesNameHead(t *testing.T) {
	db := document.NewBuilder("surnames")
	s := db.Sentence("John Smith , the state senator , met Mary Smith")
	sb := s.Sentence()
	appo := s.Mention(model.MentionAppositive, model.EntityPerson, 0, 5)
	john := s.Mention(model.MentionName, model.EntityPerson, 0, 1)
	senator := s.Mention(model.MentionDescriptor, model.EntityPerson, 3, 5)
	mary := s.Mention(model.MentionName, model.EntityPerson, 8, 9)
	require.NoError(t, sb.Mentions.Attach(john.ID.Index, appo.ID.Index))
	require.NoError(t, sb.Mentions.Chain(john.ID.Index, senator.ID.Index))
	store := entity.NewStore(db.Build())
	group(t, store, model.EntityPerson, appo, senator)
	group(t, store, model.EntityPerson, mary)

	got := AmbiguousSurnames(store, nil)

	assert.Contains(t, got, "smith")
	assert.NotContains(t, got, "senator", "a descriptor head is a single word")
}
