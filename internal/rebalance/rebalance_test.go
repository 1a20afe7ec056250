package rebalance

import (
	"fmt"
	"testing"

	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phrase struct {
	kind model.MentionType
	typ  model.EntityType
	text string
}

func desc(typ model.EntityType, text string) phrase {
	return phrase{kind: model.MentionDescriptor, typ: typ, text: text}
}

func name(typ model.EntityType, text string) phrase {
	return phrase{kind: model.MentionName, typ: typ, text: text}
}

// singletonStore puts every phrase in its own sentence and its own entity
func singletonStore(t *testing.T, phrases ...phrase) (*entity.Store, []mention.ID) {
	t.Helper()
	db := document.NewBuilder("rebalance")
	var ids []mention.ID
	for _, p := range phrases {
		sb := db.Sentence(p.text)
		m := sb.Mention(p.kind, p.typ, 0, len(sb.Sentence().Tokens)-1)
		ids = append(ids, m.ID)
	}
	store := entity.NewStore(db.Build())
	for i, id := range ids {
		_, err := store.AddNew(id, phrases[i].typ)
		require.NoError(t, err)
	}
	return store, ids
}

func entityAt(t *testing.T, store *entity.Store, id int) *entity.Entity {
	t.Helper()
	e, ok := store.Entity(id)
	require.True(t, ok)
	return e
}

func TestGroupMerge_ZeroPercent(t *testing.T) {
	var phrases []phrase
	for i := 0; i < 20; i++ {
		phrases = append(phrases, desc(model.EntityPerson, fmt.Sprintf("the official number %d", i)))
	}
	store, _ := singletonStore(t, phrases...)

	res, err := Rebalance(store, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Before)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, 0, res.After)
	assert.Equal(t, 13, res.Merged)

	active := store.Active()
	assert.LessOrEqual(t, len(active), 7)
	total := 0
	for _, e := range active {
		assert.LessOrEqual(t, e.Len(), 3)
		total += e.Len()
	}
	assert.Equal(t, 20, total, "no mention is lost")
	assert.Equal(t, 20, store.Len(), "drained entities keep their ids")
}

func TestGroupMerge_ShortestFirst(t *testing.T) {
	store, ids := singletonStore(t,
		desc(model.EntityPerson, "the long serving committee chairman"),
		desc(model.EntityPerson, "the senior vice president of sales"),
		desc(model.EntityPerson, "the newly appointed deputy minister"),
		desc(model.EntityPerson, "the former head of the central bank"),
		desc(model.EntityPerson, "the man"),
		desc(model.EntityPerson, "the boy"),
	)

	res, err := Rebalance(store, 70, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Allowed)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 4, res.After)
	assert.True(t, entityAt(t, store, 4).Contains(ids[5]))
	assert.Equal(t, 0, entityAt(t, store, 5).Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1, entityAt(t, store, i).Len(), "entity %d", i)
	}
}

func TestGroupMerge_SameTypeOnly(t *testing.T) {
	store, ids := singletonStore(t,
		desc(model.EntityPerson, "the man"),
		desc(model.EntityOrganization, "the firm"),
		desc(model.EntityPerson, "the woman"),
		desc(model.EntityOrganization, "the agency"),
		desc(model.EntityPerson, "the child"),
	)

	res, err := Rebalance(store, 0, 2)
	require.NoError(t, err)

	assert.True(t, entityAt(t, store, 0).Contains(ids[2]))
	assert.True(t, entityAt(t, store, 1).Contains(ids[3]))
	assert.Equal(t, 1, entityAt(t, store, 4).Len(), "a singleton without partners stays")
	assert.Equal(t, 1, res.After)
}

func TestGroupMerge_WithinTarget(t *testing.T) {
	store, _ := singletonStore(t,
		desc(model.EntityPerson, "the man"),
		desc(model.EntityPerson, "the woman"),
	)

	res, err := Rebalance(store, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Merged)
	assert.Len(t, store.Active(), 2)
}

func TestLinkToName(t *testing.T) {
	store, ids := singletonStore(t,
		name(model.EntityOrganization, "Acme"),
		name(model.EntityOrganization, "IBM"),
		desc(model.EntityOrganization, "the firm"),
		desc(model.EntityOrganization, "the company"),
		desc(model.EntityOrganization, "the group"),
		desc(model.EntityPerson, "the man"),
	)

	s, err := NewStrategy(model.StrategyLinkToName, 0)
	require.NoError(t, err)
	res, err := Run(store, s, 0)
	require.NoError(t, err)

	assert.Equal(t, model.StrategyLinkToName, res.Strategy)
	assert.Equal(t, 4, res.Before)
	assert.Equal(t, 3, res.Merged)
	assert.Equal(t, 1, res.After, "no named PER entity to absorb the man")

	// smallest named entity first, lowest id on ties
	acme, ibm := entityAt(t, store, 0), entityAt(t, store, 1)
	assert.True(t, acme.Contains(ids[2]))
	assert.True(t, ibm.Contains(ids[3]))
	assert.True(t, acme.Contains(ids[4]))
	assert.Equal(t, 3, acme.Len())
	assert.Equal(t, 2, ibm.Len())
}

func TestLinkToName_Stride(t *testing.T) {
	phrases := []phrase{name(model.EntityOrganization, "Acme")}
	for i := 0; i < 10; i++ {
		phrases = append(phrases, desc(model.EntityOrganization, fmt.Sprintf("the unit %d", i)))
	}
	store, ids := singletonStore(t, phrases...)

	res, err := Run(store, &LinkToName{}, 50)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Allowed)
	assert.Equal(t, 5, res.Merged)
	acme := entityAt(t, store, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, i%2 == 0, acme.Contains(ids[i+1]), "singleton %d", i)
	}
}

func TestLinkToName_WithinAllowed(t *testing.T) {
	store, _ := singletonStore(t,
		name(model.EntityOrganization, "Acme"),
		desc(model.EntityOrganization, "the firm"),
	)
	singletons := Singletons(store)

	for _, allowed := range []int{len(singletons), len(singletons) + 1} {
		merged, err := (&LinkToName{}).Apply(store, singletons, allowed)
		require.NoError(t, err)
		assert.Zero(t, merged, "allowed %d", allowed)
	}
	assert.Equal(t, 2, store.Len())
}

func TestPreviewDoesNotMutate(t *testing.T) {
	store, _ := singletonStore(t,
		desc(model.EntityPerson, "the man"),
		desc(model.EntityPerson, "the woman"),
		desc(model.EntityPerson, "the child"),
	)

	res, err := Preview(store, &GroupMerge{GroupSize: 3}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Merged)
	assert.Len(t, Singletons(store), 3)
	assert.Len(t, store.Active(), 3)
}

func TestRun_Percentage(t *testing.T) {
	store, _ := singletonStore(t, desc(model.EntityPerson, "the man"))
	s := &GroupMerge{GroupSize: 2}

	for _, pct := range []float64{-1, 100.5, 250} {
		_, err := Run(store, s, pct)
		assert.Error(t, err, "percentage %v", pct)
	}
	for _, pct := range []float64{0, 100} {
		_, err := Run(store, s, pct)
		assert.NoError(t, err, "percentage %v", pct)
	}
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(model.StrategyGroupMerge, 4)
	require.NoError(t, err)
	assert.Equal(t, &GroupMerge{GroupSize: 4}, s)

	_, err = NewStrategy(model.StrategyGroupMerge, 1)
	assert.ErrorContains(t, err, "group size")

	_, err = NewStrategy("random", 2)
	assert.ErrorContains(t, err, "unknown rebalance strategy")
}

func TestSingletons(t *testing.T) {
	store, ids := singletonStore(t,
		name(model.EntityPerson, "Smith"),
		desc(model.EntityPerson, "the man"),
		desc(model.EntityPerson, "the woman"),
		desc(model.EntityPerson, "the child"),
	)
	require.NoError(t, store.Move(3, 2))

	got := Singletons(store)
	require.Len(t, got, 1)
	assert.True(t, got[0].Contains(ids[1]))
}

func TestRun_CountsMerges(t *testing.T) {
	counter := mergesTotal.WithLabelValues(model.StrategyGroupMerge)
	before := testutil.ToFloat64(counter)

	store, _ := singletonStore(t,
		desc(model.EntityPerson, "the man"),
		desc(model.EntityPerson, "the woman"),
	)
	res, err := Rebalance(store, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
