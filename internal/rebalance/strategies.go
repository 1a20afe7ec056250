package rebalance

import (
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/model"
)

// GroupMerge folds same-type singletons together in groups of up to
// GroupSize, shortest combined text first
type GroupMerge struct {
	GroupSize int
}

func (g *GroupMerge) Name() string { return model.StrategyGroupMerge }

func (g *GroupMerge) Apply(store *entity.Store, singletons []*entity.Entity, allowed int) (int, error) {
	groups := g.groups(singletons)
	lengths := make([]int, len(groups))
	for i, group := range groups {
		for _, e := range group {
			lengths[i] += len(mentionText(store, e))
		}
	}

	current, merged := len(singletons), 0
	for current > allowed {
		best := -1
		for i, group := range groups {
			if group == nil {
				continue
			}
			if best < 0 || lengths[i] < lengths[best] {
				best = i
			}
		}
		if best < 0 {
			break
		}

		group := groups[best]
		groups[best] = nil
		current--
		for _, e := range group[1:] {
			if err := store.Move(e.ID, group[0].ID); err != nil {
				return merged, err
			}
			merged++
			current--
			if current <= allowed {
				break
			}
		}
	}
	return merged, nil
}

// groups partitions singletons greedily in id order: each group starts at
// the first unused singleton and takes the following ones of its type. A
// singleton left without partners is not merged.
func (g *GroupMerge) groups(singletons []*entity.Entity) [][]*entity.Entity {
	used := make([]bool, len(singletons))
	var out [][]*entity.Entity
	for i, first := range singletons {
		if used[i] {
			continue
		}
		group := []*entity.Entity{first}
		for j := i + 1; j < len(singletons) && len(group) < g.GroupSize; j++ {
			if !used[j] && singletons[j].Type == first.Type {
				group = append(group, singletons[j])
				used[j] = true
			}
		}
		if len(group) > 1 {
			out = append(out, group)
		}
	}
	return out
}

// LinkToName moves singletons into the smallest same-type entity that has
// a NAME mention. Singletons are picked at a stride so merges spread over
// the document; the stride shrinks until enough have moved.
type LinkToName struct{}

func (l *LinkToName) Name() string { return model.StrategyLinkToName }

func (l *LinkToName) Apply(store *entity.Store, singletons []*entity.Entity, allowed int) (int, error) {
	current := len(singletons)
	if current <= allowed {
		return 0, nil
	}
	pending := append([]*entity.Entity(nil), singletons...)
	merged := 0

	modulus := len(singletons) / (current - allowed)
	for current > allowed && modulus > 0 {
		for i, e := range pending {
			if current <= allowed {
				break
			}
			if e == nil || i%modulus != 0 {
				continue
			}
			target, ok := smallestNamed(store, e.Type)
			if !ok {
				continue
			}
			if err := store.Move(e.ID, target.ID); err != nil {
				return merged, err
			}
			pending[i] = nil
			merged++
			current--
		}
		modulus--
	}
	return merged, nil
}

// smallestNamed returns the entity of type t with a NAME mention and the
// fewest mentions, the lowest id on ties
func smallestNamed(store *entity.Store, t model.EntityType) (*entity.Entity, bool) {
	var best *entity.Entity
	for _, e := range store.ByType(t) {
		if e.Len() == 0 || (best != nil && e.Len() >= best.Len()) {
			continue
		}
		if store.HasMentionType(e, model.MentionName) {
			best = e
		}
	}
	return best, best != nil
}
