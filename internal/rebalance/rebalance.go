// Package rebalance merges excess singleton descriptor entities after
// linking, until the share of singletons is within a target percentage.
package rebalance

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "corefer_rebalance_merges_total",
	Help: "Total singleton entities drained by the re-balancer",
}, []string{"strategy"})

// Strategy drains singleton entities into other entities until at most
// allowed singletons remain
type Strategy interface {
	Name() string
	Apply(store *entity.Store, singletons []*entity.Entity, allowed int) (merged int, err error)
}

// Result summarizes one re-balancing run
type Result struct {
	Strategy string `json:"strategy"`
	Allowed  int    `json:"allowed"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
	Merged   int    `json:"merged"`
}

// NewStrategy returns the named strategy
func NewStrategy(name string, groupSize int) (Strategy, error) {
	switch name {
	case model.StrategyGroupMerge:
		if groupSize < 2 {
			return nil, fmt.Errorf("merge group size must be 2 or greater, got %d", groupSize)
		}
		return &GroupMerge{GroupSize: groupSize}, nil
	case model.StrategyLinkToName:
		return &LinkToName{}, nil
	}
	return nil, fmt.Errorf("unknown rebalance strategy %q", name)
}

// Rebalance runs the group-merge strategy over store
func Rebalance(store *entity.Store, percentage float64, groupSize int) (Result, error) {
	s, err := NewStrategy(model.StrategyGroupMerge, groupSize)
	if err != nil {
		return Result{}, err
	}
	return Run(store, s, percentage)
}

// Run applies s to store so that at most percentage percent of all
// entities remain singleton descriptors
func Run(store *entity.Store, s Strategy, percentage float64) (Result, error) {
	if percentage < 0 || percentage > 100 {
		return Result{}, fmt.Errorf("singleton percentage must range from 0 to 100, got %v", percentage)
	}
	singletons := Singletons(store)
	res := Result{
		Strategy: s.Name(),
		Allowed:  int(percentage * .01 * float64(store.Len())),
		Before:   len(singletons),
	}
	if res.Before > res.Allowed {
		merged, err := s.Apply(store, singletons, res.Allowed)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", s.Name(), err)
		}
		res.Merged = merged
		mergesTotal.WithLabelValues(s.Name()).Add(float64(merged))
	}
	res.After = len(Singletons(store))
	return res, nil
}

// Preview runs s on a fork of store and reports what it would do
func Preview(store *entity.Store, s Strategy, percentage float64) (Result, error) {
	return Run(store.Fork(), s, percentage)
}

// Singletons returns the entities made of exactly one DESC mention, in id
// order
func Singletons(store *entity.Store) []*entity.Entity {
	doc := store.Document()
	var out []*entity.Entity
	for _, e := range store.Entities() {
		if e.Len() != 1 {
			continue
		}
		if m := doc.Mention(e.Mentions()[0]); m != nil && m.Type == model.MentionDescriptor {
			out = append(out, e)
		}
	}
	return out
}

// mentionText returns the surface text of an entity's first mention
func mentionText(store *entity.Store, e *entity.Entity) string {
	id := e.Mentions()[0]
	doc := store.Document()
	return doc.Sentence(id.Sentence).Text(doc.Mention(id))
}
