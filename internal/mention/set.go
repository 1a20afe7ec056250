package mention

import (
	"errors"
	"fmt"

	"github.com/ppiankov/corefer/internal/model"
)

var (
	ErrOutOfRange      = errors.New("mention index out of range")
	ErrParentHasChild  = errors.New("parent already has a child")
	ErrAlreadyAttached = errors.New("mention already has a parent")
	ErrHasSuccessor    = errors.New("mention already has a successor")
	ErrNotAttached     = errors.New("mention is not attached")
	ErrNotTail         = errors.New("mention is not a childless chain tail")
	ErrCycle           = errors.New("compound structure contains a cycle")
)

// Set is the append-only mention arena of one sentence
type Set struct {
	sentence int
	items    []*Mention
}

// NewSet creates an empty arena for the given sentence
func NewSet(sentence int) *Set {
	return &Set{sentence: sentence}
}

// Sentence returns the sentence index the arena belongs to
func (s *Set) Sentence() int { return s.sentence }

// Len returns the number of mentions
func (s *Set) Len() int { return len(s.items) }

// Add appends a mention and assigns its id
func (s *Set) Add(m Mention) *Mention {
	m.ID = ID{Sentence: s.sentence, Index: len(s.items)}
	m.parent, m.child, m.next = Ref{}, Ref{}, Ref{}
	stored := &m
	s.items = append(s.items, stored)
	return stored
}

// At returns the mention at index i, or nil when out of range
func (s *Set) At(i int) *Mention {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// All returns the mentions in index order
func (s *Set) All() []*Mention {
	return s.items
}

func (s *Set) get(i int) (*Mention, error) {
	m := s.At(i)
	if m == nil {
		return nil, fmt.Errorf("%w: %w: %d:%d", model.ErrInconsistent, ErrOutOfRange, s.sentence, i)
	}
	return m, nil
}

// Attach makes child the only child of parent. Compound structure is
// built bottom-up, once: child must be free and must not be an ancestor of
// parent.
func (s *Set) Attach(child, parent int) error {
	c, err := s.get(child)
	if err != nil {
		return err
	}
	p, err := s.get(parent)
	if err != nil {
		return err
	}
	if _, ok := p.child.Get(); ok {
		return fmt.Errorf("%w: attach %s to %s: %w", model.ErrInconsistent, c.ID, p.ID, ErrParentHasChild)
	}
	if _, ok := c.parent.Get(); ok {
		return fmt.Errorf("%w: attach %s to %s: %w", model.ErrInconsistent, c.ID, p.ID, ErrAlreadyAttached)
	}
	if _, ok := c.next.Get(); ok {
		return fmt.Errorf("%w: attach %s to %s: %w", model.ErrInconsistent, c.ID, p.ID, ErrHasSuccessor)
	}
	if s.isAncestor(child, parent) {
		return fmt.Errorf("%w: attach %s to %s: %w", model.ErrInconsistent, c.ID, p.ID, ErrCycle)
	}
	p.child = To(child)
	c.parent = To(parent)
	return nil
}

// Chain makes next the successor of prev under prev's parent. prev must
// already be attached, so every chained mention has a parent and a
// mention is never the successor of two others.
func (s *Set) Chain(prev, next int) error {
	p, err := s.get(prev)
	if err != nil {
		return err
	}
	n, err := s.get(next)
	if err != nil {
		return err
	}
	parent, ok := p.parent.Get()
	if !ok {
		return fmt.Errorf("%w: chain %s after %s: %w", model.ErrInconsistent, n.ID, p.ID, ErrNotAttached)
	}
	if _, ok := p.next.Get(); ok {
		return fmt.Errorf("%w: chain %s after %s: %w", model.ErrInconsistent, n.ID, p.ID, ErrHasSuccessor)
	}
	if _, ok := n.parent.Get(); ok || prev == next {
		return fmt.Errorf("%w: chain %s after %s: %w", model.ErrInconsistent, n.ID, p.ID, ErrAlreadyAttached)
	}
	if s.isAncestor(next, parent) {
		return fmt.Errorf("%w: chain %s after %s: %w", model.ErrInconsistent, n.ID, p.ID, ErrCycle)
	}
	p.next = To(next)
	n.parent = To(parent)
	return nil
}

// isAncestor reports whether a is i or one of i's ancestors
func (s *Set) isAncestor(a, i int) bool {
	for steps := 0; steps <= len(s.items); steps++ {
		if i == a {
			return true
		}
		parent, ok := s.items[i].parent.Get()
		if !ok {
			return false
		}
		i = parent
	}
	return true
}

// Detach unlinks a childless mention at the tail of its chain
func (s *Set) Detach(i int) error {
	m, err := s.get(i)
	if err != nil {
		return err
	}
	parent, ok := m.parent.Get()
	if !ok {
		return fmt.Errorf("%w: detach %s: %w", model.ErrInconsistent, m.ID, ErrNotAttached)
	}
	_, hasChild := m.child.Get()
	_, hasNext := m.next.Get()
	if hasChild || hasNext {
		return fmt.Errorf("%w: detach %s: %w", model.ErrInconsistent, m.ID, ErrNotTail)
	}

	p := s.items[parent]
	if first, ok := p.child.Get(); ok && first == i {
		p.child = Ref{}
	} else {
		prev, err := s.predecessor(i)
		if err != nil {
			return err
		}
		prev.next = Ref{}
	}
	m.parent = Ref{}
	return nil
}

func (s *Set) predecessor(i int) (*Mention, error) {
	m := s.items[i]
	parent, _ := m.parent.Get()
	cur, ok := s.items[parent].child.Get()
	for steps := 0; ok && steps <= len(s.items); steps++ {
		next, hasNext := s.items[cur].next.Get()
		if hasNext && next == i {
			return s.items[cur], nil
		}
		cur, ok = next, hasNext
	}
	return nil, fmt.Errorf("%w: %s not found in its parent's chain", model.ErrInconsistent, m.ID)
}

// Children returns the child chain of a compound mention in order
func (s *Set) Children(parent int) []*Mention {
	p := s.At(parent)
	if p == nil {
		return nil
	}
	var out []*Mention
	cur, ok := p.child.Get()
	for ok && len(out) <= len(s.items) {
		m := s.items[cur]
		out = append(out, m)
		cur, ok = m.next.Get()
	}
	return out
}

// EffectiveHead returns the mention whose syntactic head stands for m in
// head-word comparisons: the innermost segment of a nested name, the first
// child of an appositive or list, otherwise m itself.
func (s *Set) EffectiveHead(i int) *Mention {
	m := s.At(i)
	if m == nil {
		return nil
	}
	switch m.Type {
	case model.MentionName:
		for depth := 0; depth <= len(s.items); depth++ {
			child, ok := m.child.Get()
			if !ok {
				break
			}
			m = s.items[child]
		}
	case model.MentionAppositive, model.MentionList:
		if child, ok := m.child.Get(); ok {
			return s.items[child]
		}
	}
	return m
}

// IsPartOfAppositive reports whether the mention's parent is an appositive
func (s *Set) IsPartOfAppositive(i int) bool {
	m := s.At(i)
	if m == nil {
		return false
	}
	parent, ok := m.parent.Get()
	return ok && s.items[parent].Type == model.MentionAppositive
}

// ApposFirst returns the first element of the appositive containing i when
// i is a later element of it
func (s *Set) ApposFirst(i int) (*Mention, bool) {
	if !s.IsPartOfAppositive(i) {
		return nil, false
	}
	parent, _ := s.items[i].parent.Get()
	first, ok := s.items[parent].child.Get()
	if !ok || first == i {
		return nil, false
	}
	return s.items[first], true
}
