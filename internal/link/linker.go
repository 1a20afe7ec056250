// Package link decides, mention by mention, whether a mention refers to an
// entity already in the store or starts a new one. Decisions are applied to
// the store immediately and are never revisited.
package link

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

// Linker runs the descriptor cascade, the structural pre-links and the
// companion name, pronoun and appositive linkers
type Linker struct {
	steps       []Step
	names       *nameLinker
	pronouns    *pronounLinker
	appositives bool
	preLinks    bool
	logger      *slog.Logger
}

// NewLinker builds a linker for the configured language profile
func NewLinker(cfg model.LinkerConfig, logger *slog.Logger) (*Linker, error) {
	steps, err := buildSteps(cfg)
	if err != nil {
		return nil, fmt.Errorf("build cascade: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		steps:       steps,
		names:       &nameLinker{enabled: cfg.Steps.Names, editDistance: cfg.NameEditDistance},
		pronouns:    &pronounLinker{enabled: cfg.Steps.Pronouns},
		appositives: cfg.Steps.Appositives,
		preLinks:    cfg.Steps.PreLink,
		logger:      logger,
	}, nil
}

// Steps returns the cascade step names in evaluation order
func (l *Linker) Steps() []string {
	names := make([]string, len(l.steps))
	for i, s := range l.steps {
		names[i] = s.Name()
	}
	return names
}

// Link runs the cascade for m as an entity of type target and applies the
// decision to the store
func (l *Linker) Link(state *State, m *mention.Mention, target model.EntityType) (Decision, error) {
	in, err := newInput(state, m, target)
	if err != nil {
		return Decision{}, l.fail(err)
	}
	d, err := l.cascade(in)
	if err != nil {
		return Decision{}, l.fail(fmt.Errorf("link %s: %w", m.ID, err))
	}
	return l.apply(in, d)
}

// Resolve links m according to its kind: names, pronouns and appositives go
// to their companion linkers, everything else through the structural
// pre-links and then the cascade
func (l *Linker) Resolve(state *State, m *mention.Mention) (Decision, error) {
	in, err := newInput(state, m, m.EntityType)
	if err != nil {
		return Decision{}, l.fail(err)
	}

	var d Decision
	switch m.Type {
	case model.MentionName:
		d = l.names.decide(in)
	case model.MentionPronoun:
		d = l.pronouns.decide(in)
	case model.MentionAppositive:
		if l.appositives {
			d = apposDecision(in)
		} else {
			d = CreateNew(in.Target, 0).by(StepAppositive)
		}
	default:
		if pre, ok := l.preLink(in); ok {
			d = pre
			break
		}
		if d, err = l.cascade(in); err != nil {
			return Decision{}, l.fail(fmt.Errorf("link %s: %w", m.ID, err))
		}
	}
	return l.apply(in, d)
}

func (l *Linker) cascade(in *Input) (Decision, error) {
	for _, step := range l.steps {
		d, ok, err := step.Decide(in)
		if err != nil {
			return Decision{}, fmt.Errorf("%s: %w", step.Name(), err)
		}
		if ok {
			return d.by(step.Name()), nil
		}
	}
	return Decision{}, fmt.Errorf("%w: no cascade step applied to %s", model.ErrInconsistent, in.Mention.ID)
}

func (l *Linker) apply(in *Input, d Decision) (Decision, error) {
	store := in.State.Store
	if id, ok := d.EntityID(); ok {
		e, found := store.Entity(id)
		if !found || e.Type != in.Target {
			return Decision{}, l.fail(fmt.Errorf("%w: %s decided %s for a %s mention",
				model.ErrInconsistent, in.Mention.ID, d, in.Target))
		}
		if err := store.Add(in.Mention.ID, id); err != nil {
			return Decision{}, l.fail(fmt.Errorf("apply %s: %w", d, err))
		}
	} else {
		t, _ := d.NewType()
		if _, err := store.AddNew(in.Mention.ID, t); err != nil {
			return Decision{}, l.fail(fmt.Errorf("apply %s: %w", d, err))
		}
	}

	record(d)
	l.logger.Debug("mention linked",
		"mention", in.Mention.ID.String(),
		"kind", string(in.Mention.Type),
		"decision", d.String())
	return d, nil
}

func (l *Linker) fail(err error) error {
	if model.IsInconsistent(err) {
		linkErrors.Inc()
	}
	return err
}
