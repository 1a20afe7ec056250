package link

import (
	"fmt"

	"github.com/ppiankov/corefer/internal/model"
)

// profiles lists the cascade steps each language runs before create-new
var profiles = map[string][]string{
	"en":      {StepBypass, StepAntiLink, StepHeadMatch, StepSubtype, StepPremodName},
	"generic": {StepBypass, StepAntiLink, StepHeadMatch},
}

// Profiles returns the known language profile names
func Profiles() []string {
	return []string{"en", "generic"}
}

// buildSteps assembles the cascade for cfg.Language. Disabled steps are
// left out; create-new always closes the cascade.
func buildSteps(cfg model.LinkerConfig) ([]Step, error) {
	names, ok := profiles[cfg.Language]
	if !ok {
		return nil, fmt.Errorf("unknown language profile %q", cfg.Language)
	}

	var steps []Step
	for _, name := range names {
		step, err := newStep(name, cfg)
		if err != nil {
			return nil, err
		}
		if step != nil {
			steps = append(steps, step)
		}
	}
	return append(steps, &createNewStep{}), nil
}

func newStep(name string, cfg model.LinkerConfig) (Step, error) {
	switch name {
	case StepBypass:
		if !cfg.Steps.Bypass || len(cfg.BypassTypes) == 0 {
			return nil, nil
		}
		types := make(map[model.EntityType]bool, len(cfg.BypassTypes))
		for _, t := range cfg.BypassTypes {
			et := model.ParseEntityType(t)
			if !et.Recognized() {
				return nil, fmt.Errorf("bypass: unknown entity type %q", t)
			}
			types[et] = true
		}
		return &bypassStep{types: types}, nil
	case StepAntiLink:
		if !cfg.Steps.AntiLink {
			return nil, nil
		}
		return &antiLinkStep{words: wordSet(cfg.AntiLinkWords)}, nil
	case StepHeadMatch:
		if !cfg.Steps.HeadMatch {
			return nil, nil
		}
		return &headMatchStep{
			synonyms:          synonymIndex(cfg.SynonymSets),
			requireCloseMatch: cfg.RequireCloseMatch,
		}, nil
	case StepSubtype:
		if !cfg.Steps.Subtype {
			return nil, nil
		}
		return &subtypeStep{}, nil
	case StepPremodName:
		if !cfg.Steps.PremodName {
			return nil, nil
		}
		return &premodNameStep{}, nil
	}
	return nil, fmt.Errorf("unknown step %q", name)
}
