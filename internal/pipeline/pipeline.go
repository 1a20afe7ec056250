package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/corefer/internal/confidence"
	"github.com/ppiankov/corefer/internal/document"
	"github.com/ppiankov/corefer/internal/entity"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/link"
	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/ppiankov/corefer/internal/rebalance"
)

// Pipeline resolves documents: linking, re-balancing, subtype guessing and
// confidence classification
type Pipeline struct {
	linker    *link.Linker
	knowledge *knowledge.Knowledge
	strategy  rebalance.Strategy // nil when re-balancing is disabled
	renderer  *Renderer
	config    *model.Config
	logger    *slog.Logger
}

// NewPipeline creates a pipeline sharing the read-only knowledge k
func NewPipeline(cfg *model.Config, k *knowledge.Knowledge, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if k == nil {
		k = knowledge.New()
	}

	linker, err := link.NewLinker(cfg.Linker, logger)
	if err != nil {
		return nil, err
	}

	var strategy rebalance.Strategy
	if cfg.Rebalance.Enabled {
		strategy, err = rebalance.NewStrategy(cfg.Rebalance.Strategy, cfg.Rebalance.MergeGroupSize)
		if err != nil {
			return nil, fmt.Errorf("rebalance: %w", err)
		}
	}

	return &Pipeline{
		linker:    linker,
		knowledge: k,
		strategy:  strategy,
		renderer:  NewRenderer(cfg.Output.Indent),
		config:    cfg,
		logger:    logger,
	}, nil
}

// Renderer returns the report renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Result is the outcome of resolving one document
type Result struct {
	Report    *model.Report
	Store     *entity.Store
	Rebalance *rebalance.Result // nil when re-balancing is disabled
}

// ResolveFile reads a document from path and resolves it
func (p *Pipeline) ResolveFile(ctx context.Context, path string) (*Result, error) {
	doc, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Resolve(ctx, doc)
}

// Resolve links every mention of doc and builds the report. The context
// is checked between sentences.
func (p *Pipeline) Resolve(ctx context.Context, doc *document.Document) (*Result, error) {
	logger := p.logger.With("document", doc.ID)
	store := entity.NewStore(doc)

	// 1. Seed entities recognized upstream
	if err := seed(store, doc); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	// 2. Link sentence by sentence
	state := link.NewState(doc, store, p.knowledge)
	state.ExcludeSpeakers = p.config.Linker.ExcludeSpeakerEntities || p.knowledge.IsSpeakerSource(doc.SourceType)
	decisions, err := p.link(ctx, state)
	if err != nil {
		return nil, err
	}

	// 3. Re-balance singleton descriptors
	stats := model.Stats{Decisions: decisions}
	var rb *rebalance.Result
	if p.strategy != nil {
		res, err := rebalance.Run(store, p.strategy, p.config.Rebalance.SingletonPercentage)
		if err != nil {
			return nil, fmt.Errorf("rebalance: %w", err)
		}
		rb = &res
		stats.SingletonsBefore, stats.SingletonsAfter = res.Before, res.After
		logger.Debug("rebalanced", "strategy", res.Strategy, "before", res.Before, "after", res.After, "merged", res.Merged)
	} else {
		n := len(rebalance.Singletons(store))
		stats.SingletonsBefore, stats.SingletonsAfter = n, n
	}

	// 4. Subtypes and global ids
	for _, e := range store.Active() {
		e.Subtype = store.GuessSubtype(e)
		if p.config.Output.GlobalIDs {
			e.GlobalID = uuid.NewString()
		}
	}

	// 5. Classify confidences
	counts, err := confidence.ClassifyAll(store, confidence.AmbiguousSurnames(store, p.knowledge))
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	stats.Confidences = make(map[string]int, len(counts))
	for level, n := range counts {
		stats.Confidences[level.String()] = n
	}

	report := buildReport(doc, store, stats)
	logger.Info("document resolved",
		"mentions", report.Stats.Mentions,
		"entities", report.Stats.ActiveEntities)

	return &Result{Report: report, Store: store, Rebalance: rb}, nil
}

func seed(store *entity.Store, doc *document.Document) error {
	for _, s := range doc.Seeds {
		if len(s.Mentions) == 0 {
			continue
		}
		e, err := store.AddNew(s.Mentions[0], s.Type)
		if err != nil {
			return err
		}
		for _, id := range s.Mentions[1:] {
			if err := store.Add(id, e.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// passes orders the mentions of a sentence: names first so descriptors
// can see the entities of their premodifier names, appositives last so
// they can see their elements
var passes = [][]model.MentionType{
	{model.MentionName},
	{model.MentionDescriptor, model.MentionPronoun},
	{model.MentionAppositive},
}

func (p *Pipeline) link(ctx context.Context, state *link.State) (map[string]int, error) {
	decisions := make(map[string]int)
	for _, s := range state.Doc.Sentences {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", s.Index, err)
		}
		for _, kinds := range passes {
			for _, m := range s.Mentions.All() {
				if !inPass(m, kinds) || !m.Linkable() {
					continue
				}
				if _, linked := state.Store.EntityOf(m.ID); linked {
					continue
				}
				d, err := p.linker.Resolve(state, m)
				if err != nil {
					return nil, err
				}
				decisions[d.Step+"/"+d.Outcome()]++
			}
		}
	}
	return decisions, nil
}

func inPass(m *mention.Mention, kinds []model.MentionType) bool {
	for _, k := range kinds {
		if m.Type == k {
			return true
		}
	}
	return false
}

func buildReport(doc *document.Document, store *entity.Store, stats model.Stats) *model.Report {
	active := store.Active()
	stats.Mentions = doc.MentionCount()
	stats.Entities = store.Len()
	stats.ActiveEntities = len(active)

	report := &model.Report{
		DocumentID: doc.ID,
		SourceType: doc.SourceType,
		ResolvedAt: time.Now().UTC(),
		Entities:   make([]model.EntityReport, 0, len(active)),
		Stats:      stats,
	}
	for _, e := range active {
		er := model.EntityReport{
			ID:            e.ID,
			GlobalID:      e.GlobalID,
			Type:          e.Type,
			Subtype:       e.Subtype,
			Generic:       e.Generic,
			CanonicalName: store.CanonicalName(e),
		}
		for _, id := range e.Mentions() {
			m := doc.Mention(id)
			er.Mentions = append(er.Mentions, model.MentionReport{
				Sentence:   id.Sentence,
				Index:      id.Index,
				Type:       m.Type,
				Text:       doc.Sentence(id.Sentence).Text(m),
				Confidence: e.Confidence(id),
			})
		}
		report.Entities = append(report.Entities, er)
	}
	return report
}
