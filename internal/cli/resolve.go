package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/corefer/internal/model"
	"github.com/ppiankov/corefer/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	showSummary bool
	language    string
	rebalance   bool
	strategy    string
	singletons  float64
	synonyms    string
	globalIDs   bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <document.json>",
	Short: "Resolve the coreference of a single document",
	Long: `Resolve links the mentions of one parsed document into entities:
- Seed entities recognized upstream
- Link names, descriptors, pronouns and appositives sentence by sentence
- Optionally re-balance singleton descriptors
- Guess subtypes and classify the confidence of every mention

Example:
  corefer resolve doc.json
  corefer resolve doc.json --json entities.json --summary
  corefer resolve doc.json --rebalance --strategy link-to-name --singletons 40`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	// Output flags
	resolveCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	resolveCmd.Flags().BoolVar(&showSummary, "summary", false, "print a summary to stderr")
	resolveCmd.Flags().BoolVar(&globalIDs, "global-ids", false, "assign a UUID to every entity")

	// Linker flags
	resolveCmd.Flags().StringVar(&language, "language", "", "linking profile (en, generic)")
	resolveCmd.Flags().StringVar(&synonyms, "synonyms", "", "head synonym sets, e.g. \"mafia,mob;car,auto\"")

	// Re-balance flags
	resolveCmd.Flags().BoolVar(&rebalance, "rebalance", false, "re-balance singleton descriptors")
	resolveCmd.Flags().StringVar(&strategy, "strategy", model.StrategyGroupMerge, "re-balance strategy (group-merge, link-to-name)")
	resolveCmd.Flags().Float64Var(&singletons, "singletons", 100, "singleton descriptors to keep, as a percentage of entities")
}

// applyResolveFlags copies explicitly set flags over the loaded config
func applyResolveFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()
	if flags.Changed("language") {
		cfg.Linker.Language = language
	}
	if flags.Changed("synonyms") {
		cfg.Linker.SynonymSets = synonymsFlag(synonyms)
	}
	if flags.Changed("rebalance") {
		cfg.Rebalance.Enabled = rebalance
	}
	if flags.Changed("strategy") {
		cfg.Rebalance.Strategy = strategy
	}
	if flags.Changed("singletons") {
		cfg.Rebalance.SingletonPercentage = singletons
	}
	if flags.Changed("global-ids") {
		cfg.Output.GlobalIDs = globalIDs
	}
	return cfg.Validate()
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyResolveFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	if cfg.Concurrency.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Concurrency.DocumentTimeout)
		defer cancel()
	}

	k, err := loadKnowledge(ctx, cfg, logger)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, k, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := p.ResolveFile(ctx, path)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Resolved %d mentions into %d entities in %v\n",
			result.Report.Stats.Mentions, result.Report.Stats.ActiveEntities, time.Since(start).Round(time.Millisecond))
		if result.Rebalance != nil {
			fmt.Fprintf(os.Stderr, "✓ Re-balanced singletons: %d -> %d (%s)\n",
				result.Rebalance.Before, result.Rebalance.After, result.Rebalance.Strategy)
		}
	}

	renderer := p.Renderer()
	if outJSON == "" {
		if err := renderer.WriteJSON(os.Stdout, result.Report); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	} else if err := renderer.RenderJSON(result.Report, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if showSummary {
		renderer.RenderSummary(os.Stderr, result.Report)
	}
	return nil
}
